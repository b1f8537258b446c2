package filter

import (
	"github.com/sqlspec/sqlspec"
	"github.com/sqlspec/sqlspec/internal/astfacade"
	"github.com/sqlspec/sqlspec/parameter"
	"github.com/sqlspec/sqlspec/statement"
)

// Search ANDs a LIKE (or ILIKE, when CaseInsensitive and the target
// dialect's capability table reports FeatureILike) predicate, wrapping
// Term in "%...%" wildcards and escaping any literal wildcard characters in
// Term itself. On a dialect without native ILIKE, a case-insensitive
// request degrades to a case-sensitive LIKE rather than silently emitting
// an operator the target database would reject.
type Search struct {
	Column          string
	Term            string
	CaseInsensitive bool
}

func NewSearch(column, term string, caseInsensitive bool) Search {
	return Search{Column: column, Term: term, CaseInsensitive: caseInsensitive}
}

func (f Search) AppendToStatement(sql *statement.SQL) (*statement.SQL, error) {
	op := "LIKE"
	if f.CaseInsensitive && sqlspec.Supports(sql.Config.Dialect, sqlspec.FeatureILike) {
		op = "ILIKE"
	}
	predicate := &astfacade.Expression{
		Kind:     astfacade.KindComparison,
		Op:       op,
		Children: []*astfacade.Expression{astfacade.Column(f.Column), astfacade.Placeholder("?")},
	}
	return appendWherePredicate(sql, predicate)
}

func (f Search) ExtractParameters() ([]parameter.TypedParameter, map[string]parameter.TypedParameter) {
	return []parameter.TypedParameter{parameter.New(quoteLike(f.Term))}, nil
}

func (f Search) Fingerprint() []byte {
	ci := "0"
	if f.CaseInsensitive {
		ci = "1"
	}
	return fingerprintOf("search", f.Column, ci)
}
