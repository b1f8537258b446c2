package filter

import (
	"github.com/sqlspec/sqlspec/internal/astfacade"
	"github.com/sqlspec/sqlspec/parameter"
	"github.com/sqlspec/sqlspec/statement"
)

// InCollection ANDs a "column IN (?)" predicate bound to a single
// list-valued parameter, pairing with the parameter subsystem's list
// expansion when the target driver lacks native array support (§4.7).
type InCollection struct {
	Column string
	Values []any
}

func NewInCollection(column string, values ...any) InCollection {
	return InCollection{Column: column, Values: values}
}

func (f InCollection) AppendToStatement(sql *statement.SQL) (*statement.SQL, error) {
	predicate := &astfacade.Expression{
		Kind:     astfacade.KindComparison,
		Op:       "IN",
		Children: []*astfacade.Expression{astfacade.Column(f.Column), astfacade.List(astfacade.Placeholder("?"))},
	}
	return appendWherePredicate(sql, predicate)
}

func (f InCollection) ExtractParameters() ([]parameter.TypedParameter, map[string]parameter.TypedParameter) {
	return []parameter.TypedParameter{parameter.New(f.Values)}, nil
}

func (f InCollection) Fingerprint() []byte {
	return fingerprintOf("in_collection", f.Column)
}
