package filter

import (
	"strings"

	"github.com/sqlspec/sqlspec/internal/astfacade"
	"github.com/sqlspec/sqlspec/parameter"
	"github.com/sqlspec/sqlspec/statement"
)

// OrderBy appends an ORDER BY clause. Columns may include a direction
// suffix, e.g. "created_at DESC".
type OrderBy struct {
	Columns []string
}

func NewOrderBy(columns ...string) OrderBy {
	return OrderBy{Columns: columns}
}

func (f OrderBy) AppendToStatement(sql *statement.SQL) (*statement.SQL, error) {
	if len(f.Columns) == 0 {
		return sql, nil
	}
	items := make([]*astfacade.Expression, len(f.Columns))
	for i, c := range f.Columns {
		items[i] = astfacade.Raw(c)
	}
	clause := &astfacade.Expression{Kind: astfacade.KindClause, Name: "ORDER BY", Children: items}
	return appendClause(sql, clause)
}

func (f OrderBy) ExtractParameters() ([]parameter.TypedParameter, map[string]parameter.TypedParameter) {
	return nil, nil
}

func (f OrderBy) Fingerprint() []byte {
	return fingerprintOf("order_by", strings.Join(f.Columns, ","))
}
