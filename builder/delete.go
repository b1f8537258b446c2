package builder

import (
	"github.com/sqlspec/sqlspec"
	"github.com/sqlspec/sqlspec/internal/astfacade"
	"github.com/sqlspec/sqlspec/statement"
)

// Delete is a fluent DELETE statement builder.
type Delete struct {
	cfg       statement.StatementConfig
	table     *astfacade.Expression
	wheres    []*astfacade.Expression
	returning []*astfacade.Expression
	bindings  bindings
	built     *statement.SQL
}

// NewDelete starts a DELETE builder targeting table.
func NewDelete(cfg statement.StatementConfig, table string) *Delete {
	return &Delete{cfg: cfg, table: astfacade.Table(table, "")}
}

// Where ANDs an additional predicate onto the WHERE clause.
func (b *Delete) Where(column, op string, value any) *Delete {
	b.built = nil
	placeholder := b.bindings.bindPositional(value)
	b.wheres = append(b.wheres, comparisonFor(op, astfacade.Column(column), placeholder))
	return b
}

// Returning adds columns to a RETURNING clause.
func (b *Delete) Returning(cols ...string) *Delete {
	b.built = nil
	for _, c := range cols {
		b.returning = append(b.returning, astfacade.Column(c))
	}
	return b
}

// Build materializes the accumulated state. A DELETE with no WHERE is
// legal (deletes every row) and is intentionally not rejected, mirroring
// Update's boundary choice.
func (b *Delete) Build() (*statement.SQL, error) {
	if b.built != nil {
		return b.built, nil
	}
	if b.table == nil {
		return nil, &sqlspec.ValidationError{Kind: "missing_table", Message: "delete builder requires a target table"}
	}

	var clauses []*astfacade.Expression
	clauses = append(clauses, astfacade.Clause("DELETE FROM", b.table))
	if len(b.wheres) > 0 {
		clauses = append(clauses, astfacade.Clause("WHERE", astfacade.AND(b.wheres...)))
	}
	if len(b.returning) > 0 {
		clauses = append(clauses, &astfacade.Expression{Kind: astfacade.KindClause, Name: "RETURNING", Children: b.returning})
	}

	expr := astfacade.Statement("DELETE", clauses...)
	sql := statement.NewFromExpression(expr, b.cfg)
	sql = b.bindings.apply(sql)
	b.built = sql
	return sql, nil
}

// Fingerprint returns the builder cache key for the current state.
func (b *Delete) Fingerprint() []byte {
	sql, err := b.Build()
	if err != nil {
		return []byte("delete|error")
	}
	return fingerprint("DELETE", sql.Expression, b.cfg.Dialect)
}
