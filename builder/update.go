package builder

import (
	"github.com/sqlspec/sqlspec"
	"github.com/sqlspec/sqlspec/internal/astfacade"
	"github.com/sqlspec/sqlspec/statement"
)

// Update is a fluent UPDATE statement builder.
type Update struct {
	cfg       statement.StatementConfig
	table     *astfacade.Expression
	setCols   []string
	setExprs  []*astfacade.Expression
	wheres    []*astfacade.Expression
	returning []*astfacade.Expression
	bindings  bindings
	built     *statement.SQL
}

// NewUpdate starts an UPDATE builder targeting table.
func NewUpdate(cfg statement.StatementConfig, table string) *Update {
	return &Update{cfg: cfg, table: astfacade.Table(table, "")}
}

// Set adds a "column = value" assignment, binding value as a parameter.
func (b *Update) Set(column string, value any) *Update {
	b.built = nil
	placeholder := b.bindings.bindPositional(value)
	b.setCols = append(b.setCols, column)
	b.setExprs = append(b.setExprs, astfacade.EQ(astfacade.Column(column), placeholder))
	return b
}

// Where ANDs an additional predicate onto the WHERE clause.
func (b *Update) Where(column, op string, value any) *Update {
	b.built = nil
	placeholder := b.bindings.bindPositional(value)
	b.wheres = append(b.wheres, comparisonFor(op, astfacade.Column(column), placeholder))
	return b
}

// Returning adds columns to a RETURNING clause.
func (b *Update) Returning(cols ...string) *Update {
	b.built = nil
	for _, c := range cols {
		b.returning = append(b.returning, astfacade.Column(c))
	}
	return b
}

// Build materializes the accumulated state. An UPDATE with no WHERE is
// legal SQL (a full-table update) and is not rejected here; only a
// missing Set() is, since an UPDATE with nothing to assign is meaningless.
func (b *Update) Build() (*statement.SQL, error) {
	if b.built != nil {
		return b.built, nil
	}
	if len(b.setExprs) == 0 {
		return nil, &sqlspec.ValidationError{Kind: "missing_set", Message: "update builder requires at least one Set() before Build()"}
	}

	var clauses []*astfacade.Expression
	clauses = append(clauses, astfacade.Clause("UPDATE", b.table))
	clauses = append(clauses, &astfacade.Expression{Kind: astfacade.KindClause, Name: "SET", Children: b.setExprs})
	if len(b.wheres) > 0 {
		clauses = append(clauses, astfacade.Clause("WHERE", astfacade.AND(b.wheres...)))
	}
	if len(b.returning) > 0 {
		clauses = append(clauses, &astfacade.Expression{Kind: astfacade.KindClause, Name: "RETURNING", Children: b.returning})
	}

	expr := astfacade.Statement("UPDATE", clauses...)
	sql := statement.NewFromExpression(expr, b.cfg)
	sql = b.bindings.apply(sql)
	b.built = sql
	return sql, nil
}

// Fingerprint returns the builder cache key for the current state.
func (b *Update) Fingerprint() []byte {
	sql, err := b.Build()
	if err != nil {
		return []byte("update|error")
	}
	return fingerprint("UPDATE", sql.Expression, b.cfg.Dialect)
}
