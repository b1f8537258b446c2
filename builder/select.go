package builder

import (
	"strconv"

	"github.com/sqlspec/sqlspec"
	"github.com/sqlspec/sqlspec/internal/astfacade"
	"github.com/sqlspec/sqlspec/statement"
)

// Select is a fluent SELECT statement builder.
type Select struct {
	cfg      statement.StatementConfig
	columns  []*astfacade.Expression
	table    *astfacade.Expression
	wheres   []*astfacade.Expression
	groupBys []*astfacade.Expression
	havings  []*astfacade.Expression
	orderBys []*astfacade.Expression
	limit    *int
	offset   *int
	bindings bindings
	built    *statement.SQL
}

// NewSelect starts a SELECT builder for cfg's dialect.
func NewSelect(cfg statement.StatementConfig) *Select {
	return &Select{cfg: cfg}
}

// Select sets the projected columns, replacing any previously set.
func (b *Select) Select(cols ...string) *Select {
	b.built = nil
	b.columns = b.columns[:0]
	for _, c := range cols {
		b.columns = append(b.columns, astfacade.Column(c))
	}
	return b
}

// From sets the source table, optionally aliased.
func (b *Select) From(table string, alias ...string) *Select {
	b.built = nil
	a := ""
	if len(alias) > 0 {
		a = alias[0]
	}
	b.table = astfacade.Table(table, a)
	return b
}

// Where ANDs an additional predicate onto the WHERE clause. column is
// compared to value with op (one of "=", "<>", "<", "<=", ">", ">="); value
// is captured as a bound positional parameter, per §4.6: "Parameters
// supplied via where/values are captured as... explicit placeholders".
func (b *Select) Where(column, op string, value any) *Select {
	b.built = nil
	placeholder := b.bindings.bindPositional(value)
	b.wheres = append(b.wheres, comparisonFor(op, astfacade.Column(column), placeholder))
	return b
}

// GroupBy adds columns to the GROUP BY clause.
func (b *Select) GroupBy(cols ...string) *Select {
	b.built = nil
	for _, c := range cols {
		b.groupBys = append(b.groupBys, astfacade.Column(c))
	}
	return b
}

// Having ANDs an additional predicate onto the HAVING clause.
func (b *Select) Having(column, op string, value any) *Select {
	b.built = nil
	placeholder := b.bindings.bindPositional(value)
	b.havings = append(b.havings, comparisonFor(op, astfacade.Column(column), placeholder))
	return b
}

// OrderBy adds a column (optionally "col DESC"/"col ASC") to the ORDER BY
// clause.
func (b *Select) OrderBy(column string) *Select {
	b.built = nil
	b.orderBys = append(b.orderBys, astfacade.Raw(column))
	return b
}

// Limit sets the LIMIT clause.
func (b *Select) Limit(n int) *Select {
	b.built = nil
	b.limit = &n
	return b
}

// Offset sets the OFFSET clause.
func (b *Select) Offset(n int) *Select {
	b.built = nil
	b.offset = &n
	return b
}

// Build materializes the accumulated state into an immutable SQL object.
// It is pure: calling Build twice without an intervening mutator returns
// the same cached SQL object, per §4.6's idempotence contract. A
// builder with no From call fails with a ValidationError, per the boundary
// behavior named in §8.
func (b *Select) Build() (*statement.SQL, error) {
	if b.built != nil {
		return b.built, nil
	}
	if b.table == nil {
		return nil, &sqlspec.ValidationError{Kind: "missing_from", Message: "select builder requires From() before Build()"}
	}

	var clauses []*astfacade.Expression
	cols := b.columns
	if len(cols) == 0 {
		cols = []*astfacade.Expression{astfacade.Raw("*")}
	}
	clauses = append(clauses, &astfacade.Expression{Kind: astfacade.KindClause, Name: "SELECT", Children: cols})
	clauses = append(clauses, &astfacade.Expression{Kind: astfacade.KindClause, Name: "FROM", Children: []*astfacade.Expression{b.table}})
	if len(b.wheres) > 0 {
		clauses = append(clauses, astfacade.Clause("WHERE", astfacade.AND(b.wheres...)))
	}
	if len(b.groupBys) > 0 {
		clauses = append(clauses, &astfacade.Expression{Kind: astfacade.KindClause, Name: "GROUP BY", Children: b.groupBys})
	}
	if len(b.havings) > 0 {
		clauses = append(clauses, astfacade.Clause("HAVING", astfacade.AND(b.havings...)))
	}
	if len(b.orderBys) > 0 {
		clauses = append(clauses, &astfacade.Expression{Kind: astfacade.KindClause, Name: "ORDER BY", Children: b.orderBys})
	}
	if b.limit != nil {
		clauses = append(clauses, astfacade.Clause("LIMIT", astfacade.Raw(strconv.Itoa(*b.limit))))
	}
	if b.offset != nil {
		clauses = append(clauses, astfacade.Clause("OFFSET", astfacade.Raw(strconv.Itoa(*b.offset))))
	}

	expr := astfacade.Statement("SELECT", clauses...)
	sql := statement.NewFromExpression(expr, b.cfg)
	sql = b.bindings.apply(sql)
	b.built = sql
	return sql, nil
}

// Fingerprint returns the builder cache key for the current state.
func (b *Select) Fingerprint() []byte {
	sql, err := b.Build()
	if err != nil {
		return []byte("select|error")
	}
	return fingerprint("SELECT", sql.Expression, b.cfg.Dialect)
}

func comparisonFor(op string, left, right *astfacade.Expression) *astfacade.Expression {
	switch op {
	case "=":
		return astfacade.EQ(left, right)
	case "<>", "!=":
		return astfacade.NE(left, right)
	case "<":
		return astfacade.LT(left, right)
	case "<=":
		return astfacade.LE(left, right)
	case ">":
		return astfacade.GT(left, right)
	case ">=":
		return astfacade.GE(left, right)
	default:
		return &astfacade.Expression{Kind: astfacade.KindComparison, Op: op, Children: []*astfacade.Expression{left, right}}
	}
}
