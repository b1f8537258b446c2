package builder

import (
	"github.com/sqlspec/sqlspec"
	"github.com/sqlspec/sqlspec/internal/astfacade"
	"github.com/sqlspec/sqlspec/statement"
)

// Insert is a fluent INSERT statement builder.
type Insert struct {
	cfg        statement.StatementConfig
	table      *astfacade.Expression
	columns    []string
	rows       [][]any
	onConflict string
	returning  []*astfacade.Expression
	bindings   bindings
	built      *statement.SQL
}

// NewInsert starts an INSERT builder targeting table.
func NewInsert(cfg statement.StatementConfig, table string) *Insert {
	return &Insert{cfg: cfg, table: astfacade.Table(table, "")}
}

// Columns declares the column order that Values rows are matched against.
func (b *Insert) Columns(cols ...string) *Insert {
	b.built = nil
	b.columns = cols
	return b
}

// Values appends one row of values, positionally matched to Columns.
func (b *Insert) Values(vals ...any) *Insert {
	b.built = nil
	b.rows = append(b.rows, vals)
	return b
}

// OnConflict sets a raw ON CONFLICT clause body (e.g. "(id) DO NOTHING").
func (b *Insert) OnConflict(clause string) *Insert {
	b.built = nil
	b.onConflict = clause
	return b
}

// Returning adds columns to a RETURNING clause.
func (b *Insert) Returning(cols ...string) *Insert {
	b.built = nil
	for _, c := range cols {
		b.returning = append(b.returning, astfacade.Column(c))
	}
	return b
}

// Build materializes the accumulated state. Requires at least one column
// and one row of matching arity, per §4.6's boundary behavior.
func (b *Insert) Build() (*statement.SQL, error) {
	if b.built != nil {
		return b.built, nil
	}
	if len(b.columns) == 0 {
		return nil, &sqlspec.ValidationError{Kind: "missing_columns", Message: "insert builder requires Columns() before Build()"}
	}
	if len(b.rows) == 0 {
		return nil, &sqlspec.ValidationError{Kind: "missing_values", Message: "insert builder requires at least one Values() row"}
	}

	var clauses []*astfacade.Expression
	clauses = append(clauses, astfacade.Clause("INSERT INTO", b.table))

	colExprs := make([]*astfacade.Expression, len(b.columns))
	for i, c := range b.columns {
		colExprs[i] = astfacade.Column(c)
	}
	clauses = append(clauses, astfacade.List(colExprs...))

	var rowExprs []*astfacade.Expression
	for _, row := range b.rows {
		if len(row) != len(b.columns) {
			return nil, &sqlspec.ValidationError{Kind: "arity_mismatch", Message: "insert row has a different arity than Columns()"}
		}
		items := make([]*astfacade.Expression, len(row))
		for i, v := range row {
			items[i] = b.bindings.bindPositional(v)
		}
		rowExprs = append(rowExprs, astfacade.List(items...))
	}
	valuesBody := rowExprs[0]
	if len(rowExprs) > 1 {
		// multi-row VALUES: render as comma-joined lists under one clause.
		clauses = append(clauses, &astfacade.Expression{Kind: astfacade.KindClause, Name: "VALUES", Children: rowExprs})
	} else {
		clauses = append(clauses, astfacade.Clause("VALUES", valuesBody))
	}

	if b.onConflict != "" {
		clauses = append(clauses, astfacade.Clause("ON CONFLICT", astfacade.Raw(b.onConflict)))
	}
	if len(b.returning) > 0 {
		clauses = append(clauses, &astfacade.Expression{Kind: astfacade.KindClause, Name: "RETURNING", Children: b.returning})
	}

	expr := astfacade.Statement("INSERT", clauses...)
	sql := statement.NewFromExpression(expr, b.cfg)
	sql = b.bindings.apply(sql)
	b.built = sql
	return sql, nil
}

// Fingerprint returns the builder cache key for the current state.
func (b *Insert) Fingerprint() []byte {
	sql, err := b.Build()
	if err != nil {
		return []byte("insert|error")
	}
	return fingerprint("INSERT", sql.Expression, b.cfg.Dialect)
}
