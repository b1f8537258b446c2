package builder

import (
	"github.com/sqlspec/sqlspec"
	"github.com/sqlspec/sqlspec/internal/astfacade"
	"github.com/sqlspec/sqlspec/statement"
)

// Merge is a fluent MERGE (upsert) statement builder. The ON condition is
// accepted as raw text rather than built from comparisons, since MERGE's
// join condition can reference both sides of the merge and the predicate
// grammar in internal/astfacade only targets WHERE/HAVING bodies.
type Merge struct {
	cfg            statement.StatementConfig
	target         *astfacade.Expression
	source         *astfacade.Expression
	onCondition    string
	matchedSet     []string
	matchedExprs   []*astfacade.Expression
	notMatchedCols []string
	notMatchedVals []any
	bindings       bindings
	built          *statement.SQL
}

// NewMerge starts a MERGE builder against target.
func NewMerge(cfg statement.StatementConfig, target string) *Merge {
	return &Merge{cfg: cfg, target: astfacade.Table(target, "")}
}

// Using sets the source table (or subquery alias) to merge from.
func (b *Merge) Using(source, alias string) *Merge {
	b.built = nil
	b.source = astfacade.Table(source, alias)
	return b
}

// On sets the join condition text, e.g. "target.id = source.id".
func (b *Merge) On(condition string) *Merge {
	b.built = nil
	b.onCondition = condition
	return b
}

// WhenMatchedUpdate adds a "column = value" assignment to the WHEN MATCHED
// THEN UPDATE clause.
func (b *Merge) WhenMatchedUpdate(column string, value any) *Merge {
	b.built = nil
	placeholder := b.bindings.bindPositional(value)
	b.matchedSet = append(b.matchedSet, column)
	b.matchedExprs = append(b.matchedExprs, astfacade.EQ(astfacade.Column(column), placeholder))
	return b
}

// WhenNotMatchedInsert adds a column/value to the WHEN NOT MATCHED THEN
// INSERT clause, in call order.
func (b *Merge) WhenNotMatchedInsert(column string, value any) *Merge {
	b.built = nil
	b.notMatchedCols = append(b.notMatchedCols, column)
	b.notMatchedVals = append(b.notMatchedVals, value)
	return b
}

// Build materializes the accumulated state. Requires Using and On, and at
// least one of WhenMatchedUpdate/WhenNotMatchedInsert — a MERGE with
// neither action clause does nothing.
func (b *Merge) Build() (*statement.SQL, error) {
	if b.built != nil {
		return b.built, nil
	}
	if b.source == nil {
		return nil, &sqlspec.ValidationError{Kind: "missing_using", Message: "merge builder requires Using() before Build()"}
	}
	if b.onCondition == "" {
		return nil, &sqlspec.ValidationError{Kind: "missing_on", Message: "merge builder requires On() before Build()"}
	}
	if len(b.matchedExprs) == 0 && len(b.notMatchedCols) == 0 {
		return nil, &sqlspec.ValidationError{Kind: "missing_actions", Message: "merge builder requires WhenMatchedUpdate or WhenNotMatchedInsert"}
	}

	var clauses []*astfacade.Expression
	clauses = append(clauses, astfacade.Clause("MERGE INTO", b.target))
	clauses = append(clauses, astfacade.Clause("USING", b.source))
	clauses = append(clauses, astfacade.Clause("ON", astfacade.Raw(b.onCondition)))

	if len(b.matchedExprs) > 0 {
		setClause := &astfacade.Expression{Kind: astfacade.KindClause, Name: "SET", Children: b.matchedExprs}
		clauses = append(clauses, astfacade.Clause("WHEN MATCHED THEN UPDATE", setClause))
	}
	if len(b.notMatchedCols) > 0 {
		colExprs := make([]*astfacade.Expression, len(b.notMatchedCols))
		valExprs := make([]*astfacade.Expression, len(b.notMatchedVals))
		for i, c := range b.notMatchedCols {
			colExprs[i] = astfacade.Column(c)
		}
		for i, v := range b.notMatchedVals {
			valExprs[i] = b.bindings.bindPositional(v)
		}
		dialect := string(b.cfg.Dialect)
		colsText := astfacade.Generate(astfacade.List(colExprs...), dialect, false)
		valsText := astfacade.Generate(astfacade.Clause("VALUES", astfacade.List(valExprs...)), dialect, false)
		body := astfacade.Raw(colsText + " " + valsText)
		clauses = append(clauses, astfacade.Clause("WHEN NOT MATCHED THEN INSERT", body))
	}

	expr := astfacade.Statement("MERGE", clauses...)
	sql := statement.NewFromExpression(expr, b.cfg)
	sql = b.bindings.apply(sql)
	b.built = sql
	return sql, nil
}

// Fingerprint returns the builder cache key for the current state.
func (b *Merge) Fingerprint() []byte {
	sql, err := b.Build()
	if err != nil {
		return []byte("merge|error")
	}
	return fingerprint("MERGE", sql.Expression, b.cfg.Dialect)
}
