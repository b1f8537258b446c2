package builder

import (
	"github.com/sqlspec/sqlspec"
	"github.com/sqlspec/sqlspec/internal/astfacade"
	"github.com/sqlspec/sqlspec/statement"
)

// Explain wraps another builder's statement in an EXPLAIN clause, mirroring
// the way psql/mysql clients prefix any DML/query with EXPLAIN rather than
// needing a distinct grammar for it.
type Explain struct {
	cfg     statement.StatementConfig
	target  *statement.SQL
	analyze bool
	built   *statement.SQL
}

// Of wraps target's already-built statement for explanation. target's
// positional/named parameters carry through unchanged.
func Of(cfg statement.StatementConfig, target *statement.SQL) *Explain {
	return &Explain{cfg: cfg, target: target}
}

// Analyze requests EXPLAIN ANALYZE instead of plain EXPLAIN.
func (b *Explain) Analyze(on bool) *Explain {
	b.built = nil
	b.analyze = on
	return b
}

// Build materializes the EXPLAIN wrapper around the target statement's
// expression.
func (b *Explain) Build() (*statement.SQL, error) {
	if b.built != nil {
		return b.built, nil
	}
	if b.target == nil || b.target.Expression == nil {
		return nil, &sqlspec.ValidationError{Kind: "missing_target", Message: "explain builder requires a built target statement with an AST"}
	}

	option := "EXPLAIN"
	if b.analyze {
		option = "EXPLAIN ANALYZE"
	}
	clause := &astfacade.Expression{Kind: astfacade.KindClause, Name: option, Children: []*astfacade.Expression{b.target.Expression}}
	expr := astfacade.Statement("EXPLAIN", clause)

	sql := statement.NewFromExpression(expr, b.cfg)
	for _, p := range b.target.Positional {
		sql = sql.WithPositionalParam(p)
	}
	for _, name := range b.target.NamedParams() {
		v, _ := b.target.NamedParam(name)
		sql = sql.WithNamedParam(name, v)
	}
	b.built = sql
	return sql, nil
}

// Fingerprint returns the builder cache key for the current state.
func (b *Explain) Fingerprint() []byte {
	sql, err := b.Build()
	if err != nil {
		return []byte("explain|error")
	}
	return fingerprint("EXPLAIN", sql.Expression, b.cfg.Dialect)
}
