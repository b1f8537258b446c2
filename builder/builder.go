// Package builder implements the fluent query builders (§4.6): Select,
// Insert, Update, Delete, Merge, and Explain. Each assembles AST fragments
// via internal/astfacade's node builders and materializes into an
// immutable statement.SQL via Build(). Builders are internally mutable
// (each fluent call mutates the receiver and returns it) but Build() is
// pure and idempotent: calling it twice on the same builder state produces
// equal SQL objects, per §4.6's contract.
package builder

import (
	"github.com/cespare/xxhash/v2"

	"github.com/sqlspec/sqlspec"
	"github.com/sqlspec/sqlspec/internal/astfacade"
	"github.com/sqlspec/sqlspec/internal/cache"
	"github.com/sqlspec/sqlspec/parameter"
	"github.com/sqlspec/sqlspec/statement"
)

// bindings accumulates the parameters a builder's predicates/values
// reference, in call order, mirroring how the teacher's code generator
// threads an ordered parameter list through clause assembly.
type bindings struct {
	positional []parameter.TypedParameter
	named      []string
	namedVals  []parameter.TypedParameter
}

func (b *bindings) bindPositional(v any) *astfacade.Expression {
	b.positional = append(b.positional, parameter.New(v))
	return astfacade.Placeholder("?")
}

func (b *bindings) bindNamed(name string, v any) *astfacade.Expression {
	b.named = append(b.named, name)
	b.namedVals = append(b.namedVals, parameter.New(v))
	return astfacade.Placeholder(":" + name)
}

// apply copies every accumulated binding onto sql, in the order they were
// captured, so placeholder order in the generated text matches parameter
// order (the ordering guarantee §5 requires of the pipeline continues to
// hold for builder-produced statements).
func (b *bindings) apply(sql *statement.SQL) *statement.SQL {
	for _, v := range b.positional {
		sql = sql.WithPositionalParam(v)
	}
	for i, name := range b.named {
		sql = sql.WithNamedParam(name, b.namedVals[i])
	}
	return sql
}

// fingerprint returns a deterministic byte representation of a builder's
// accumulated state, used as the builder cache's key (§4.6: "Builder state
// serializes to a deterministic bytes representation used as builder cache
// key").
func fingerprint(verb string, expr *astfacade.Expression, dialect sqlspec.Dialect) []byte {
	text := astfacade.Generate(expr, string(dialect), false)
	return []byte(verb + "|" + string(dialect) + "|" + text)
}

// Builder is satisfied by every concrete builder in this package (Select,
// Insert, Update, Delete, Merge, Explain). Cache keys on Fingerprint(), the
// deterministic bytes representation §4.6 requires of builder state.
type Builder interface {
	Build() (*statement.SQL, error)
	Fingerprint() []byte
}

// Cache wraps the "builder" namespace from §4.8's cache table: lookups are
// keyed on a builder's Fingerprint(), so two builders assembled through an
// identical sequence of fluent calls share one Build() result instead of
// re-walking AST assembly each time.
type Cache struct {
	store *cache.Store[*statement.SQL]
}

// NewCache builds a builder-result cache of the given capacity (<=0
// disables it, per cache.NewStore's convention).
func NewCache(capacity int) (*Cache, error) {
	store, err := cache.NewStore[*statement.SQL]("builder", capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{store: store}, nil
}

// Build resolves b via the cache, computing and storing on a miss.
func (c *Cache) Build(b Builder) (*statement.SQL, error) {
	key := fingerprintKey(b.Fingerprint())
	return c.store.GetOrCompute(key, b.Build)
}

func fingerprintKey(fp []byte) uint64 {
	h := xxhash.New()
	h.Write(fp)
	return h.Sum64()
}
