package pipeline

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/sqlspec/sqlspec/internal/astfacade"
	"github.com/sqlspec/sqlspec/statement"
)

// ExpressionCache is the subset of internal/cache's namespaced store the
// optimize step needs: compute-once-per-key with single-flight semantics.
// Declared here rather than importing internal/cache directly so pipeline
// stays agnostic of cache implementation. A *cache.Store[*astfacade.Expression]
// satisfies it; whoever builds the step passes one in, or nil for no cache.
type ExpressionCache interface {
	GetOrCompute(key uint64, compute func() (*astfacade.Expression, error)) (*astfacade.Expression, error)
}

// Rewrite is one optimization rule applied to an expression tree.
type Rewrite func(*astfacade.Expression) *astfacade.Expression

// DefaultRewrites are always-safe structural normalizations: they change
// tree shape but never SQL semantics, so a structurally different but
// semantically equivalent result correctly invalidates any upstream
// optimized-cache entry keyed on exact shape (§4.5's tie-break note).
var DefaultRewrites = []Rewrite{collapseSingleChildLists, flattenLogicalChains}

// NewOptimizeStep builds the optimize_step, consulting cache (when
// non-nil) keyed on (hash(original expression, dialect, enabled rewrites))
// to avoid recomputation, per §4.5 step 5.
func NewOptimizeStep(cache ExpressionCache, rewrites []Rewrite) statement.Step {
	if rewrites == nil {
		rewrites = DefaultRewrites
	}
	return statement.Step{
		Name: "optimize",
		Fn: func(ctx *statement.SQLTransformContext) (*statement.SQLTransformContext, error) {
			if ctx.Current == nil {
				return ctx, nil
			}
			key := optimizeCacheKey(ctx.Original, ctx.Dialect, rewrites)
			compute := func() (*astfacade.Expression, error) {
				return applyRewrites(ctx.Current, rewrites), nil
			}

			var optimized *astfacade.Expression
			var err error
			if cache != nil {
				optimized, err = cache.GetOrCompute(key, compute)
			} else {
				optimized, err = compute()
			}
			if err != nil {
				return nil, err
			}

			updated := *ctx
			updated.Current = optimized
			return &updated, nil
		},
	}
}

func optimizeCacheKey(expr *astfacade.Expression, dialect string, rewrites []Rewrite) uint64 {
	h := xxhash.New()
	fmt.Fprintf(h, "dialect=%s|rewrites=%d|text=%s", dialect, len(rewrites), astfacade.Generate(expr, dialect, false))
	return h.Sum64()
}

func applyRewrites(expr *astfacade.Expression, rewrites []Rewrite) *astfacade.Expression {
	current := expr
	for _, rewrite := range rewrites {
		current = astfacade.Transform(current, rewrite)
	}
	return current
}

// collapseSingleChildLists simplifies a KindList with exactly one child
// into that child, removing a redundant grouping introduced by e.g. a
// single-column SELECT list parsed through the generic list builder.
func collapseSingleChildLists(e *astfacade.Expression) *astfacade.Expression {
	if e.Kind == astfacade.KindList && len(e.Children) == 1 {
		return e.Children[0]
	}
	return e
}

// flattenLogicalChains rewrites a right-leaning AND/OR chain produced by
// parsing into the same left-associative shape the builder package
// produces, so two ASTs differing only in associativity hash identically
// downstream.
func flattenLogicalChains(e *astfacade.Expression) *astfacade.Expression {
	if e.Kind != astfacade.KindLogical || e.Op == "NOT" || len(e.Children) != 2 {
		return e
	}
	right := e.Children[1]
	if right.Kind == astfacade.KindLogical && right.Op == e.Op && len(right.Children) == 2 {
		newLeft := &astfacade.Expression{Kind: astfacade.KindLogical, Op: e.Op, Children: []*astfacade.Expression{e.Children[0], right.Children[0]}}
		return &astfacade.Expression{Kind: astfacade.KindLogical, Op: e.Op, Children: []*astfacade.Expression{newLeft, right.Children[1]}}
	}
	return e
}
