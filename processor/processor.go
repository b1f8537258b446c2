// Package processor implements the SQL processor (pipeline): the
// compile-once orchestration that parses a statement's text, runs its
// configured transformation/validation steps, converts placeholders to the
// target parameter style, expands lists, coerces types, and generates final
// SQL text, consulting the multi-tier cache along the way. This is the
// hardest subsystem named in §4.5 — its correctness governs correctness of
// the whole engine.
package processor

import (
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/sqlspec/sqlspec"
	"github.com/sqlspec/sqlspec/internal/astfacade"
	"github.com/sqlspec/sqlspec/internal/cache"
	"github.com/sqlspec/sqlspec/observability"
	"github.com/sqlspec/sqlspec/parameter"
	"github.com/sqlspec/sqlspec/statement"
)

// Processor implements statement.Compiler. It owns the expression and
// compiled-statement cache namespaces; the optimized-expression namespace
// is instead owned by whichever pipeline.NewOptimizeStep closure a
// StatementConfig's PipelineSteps wires in, since that cache key depends on
// the rewrite set a particular step was built with.
type Processor struct {
	expressionCache *cache.Store[*astfacade.Expression]
	compiledCache   *cache.Store[*statement.CompiledSQL]
	events          *observability.Dispatcher
}

// Options configures cache capacities; zero values fall back to the
// defaults from §4.8's namespace table. EventDispatcher is optional: when
// nil, Compile emits no events, the zero-cost disabled path from §4.11.
type Options struct {
	ExpressionCapacity int
	CompiledCapacity   int
	EventDispatcher    *observability.Dispatcher
}

// New builds a Processor with its own expression and compiled caches.
func New(opts Options) (*Processor, error) {
	exprCap := opts.ExpressionCapacity
	if exprCap == 0 {
		exprCap = cache.DefaultExpressionCapacity
	}
	compiledCap := opts.CompiledCapacity
	if compiledCap == 0 {
		compiledCap = cache.DefaultCompiledCapacity
	}

	exprStore, err := cache.NewStore[*astfacade.Expression]("expression", exprCap)
	if err != nil {
		return nil, err
	}
	compiledStore, err := cache.NewStore[*statement.CompiledSQL]("compiled", compiledCap)
	if err != nil {
		return nil, err
	}
	return &Processor{expressionCache: exprStore, compiledCache: compiledStore, events: opts.EventDispatcher}, nil
}

// Compile resolves sql to a CompiledSQL rendered in targetStyle, per §4.5's
// nine-step algorithm. It is the sole implementation of statement.Compiler
// that ships with this module; adapters needing a different cache topology
// may implement the interface themselves.
func (p *Processor) Compile(sql *statement.SQL, targetStyle parameter.Style) (*statement.CompiledSQL, error) {
	cfg := sql.Config

	style := targetStyle
	if sql.IsScript() && cfg.ParameterConfig.NeedsStaticScriptCompilation {
		style = parameter.Static
	}
	if !sql.IsScript() && !cfg.ParameterConfig.Supports(style) {
		return nil, fmt.Errorf("processor: style %s is not in this statement's supported styles", style)
	}

	key := compiledCacheKey(sql.RawText, cfg.Fingerprint(), style, sql.FiltersFingerprint())
	missed := false
	compute := func() (*statement.CompiledSQL, error) {
		missed = true
		return p.compileUncached(sql, style)
	}

	start := time.Now()
	var compiled *statement.CompiledSQL
	var err error
	if cfg.EnableCaching {
		compiled, err = p.compiledCache.GetOrCompute(key, compute)
	} else {
		compiled, err = compute()
	}
	p.emitCompileEvent(sql, missed, time.Since(start), err)
	return compiled, err
}

// emitCompileEvent reports a cache hit or miss through the configured
// observability.Dispatcher; a no-op when none was configured (§4.11's
// single-branch disabled path).
func (p *Processor) emitCompileEvent(sql *statement.SQL, missed bool, elapsed time.Duration, err error) {
	if p.events == nil {
		return
	}
	phase := observability.PhaseHit
	if missed {
		phase = observability.PhaseMiss
	}
	if err != nil {
		phase = observability.PhaseError
	}
	p.events.Emit(observability.StatementCompileEvent{
		Event: observability.Event{
			CorrelationID:  observability.NewCorrelationID(),
			OperationKind:  sql.OperationKind,
			SQLFingerprint: sql.FiltersFingerprint(),
			ParameterCount: len(sql.Positional),
			Duration:       elapsed,
		},
		Phase: phase,
	})
}

func (p *Processor) compileUncached(sql *statement.SQL, style parameter.Style) (*statement.CompiledSQL, error) {
	cfg := sql.Config

	if !cfg.EnableParsing {
		return p.compileFastPath(sql, style)
	}

	if sql.IsMany() {
		return p.compileMany(sql, style)
	}

	text, expr, err := p.parseOrReuse(sql)
	if err != nil {
		return nil, err
	}

	params, placeholders, err := normalizeParameters(sql, text)
	if err != nil {
		return nil, err
	}

	ctx := &statement.SQLTransformContext{
		Current:    expr,
		Original:   expr,
		Parameters: params,
		Dialect:    string(cfg.Dialect),
		Metadata:   map[string]any{},
		Config:     cfg,
	}

	for _, step := range cfg.PipelineSteps {
		ctx, err = step.Fn(ctx)
		if err != nil {
			return nil, err
		}
	}

	// A step may have added parameters (literal parameterization) or
	// rewritten Current to a structurally different tree; regenerate text
	// and rescan placeholders from the post-pipeline expression so style
	// conversion operates on what the pipeline actually produced.
	finalText := astfacade.Generate(ctx.Current, string(cfg.Dialect), false)
	finalPlaceholders, styles, err := parameter.Scan(finalText, cfg.ParameterConfig.AllowMixedStyles)
	if err != nil {
		return nil, &sqlspec.MixedStylesError{Styles: styleNames(styles)}
	}
	_ = placeholders // superseded by finalPlaceholders; retained for step-1 count validation above

	return p.finishCompile(sql, finalText, finalPlaceholders, ctx.Parameters, style)
}

// compileFastPath implements §4.5.1: no transformation or validation steps
// run; placeholder scanning operates directly on raw text.
func (p *Processor) compileFastPath(sql *statement.SQL, style parameter.Style) (*statement.CompiledSQL, error) {
	text := sql.RawText
	if text == "" && sql.Expression != nil {
		text = astfacade.Generate(sql.Expression, string(sql.Config.Dialect), false)
	}
	placeholders, styles, err := parameter.Scan(text, sql.Config.ParameterConfig.AllowMixedStyles)
	if err != nil {
		return nil, &sqlspec.MixedStylesError{Styles: styleNames(styles)}
	}
	params, _, err := normalizeParameters(sql, text)
	if err != nil {
		return nil, err
	}
	return p.finishCompile(sql, text, placeholders, params, style)
}

// finishCompile runs style conversion + list expansion + type coercion and
// wraps the result, the shared tail of both the normal and fast paths
// (§4.5 steps 7-9).
func (p *Processor) finishCompile(sql *statement.SQL, text string, placeholders []parameter.Placeholder, params []parameter.TypedParameter, style parameter.Style) (*statement.CompiledSQL, error) {
	cfg := sql.Config

	if style == parameter.Static {
		finalText, err := renderStatic(text, placeholders, params, cfg.Dialect)
		if err != nil {
			return nil, err
		}
		return &statement.CompiledSQL{
			SQL:            finalText,
			Parameters:     nil,
			ParameterStyle: parameter.Static,
			Metadata:       map[string]any{},
		}, nil
	}

	if len(placeholders) == 0 {
		return &statement.CompiledSQL{
			SQL:            text,
			Parameters:     nil,
			ParameterStyle: style,
			Metadata:       map[string]any{},
		}, nil
	}

	if len(placeholders) != len(params) {
		return nil, &sqlspec.ParameterCountMismatchError{Expected: len(placeholders), Actual: len(params)}
	}

	finalText, expanded, err := parameter.Render(text, placeholders, params, style, cfg.ParameterConfig.HasNativeListExpansion)
	if err != nil {
		if errors.Is(err, parameter.ErrEmptyListParameter) {
			return nil, &sqlspec.ValidationError{Kind: "empty_list_parameter", Message: err.Error()}
		}
		return nil, fmt.Errorf("processor: %w", err)
	}

	coerced, badIndex, err := parameter.Coerce(expanded, cfg.ParameterConfig)
	if err != nil {
		return nil, &sqlspec.ParameterCoercionError{ParameterIndex: badIndex, SourceType: expanded[badIndex].Value.Kind(), Target: "coerced", Cause: err}
	}

	return &statement.CompiledSQL{
		SQL:            finalText,
		Parameters:     coerced,
		ParameterStyle: style,
		Metadata:       map[string]any{},
	}, nil
}

// parseOrReuse looks up the parsed expression by (hash(text), dialect),
// parsing on miss (§4.5 step 2).
func (p *Processor) parseOrReuse(sql *statement.SQL) (string, *astfacade.Expression, error) {
	if sql.Expression != nil {
		text := sql.RawText
		if text == "" {
			text = astfacade.Generate(sql.Expression, string(sql.Config.Dialect), false)
		}
		return text, sql.Expression, nil
	}

	text := sql.RawText
	key := expressionCacheKey(text, sql.Config.Dialect)
	compute := func() (*astfacade.Expression, error) {
		expr, err := astfacade.Parse(text, string(sql.Config.Dialect))
		if err != nil {
			return nil, err
		}
		return expr, nil
	}

	var expr *astfacade.Expression
	var err error
	if sql.Config.EnableCaching {
		expr, err = p.expressionCache.GetOrCompute(key, compute)
	} else {
		expr, err = compute()
	}
	if err != nil {
		return "", nil, err
	}
	return text, expr, nil
}

// ExpressionCache exposes the expression store so a StatementConfig's
// optimize step (built once, outside this package) can share cache
// infrastructure if desired; most callers instead give the optimize step
// its own namespace via cache.NewStore directly.
func (p *Processor) ExpressionCache() *cache.Store[*astfacade.Expression] { return p.expressionCache }

func expressionCacheKey(text string, dialect sqlspec.Dialect) uint64 {
	h := xxhash.New()
	fmt.Fprintf(h, "%s|%s", text, dialect)
	return h.Sum64()
}

func compiledCacheKey(text string, configFP uint64, style parameter.Style, filtersFP uint64) uint64 {
	h := xxhash.New()
	fmt.Fprintf(h, "%s|%d|%s|%d", text, configFP, style, filtersFP)
	return h.Sum64()
}

func styleNames(styles []parameter.Style) []string {
	out := make([]string, len(styles))
	for i, s := range styles {
		out[i] = s.String()
	}
	return out
}
