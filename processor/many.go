package processor

import (
	"github.com/sqlspec/sqlspec"
	"github.com/sqlspec/sqlspec/internal/astfacade"
	"github.com/sqlspec/sqlspec/parameter"
	"github.com/sqlspec/sqlspec/statement"
)

// compileMany implements the MANY branch of §4.5's step 9 note: "the
// statement text is compiled once; the parameter vector is a sequence of
// vectors, each coerced independently." The representative (first) batch
// is run through the full pipeline to establish the compiled text's shape
// (placeholder count and positions); every batch, including the first, is
// then rendered and coerced against that shared shape. Batches of differing
// length are a ParameterCountMismatchError — MANY execution requires a
// uniform placeholder layout per §5's "extracted row counts correspond to
// input batches by index" ordering guarantee.
func (p *Processor) compileMany(sql *statement.SQL, style parameter.Style) (*statement.CompiledSQL, error) {
	cfg := sql.Config
	if len(sql.ManyParams) == 0 {
		return nil, &sqlspec.ParameterCountMismatchError{Expected: 0, Actual: 0}
	}

	text, expr, err := p.parseOrReuse(sql)
	if err != nil {
		return nil, err
	}

	placeholders, styles, err := parameter.Scan(text, cfg.ParameterConfig.AllowMixedStyles)
	if err != nil {
		return nil, &sqlspec.MixedStylesError{Styles: styleNames(styles)}
	}

	ctx := &statement.SQLTransformContext{
		Current:    expr,
		Original:   expr,
		Parameters: sql.ManyParams[0],
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

	finalText := astfacade.Generate(ctx.Current, string(cfg.Dialect), false)
	finalPlaceholders, styles2, err := parameter.Scan(finalText, cfg.ParameterConfig.AllowMixedStyles)
	if err != nil {
		return nil, &sqlspec.MixedStylesError{Styles: styleNames(styles2)}
	}
	_ = placeholders

	batches := make([][]parameter.TypedParameter, 0, len(sql.ManyParams))
	var renderedText string
	for i, batch := range sql.ManyParams {
		if len(batch) != len(finalPlaceholders) {
			return nil, &sqlspec.ParameterCountMismatchError{Expected: len(finalPlaceholders), Actual: len(batch)}
		}
		rendered, expanded, err := parameter.Render(finalText, finalPlaceholders, batch, style, cfg.ParameterConfig.HasNativeListExpansion)
		if err != nil {
			return nil, err
		}
		coerced, badIndex, err := parameter.Coerce(expanded, cfg.ParameterConfig)
		if err != nil {
			return nil, &sqlspec.ParameterCoercionError{ParameterIndex: badIndex, SourceType: expanded[badIndex].Value.Kind(), Target: "coerced", Cause: err}
		}
		if i == 0 {
			renderedText = rendered
		}
		batches = append(batches, coerced)
	}

	return &statement.CompiledSQL{
		SQL:            renderedText,
		Parameters:     batches[0],
		ParameterStyle: style,
		Metadata:       map[string]any{"parameter_batches": batches},
	}, nil
}
