// Package statement holds the immutable statement configuration bundle,
// the SQL object, the compiled-artifact value type, and the mutable
// transform context a pipeline step operates on.
package statement

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/sqlspec/sqlspec"
	"github.com/sqlspec/sqlspec/parameter"
)

// Step is one named pipeline transformer. Steps are identified by name for
// metadata tracking and cache integration, per the pipeline composition
// design: a later step assigning the same metadata key as an earlier one
// wins.
type Step struct {
	Name string
	Fn   func(*SQLTransformContext) (*SQLTransformContext, error)
}

// Compiler resolves a SQL statement to a CompiledSQL. It is implemented by
// *processor.Processor; StatementConfig only stores the interface to avoid
// an import cycle (processor depends on statement, not the reverse).
type Compiler interface {
	Compile(sql *SQL, targetStyle parameter.Style) (*CompiledSQL, error)
}

// StatementConfig is the immutable configuration bundle consulted at every
// stage of compilation. Two StatementConfig values with equal Fingerprint
// are interchangeable cache keys.
type StatementConfig struct {
	Dialect               sqlspec.Dialect
	EnableParsing         bool
	EnableValidation      bool
	EnableTransformations bool
	EnableCaching         bool
	ParameterConfig       parameter.StyleConfig
	PipelineSteps         []Step
	// Processor resolves SQL.Compile calls. Excluded from Fingerprint:
	// it is wiring, not statement-shaping content.
	Processor Compiler
}

// DefaultStatementConfig returns a StatementConfig with parsing,
// transformations, validation and caching enabled and a single-style
// parameter config. PipelineSteps is left empty: callers build it with
// DefaultPipeline from the pipeline package's steps. HasNativeListExpansion is
// derived from dialect's capability table rather than left at its
// permissive-default false, so callers targeting a dialect that natively
// binds arrays (e.g. Postgres) don't have to remember to flip it.
func DefaultStatementConfig(dialect sqlspec.Dialect, style parameter.Style) StatementConfig {
	pc := parameter.DefaultStyleConfig(style)
	pc.HasNativeListExpansion = sqlspec.Supports(dialect, sqlspec.FeatureNativeListExpansion)
	return StatementConfig{
		Dialect:               dialect,
		EnableParsing:         true,
		EnableValidation:      true,
		EnableTransformations: true,
		EnableCaching:         true,
		ParameterConfig:       pc,
	}
}

// Fingerprint hashes every field that affects compiled output. Identical
// configs (by field value, not by step closures' identity) must hash
// equally; step identity is summarized by name since closures are not
// comparable.
func (c StatementConfig) Fingerprint() uint64 {
	h := xxhash.New()
	fmt.Fprintf(h, "dialect=%s|parse=%t|validate=%t|transform=%t|cache=%t|",
		c.Dialect, c.EnableParsing, c.EnableValidation, c.EnableTransformations, c.EnableCaching)
	fmt.Fprintf(h, "default=%s|native_list=%t|static_script=%t|mixed=%t|",
		c.ParameterConfig.DefaultStyle, c.ParameterConfig.HasNativeListExpansion,
		c.ParameterConfig.NeedsStaticScriptCompilation, c.ParameterConfig.AllowMixedStyles)
	for s := parameter.QMARK; s <= parameter.Static; s++ {
		fmt.Fprintf(h, "%s:%t,", s, c.ParameterConfig.Supports(s))
	}
	for _, step := range c.PipelineSteps {
		fmt.Fprintf(h, "|step=%s", step.Name)
	}
	return h.Sum64()
}

// DefaultPipeline returns the default step order (§4.3): literal
// parameterization and optimize when transformations are enabled,
// validate when validation is enabled. Callers may splice additional
// steps before, between, or after these.
func DefaultPipeline(parameterizeLiterals, optimize, validate Step, cfg StatementConfig) []Step {
	var steps []Step
	if cfg.EnableTransformations {
		steps = append(steps, parameterizeLiterals, optimize)
	}
	if cfg.EnableValidation {
		steps = append(steps, validate)
	}
	return steps
}
