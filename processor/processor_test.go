package processor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlspec/sqlspec"
	"github.com/sqlspec/sqlspec/parameter"
	"github.com/sqlspec/sqlspec/pipeline"
	"github.com/sqlspec/sqlspec/processor"
	"github.com/sqlspec/sqlspec/statement"
)

func newConfig(t *testing.T, style parameter.Style, nativeListExpansion bool) statement.StatementConfig {
	t.Helper()
	validate, err := pipeline.NewValidateStep(pipeline.ValidateOptions{})
	require.NoError(t, err)

	pc := parameter.DefaultStyleConfig(style)
	pc.HasNativeListExpansion = nativeListExpansion
	pc = pc.WithSupportedStyles(parameter.QMARK, parameter.NUMERIC, parameter.NamedColon)

	cfg := statement.StatementConfig{
		Dialect:               sqlspec.DialectPostgres,
		EnableParsing:         true,
		EnableValidation:      true,
		EnableTransformations: true,
		EnableCaching:         true,
		ParameterConfig:       pc,
	}
	cfg.PipelineSteps = statement.DefaultPipeline(pipeline.ParameterizeLiterals, pipeline.NewOptimizeStep(nil, nil), validate, cfg)
	return cfg
}

func newProcessor(t *testing.T) *processor.Processor {
	t.Helper()
	p, err := processor.New(processor.Options{})
	require.NoError(t, err)
	return p
}

func TestCompile_StyleConversionToNumeric(t *testing.T) {
	p := newProcessor(t)
	cfg := newConfig(t, parameter.NUMERIC, true)
	cfg.EnableTransformations = false // no literals to parameterize in this example
	cfg.PipelineSteps = nil

	sql := statement.New("SELECT * FROM u WHERE id = ? AND name = ?", cfg)
	sql = sql.WithPositionalParam(parameter.New(7)).WithPositionalParam(parameter.New("ann"))

	compiled, err := p.Compile(sql, parameter.NUMERIC)
	require.NoError(t, err)
	require.Equal(t, "SELECT * FROM u WHERE id = $1 AND name = $2", compiled.SQL)
	require.Len(t, compiled.Parameters, 2)
	require.Equal(t, int64(7), compiled.Parameters[0].Native())
	require.Equal(t, "ann", compiled.Parameters[1].Native())
}

func TestCompile_ListExpansionWithoutNativeSupport(t *testing.T) {
	p := newProcessor(t)
	cfg := newConfig(t, parameter.QMARK, false)
	cfg.EnableTransformations = false
	cfg.PipelineSteps = nil

	sql := statement.New("SELECT * FROM u WHERE id IN (?)", cfg)
	sql = sql.WithPositionalParam(parameter.New([]any{1, 2, 3}))

	compiled, err := p.Compile(sql, parameter.QMARK)
	require.NoError(t, err)
	require.Equal(t, "SELECT * FROM u WHERE id IN (?, ?, ?)", compiled.SQL)
	require.Len(t, compiled.Parameters, 3)
}

func TestCompile_ParameterCountMismatch(t *testing.T) {
	p := newProcessor(t)
	cfg := newConfig(t, parameter.QMARK, true)
	cfg.EnableTransformations = false
	cfg.PipelineSteps = nil

	sql := statement.New("SELECT ?, ?", cfg)
	sql = sql.WithPositionalParam(parameter.New(1))

	_, err := p.Compile(sql, parameter.QMARK)
	require.Error(t, err)
	var mismatch *sqlspec.ParameterCountMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, 2, mismatch.Expected)
	require.Equal(t, 1, mismatch.Actual)
}

func TestCompile_IdempotentAcrossCacheColdAndWarm(t *testing.T) {
	p := newProcessor(t)
	cfg := newConfig(t, parameter.QMARK, true)
	cfg.EnableTransformations = false
	cfg.PipelineSteps = nil

	sql := statement.New("SELECT * FROM u WHERE id = ?", cfg)
	sql = sql.WithPositionalParam(parameter.New(1))

	first, err := p.Compile(sql, parameter.QMARK)
	require.NoError(t, err)

	sqlAgain := statement.New("SELECT * FROM u WHERE id = ?", cfg)
	sqlAgain = sqlAgain.WithPositionalParam(parameter.New(1))
	second, err := p.Compile(sqlAgain, parameter.QMARK)
	require.NoError(t, err)

	require.Equal(t, first.SQL, second.SQL)
	require.Equal(t, first.Parameters, second.Parameters)
}

func TestCompile_EmptyParametersNoPlaceholders(t *testing.T) {
	p := newProcessor(t)
	cfg := newConfig(t, parameter.QMARK, true)
	cfg.EnableTransformations = false
	cfg.PipelineSteps = nil

	sql := statement.New("SELECT * FROM u", cfg)
	compiled, err := p.Compile(sql, parameter.QMARK)
	require.NoError(t, err)
	require.Equal(t, "SELECT * FROM u", compiled.SQL)
	require.Empty(t, compiled.Parameters)
}

func TestCompile_ScriptStaticCompilation(t *testing.T) {
	p := newProcessor(t)
	pc := parameter.DefaultStyleConfig(parameter.QMARK)
	pc.NeedsStaticScriptCompilation = true
	pc = pc.WithSupportedStyles(parameter.Static)

	cfg := statement.StatementConfig{
		Dialect:         sqlspec.DialectSQLite,
		EnableParsing:   true,
		EnableCaching:   true,
		ParameterConfig: pc,
	}

	sql := statement.New("INSERT INTO t VALUES (?)", cfg).AsScript()
	sql = sql.WithPositionalParam(parameter.New(1))

	compiled, err := p.Compile(sql, parameter.QMARK)
	require.NoError(t, err)
	require.Equal(t, "INSERT INTO t VALUES (1)", compiled.SQL)
	require.Empty(t, compiled.Parameters)
	require.Equal(t, parameter.Static, compiled.ParameterStyle)
}

func TestCompile_FastPathSkipsParsing(t *testing.T) {
	p := newProcessor(t)
	cfg := newConfig(t, parameter.NUMERIC, true)
	cfg.EnableParsing = false
	cfg.PipelineSteps = nil

	sql := statement.New("SELECT * FROM u WHERE id = ?", cfg)
	sql = sql.WithPositionalParam(parameter.New(42))

	compiled, err := p.Compile(sql, parameter.NUMERIC)
	require.NoError(t, err)
	require.Equal(t, "SELECT * FROM u WHERE id = $1", compiled.SQL)
}

func TestCompile_LiteralParameterization(t *testing.T) {
	p := newProcessor(t)
	cfg := newConfig(t, parameter.QMARK, true)

	sql := statement.New("SELECT * FROM u WHERE active = true AND age > 18", cfg)

	compiled, err := p.Compile(sql, parameter.QMARK)
	require.NoError(t, err)
	require.Len(t, compiled.Parameters, 2)
}
