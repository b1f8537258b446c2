package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sqlspec/sqlspec"
	"github.com/sqlspec/sqlspec/parameter"
)

func TestFingerprint_StableForEqualConfigs(t *testing.T) {
	a := DefaultStatementConfig(sqlspec.DialectPostgres, parameter.NUMERIC)
	b := DefaultStatementConfig(sqlspec.DialectPostgres, parameter.NUMERIC)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestFingerprint_DiffersWhenFieldChanges(t *testing.T) {
	a := DefaultStatementConfig(sqlspec.DialectPostgres, parameter.NUMERIC)
	b := a
	b.EnableCaching = false
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestFingerprint_DiffersAcrossDialects(t *testing.T) {
	a := DefaultStatementConfig(sqlspec.DialectPostgres, parameter.NUMERIC)
	b := DefaultStatementConfig(sqlspec.DialectMySQL, parameter.NUMERIC)
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestDefaultPipeline_RespectsToggles(t *testing.T) {
	lit := Step{Name: "parameterize_literals"}
	opt := Step{Name: "optimize"}
	val := Step{Name: "validate"}

	cfg := DefaultStatementConfig(sqlspec.DialectPostgres, parameter.QMARK)
	cfg.EnableTransformations = false
	steps := DefaultPipeline(lit, opt, val, cfg)
	assert.Equal(t, []Step{val}, steps)
}
