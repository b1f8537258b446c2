package statement

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/sqlspec/sqlspec"
	"github.com/sqlspec/sqlspec/parameter"
)

// fileConfig is the YAML-serializable projection of StatementConfig. Only
// the scalar knobs are exposed from file/env; PipelineSteps and Processor
// are wired in code, not config, the same split the teacher's config.go
// draws between data (YAML) and behavior (Go).
type fileConfig struct {
	Dialect               string   `yaml:"dialect"`
	DefaultStyle          string   `yaml:"default_style"`
	SupportedStyles       []string `yaml:"supported_styles"`
	EnableParsing         *bool    `yaml:"enable_parsing"`
	EnableValidation      *bool    `yaml:"enable_validation"`
	EnableTransformations *bool    `yaml:"enable_transformations"`
	EnableCaching         *bool    `yaml:"enable_caching"`
	HasNativeListExpansion bool    `yaml:"has_native_list_expansion"`
	NeedsStaticScript     bool     `yaml:"needs_static_script_compilation"`
	AllowMixedStyles      bool     `yaml:"allow_mixed_styles"`
}

var styleByName = map[string]parameter.Style{
	"qmark":               parameter.QMARK,
	"numeric":             parameter.NUMERIC,
	"named_colon":         parameter.NamedColon,
	"named_at":            parameter.NamedAt,
	"positional_colon":    parameter.PositionalColon,
	"positional_pyformat": parameter.PositionalPyformat,
	"named_pyformat":      parameter.NamedPyformat,
	"static":              parameter.Static,
}

// LoadConfigFile reads a YAML statement-config file the way
// snapsql/config.go's LoadConfig reads its project config: parse into a
// typed struct via goccy/go-yaml, then apply an environment overlay via
// godotenv so CI/deploy environments can override file-level defaults
// without editing the file.
func LoadConfigFile(path string) (StatementConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return StatementConfig{}, fmt.Errorf("statement: reading config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return StatementConfig{}, fmt.Errorf("statement: parsing config file %s: %w", path, err)
	}

	mergeEnv(&fc)

	return fc.toStatementConfig()
}

// mergeEnv overlays the SQLSPEC_DIALECT, SQLSPEC_DEFAULT_STYLE and
// SQLSPEC_ENABLE_CACHING environment variables onto fc,
// loading a .env file first (if present) via godotenv, mirroring
// config.go's mergeEnv pattern of "file defaults, environment wins".
func mergeEnv(fc *fileConfig) {
	_ = godotenv.Load()

	if v := os.Getenv("SQLSPEC_DIALECT"); v != "" {
		fc.Dialect = v
	}
	if v := os.Getenv("SQLSPEC_DEFAULT_STYLE"); v != "" {
		fc.DefaultStyle = v
	}
	if v := os.Getenv("SQLSPEC_ENABLE_CACHING"); v != "" {
		b := v == "true" || v == "1"
		fc.EnableCaching = &b
	}
}

func (fc fileConfig) toStatementConfig() (StatementConfig, error) {
	style, ok := styleByName[fc.DefaultStyle]
	if !ok {
		return StatementConfig{}, fmt.Errorf("statement: unknown default_style %q", fc.DefaultStyle)
	}

	pc := parameter.DefaultStyleConfig(style)
	pc.HasNativeListExpansion = fc.HasNativeListExpansion
	pc.NeedsStaticScriptCompilation = fc.NeedsStaticScript
	pc.AllowMixedStyles = fc.AllowMixedStyles
	for _, name := range fc.SupportedStyles {
		s, ok := styleByName[name]
		if !ok {
			return StatementConfig{}, fmt.Errorf("statement: unknown supported style %q", name)
		}
		pc = pc.WithSupportedStyles(s)
	}

	cfg := StatementConfig{
		Dialect:               sqlspec.Dialect(fc.Dialect),
		EnableParsing:         boolOr(fc.EnableParsing, true),
		EnableValidation:      boolOr(fc.EnableValidation, true),
		EnableTransformations: boolOr(fc.EnableTransformations, true),
		EnableCaching:         boolOr(fc.EnableCaching, true),
		ParameterConfig:       pc,
	}
	return cfg, nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
