package parameter

// CoercionFunc transforms a TypedParameter into its driver-ready form. It is
// looked up by the source Value's Kind() in a StyleConfig's TypeCoercionMap
// and applied elementwise to the final parameter vector, after style
// conversion and list expansion.
type CoercionFunc func(TypedParameter) (TypedParameter, error)

// StyleConfig mirrors spec's ParameterStyleConfig: the set of style-related
// choices a driver adapter makes once and reuses across every statement it
// compiles.
type StyleConfig struct {
	// DefaultStyle is the style the driver prefers for compiled output.
	DefaultStyle Style
	// SupportedStyles is the set of styles this driver can accept; it must
	// include DefaultStyle.
	SupportedStyles map[Style]bool
	// TypeCoercionMap maps a source Value Kind to the transform applied
	// after style conversion, before driver hand-off.
	TypeCoercionMap map[string]CoercionFunc
	// HasNativeListExpansion, when false, means a collection parameter
	// bound to "IN (?)" must be expanded into "IN (?, ?, ...)" at compile
	// time rather than handed to the driver as a single array parameter.
	HasNativeListExpansion bool
	// NeedsStaticScriptCompilation, when true, forces multi-statement
	// scripts to compile with Static style, inlining literals.
	NeedsStaticScriptCompilation bool
	// AllowMixedStyles, when false, makes the scanner fail with
	// MixedStylesError upon detecting more than one style in one text.
	AllowMixedStyles bool
}

// Supports reports whether s is in cfg.SupportedStyles.
func (cfg StyleConfig) Supports(s Style) bool {
	return cfg.SupportedStyles[s]
}

// DefaultStyleConfig returns a StyleConfig for a given style with otherwise
// permissive defaults: only that style supported, no native list expansion,
// no coercions registered, mixed styles disallowed.
func DefaultStyleConfig(style Style) StyleConfig {
	return StyleConfig{
		DefaultStyle:           style,
		SupportedStyles:        map[Style]bool{style: true},
		TypeCoercionMap:        map[string]CoercionFunc{},
		HasNativeListExpansion: false,
		AllowMixedStyles:       false,
	}
}

// WithSupportedStyles returns a copy of cfg with additional supported
// styles added (DefaultStyle is always included).
func (cfg StyleConfig) WithSupportedStyles(styles ...Style) StyleConfig {
	next := cfg.SupportedStyles
	cloned := make(map[Style]bool, len(next)+len(styles))
	for k, v := range next {
		cloned[k] = v
	}
	for _, s := range styles {
		cloned[s] = true
	}
	cloned[cfg.DefaultStyle] = true
	cfg.SupportedStyles = cloned
	return cfg
}

// WithCoercion returns a copy of cfg with fn registered for the given Value
// Kind.
func (cfg StyleConfig) WithCoercion(kind string, fn CoercionFunc) StyleConfig {
	cloned := make(map[string]CoercionFunc, len(cfg.TypeCoercionMap)+1)
	for k, v := range cfg.TypeCoercionMap {
		cloned[k] = v
	}
	cloned[kind] = fn
	cfg.TypeCoercionMap = cloned
	return cfg
}
