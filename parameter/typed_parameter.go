package parameter

// TypedParameter bundles a parameter Value with optional declared-type and
// semantic-name metadata. Once wrapped, the original value is never
// mutated — modifier operations (coercion, conversion) return a new
// TypedParameter.
type TypedParameter struct {
	Value        Value
	DeclaredType string // optional, e.g. "uuid", "timestamptz"; empty if unset
	SemanticName string // optional, e.g. the builder-supplied bind name
}

// New wraps a native Go value as a TypedParameter with no declared type.
func New(v any) TypedParameter {
	return TypedParameter{Value: FromNative(v)}
}

// WithDeclaredType returns a copy of p with DeclaredType set.
func (p TypedParameter) WithDeclaredType(t string) TypedParameter {
	p.DeclaredType = t
	return p
}

// WithSemanticName returns a copy of p with SemanticName set.
func (p TypedParameter) WithSemanticName(name string) TypedParameter {
	p.SemanticName = name
	return p
}

// Native returns the plain Go value underlying p, ignoring declared-type and
// name metadata.
func (p TypedParameter) Native() any {
	return Native(p.Value)
}
