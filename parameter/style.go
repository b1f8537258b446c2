// Package parameter implements the parameter subsystem: placeholder style
// detection, cross-style conversion, typed value containers, list expansion,
// and type coercion, as described in the statement-processing engine's
// parameter subsystem component.
package parameter

// Style is the closed set of placeholder syntaxes a statement's SQL text can
// use. Every style a driver supports must be listed in a StyleConfig's
// SupportedStyles.
type Style int

const (
	// QMARK renders as "?" and is positional.
	QMARK Style = iota
	// NUMERIC renders as "$N" (N starting at 1) and is positional.
	NUMERIC
	// NamedColon renders as ":name".
	NamedColon
	// NamedAt renders as "@name".
	NamedAt
	// PositionalColon renders as ":N" (N starting at 1).
	PositionalColon
	// PositionalPyformat renders as "%s" and is positional.
	PositionalPyformat
	// NamedPyformat renders as "%(name)s".
	NamedPyformat
	// Static means no placeholders are emitted; literals are inlined with
	// dialect-correct quoting. Used for multi-statement script compilation.
	Static
)

func (s Style) String() string {
	switch s {
	case QMARK:
		return "qmark"
	case NUMERIC:
		return "numeric"
	case NamedColon:
		return "named_colon"
	case NamedAt:
		return "named_at"
	case PositionalColon:
		return "positional_colon"
	case PositionalPyformat:
		return "positional_pyformat"
	case NamedPyformat:
		return "named_pyformat"
	case Static:
		return "static"
	default:
		return "unknown"
	}
}

// IsPositional reports whether placeholders of this style are ordered rather
// than named.
func (s Style) IsPositional() bool {
	switch s {
	case QMARK, NUMERIC, PositionalColon, PositionalPyformat:
		return true
	default:
		return false
	}
}

// IsNamed reports whether placeholders of this style carry an identifier.
func (s Style) IsNamed() bool {
	switch s {
	case NamedColon, NamedAt, NamedPyformat:
		return true
	default:
		return false
	}
}
