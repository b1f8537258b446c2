package parameter

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Value is the closed sum type carried by every parameter. It replaces the
// duck-typed heterogeneity of the distilled source with a sealed interface:
// only the variants in this file may implement it, so an exhaustive type
// switch is always safe.
type Value interface {
	isValue()
	// Kind names the variant for error messages and coercion dispatch.
	Kind() string
}

// IntValue wraps a 64-bit signed integer.
type IntValue int64

func (IntValue) isValue()     {}
func (IntValue) Kind() string { return "int" }

// FloatValue wraps a 64-bit float.
type FloatValue float64

func (FloatValue) isValue()     {}
func (FloatValue) Kind() string { return "float" }

// TextValue wraps a UTF-8 string.
type TextValue string

func (TextValue) isValue()     {}
func (TextValue) Kind() string { return "text" }

// BoolValue wraps a boolean.
type BoolValue bool

func (BoolValue) isValue()     {}
func (BoolValue) Kind() string { return "bool" }

// BlobValue wraps an opaque byte sequence. The caller's backing array is
// never mutated by the engine.
type BlobValue []byte

func (BlobValue) isValue()     {}
func (BlobValue) Kind() string { return "blob" }

// DecimalValue wraps an arbitrary-precision decimal.
type DecimalValue decimal.Decimal

func (DecimalValue) isValue()     {}
func (DecimalValue) Kind() string { return "decimal" }

// TimestampValue wraps a point in time.
type TimestampValue time.Time

func (TimestampValue) isValue()     {}
func (TimestampValue) Kind() string { return "timestamp" }

// NullValue represents SQL NULL. It still carries a Kind so that coercion
// can route a NULL through the same conversion table as a non-null value of
// its declared type.
type NullValue struct {
	DeclaredKind string
}

func (NullValue) isValue() {}
func (n NullValue) Kind() string {
	if n.DeclaredKind != "" {
		return n.DeclaredKind
	}
	return "null"
}

// ListValue wraps a homogeneous collection bound to a single placeholder.
// When the target driver lacks native list expansion, the list-expansion
// step rewrites one placeholder into len(Items) placeholders and splices
// Items into the parameter vector in order.
type ListValue struct {
	Items []Value
}

func (ListValue) isValue()     {}
func (ListValue) Kind() string { return "list" }

// MapValue wraps a string-keyed mapping, used for structured parameters that
// a driver renders as JSON/JSONB or a composite type.
type MapValue struct {
	Entries map[string]Value
}

func (MapValue) isValue()     {}
func (MapValue) Kind() string { return "map" }

// JSONValue wraps a pre-serialized JSON document, distinct from MapValue in
// that no further structural inspection is performed on it.
type JSONValue string

func (JSONValue) isValue()     {}
func (JSONValue) Kind() string { return "json" }

// Native converts a Value into a plain Go value suitable for handing to a
// database/sql-style driver parameter slot. It performs no dialect-specific
// coercion; see Coerce for that.
func Native(v Value) any {
	switch t := v.(type) {
	case IntValue:
		return int64(t)
	case FloatValue:
		return float64(t)
	case TextValue:
		return string(t)
	case BoolValue:
		return bool(t)
	case BlobValue:
		return []byte(t)
	case DecimalValue:
		return decimal.Decimal(t)
	case TimestampValue:
		return time.Time(t)
	case NullValue:
		return nil
	case JSONValue:
		return string(t)
	case ListValue:
		out := make([]any, len(t.Items))
		for i, item := range t.Items {
			out[i] = Native(item)
		}
		return out
	case MapValue:
		out := make(map[string]any, len(t.Entries))
		for k, item := range t.Entries {
			out[k] = Native(item)
		}
		return out
	default:
		return nil
	}
}

// FromNative boxes a plain Go value into the closed Value sum type. It is
// the inverse of Native for the common driver-facing Go types; values of an
// unrecognized concrete type are wrapped as TextValue via fmt.Sprint so that
// callers always get back something, at the cost of losing type fidelity —
// callers that need precision should construct the Value variant directly.
func FromNative(v any) Value {
	switch t := v.(type) {
	case nil:
		return NullValue{}
	case Value:
		return t
	case int:
		return IntValue(t)
	case int32:
		return IntValue(t)
	case int64:
		return IntValue(t)
	case float32:
		return FloatValue(t)
	case float64:
		return FloatValue(t)
	case string:
		return TextValue(t)
	case bool:
		return BoolValue(t)
	case []byte:
		return BlobValue(t)
	case decimal.Decimal:
		return DecimalValue(t)
	case time.Time:
		return TimestampValue(t)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromNative(item)
		}
		return ListValue{Items: items}
	case map[string]any:
		entries := make(map[string]Value, len(t))
		for k, item := range t {
			entries[k] = FromNative(item)
		}
		return MapValue{Entries: entries}
	default:
		return TextValue(fmt.Sprint(t))
	}
}

// IsList reports whether v is a non-string collection, the trigger condition
// for list expansion.
func IsList(v Value) bool {
	_, ok := v.(ListValue)
	return ok
}
