package parameter

import (
	"fmt"
	"strconv"
	"strings"
)

// Convert rewrites text's placeholders to the target style and returns the
// parameter vector reordered to match.
//
// placeholders and params must be the same length and aligned index-for-index
// (params[i] is the value bound to placeholders[i]); this is the shape the
// processor's "fast normalization" step produces by interleaving positional
// and named parameters in placeholder order. placeholders must be sorted by
// Start (Scan already returns them this way).
//
// Parameter identity is preserved: Convert only renumbers/renames, it never
// drops or reorders the underlying values relative to their placeholder.
// Each occurrence in text keeps its own slot in the output vector — a named
// placeholder reused twice yields two slots bound to equal values rather
// than being collapsed into one, which keeps style1→style2→style1
// round-trips length-stable.
func Convert(text string, placeholders []Placeholder, params []TypedParameter, target Style) (string, []TypedParameter, error) {
	if len(placeholders) != len(params) {
		return "", nil, fmt.Errorf("parameter: placeholders (%d) and params (%d) length mismatch", len(placeholders), len(params))
	}

	runes := []rune(text)
	var b strings.Builder
	newParams := make([]TypedParameter, 0, len(params))
	cursor := 0
	positional := 0

	for i, ph := range placeholders {
		if ph.Start < cursor {
			return "", nil, fmt.Errorf("parameter: overlapping or unsorted placeholder at offset %d", ph.Start)
		}
		b.WriteString(string(runes[cursor:ph.Start]))

		name := ph.Name
		positional++
		if name == "" {
			name = "param" + strconv.Itoa(positional)
		}

		switch target {
		case QMARK:
			b.WriteString("?")
		case NUMERIC:
			b.WriteString("$" + strconv.Itoa(positional))
		case NamedColon:
			b.WriteString(":" + name)
		case NamedAt:
			b.WriteString("@" + name)
		case PositionalColon:
			b.WriteString(":" + strconv.Itoa(positional))
		case PositionalPyformat:
			b.WriteString("%s")
		case NamedPyformat:
			b.WriteString("%(" + name + ")s")
		default:
			return "", nil, fmt.Errorf("parameter: cannot convert placeholders to style %s with Convert (use static inlining instead)", target)
		}

		p := params[i]
		if target.IsNamed() && p.SemanticName == "" {
			p = p.WithSemanticName(name)
		}
		newParams = append(newParams, p)
		cursor = ph.End
	}
	b.WriteString(string(runes[cursor:]))

	return b.String(), newParams, nil
}
