package parameter

import (
	"errors"
	"strconv"
	"strings"
)

// ErrEmptyListParameter is returned by Render when a placeholder is bound to
// a zero-length ListValue and native list expansion is unavailable: "IN ()"
// is not valid SQL in any supported dialect, so this must surface as a
// validation failure rather than being silently rendered.
var ErrEmptyListParameter = errors.New("parameter: empty list bound to placeholder without native list expansion")

// Render performs style conversion and, when hasNativeListExpansion is
// false, list expansion in a single pass: each placeholder bound to a
// ListValue is rewritten into len(Items) placeholders of the target style,
// separated by ", ", and its items are spliced into the parameter vector in
// order. Non-list placeholders are rewritten exactly as Convert would.
//
// placeholders and params must be aligned 1:1 as for Convert, and
// placeholders must be sorted by Start (Scan already returns them this way).
func Render(text string, placeholders []Placeholder, params []TypedParameter, target Style, hasNativeListExpansion bool) (string, []TypedParameter, error) {
	if len(placeholders) != len(params) {
		return "", nil, errors.New("parameter: placeholders and params length mismatch")
	}

	runes := []rune(text)
	var b strings.Builder
	newParams := make([]TypedParameter, 0, len(params))
	cursor := 0
	positional := 0

	emit := func(name string) {
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
		}
	}

	for i, ph := range placeholders {
		if ph.Start < cursor {
			return "", nil, errors.New("parameter: overlapping or unsorted placeholder")
		}
		b.WriteString(string(runes[cursor:ph.Start]))

		p := params[i]
		if list, ok := p.Value.(ListValue); ok && !hasNativeListExpansion {
			if len(list.Items) == 0 {
				return "", nil, ErrEmptyListParameter
			}
			for j, item := range list.Items {
				if j > 0 {
					b.WriteString(", ")
				}
				itemName := ph.Name
				if itemName != "" {
					itemName = itemName + "_" + strconv.Itoa(j+1)
				}
				emit(itemName)
				newParams = append(newParams, TypedParameter{Value: item, DeclaredType: p.DeclaredType})
			}
		} else {
			emit(ph.Name)
			out := p
			if target.IsNamed() && out.SemanticName == "" {
				name := ph.Name
				if name == "" {
					name = "param" + strconv.Itoa(positional)
				}
				out = out.WithSemanticName(name)
			}
			newParams = append(newParams, out)
		}
		cursor = ph.End
	}
	b.WriteString(string(runes[cursor:]))

	return b.String(), newParams, nil
}
