package parameter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Placeholder describes one detected placeholder occurrence in SQL text.
type Placeholder struct {
	Style Style
	// Name is the identifier for named styles (e.g. "user_id"); empty for
	// positional styles.
	Name string
	// Index is the 1-based ordinal for positional styles ($N, :N) when the
	// text spells it out explicitly; for "?" and "%s" it is the occurrence's
	// ordinal position among placeholders (1-based), assigned by the
	// scanner.
	Index int
	// Start/End are rune offsets into the source text spanning the
	// placeholder token itself (Scan walks text as []rune, not bytes).
	Start int
	End   int
}

// quoteRunes are the characters that open a string/identifier literal. Scan
// honors dialect-specific quoting by tracking whichever of these it enters;
// a placeholder token inside an open quote is never reported.
const quoteRunes = "'\"`"

// Scan walks text and returns, in source order, every placeholder it finds
// in any of the known styles. It
// tolerates placeholders written inside string literals by tracking quote
// state exactly the way a tokenizer would, and it skips "--" line comments
// and "/* */" block comments.
//
// When allowMixedStyles is false and more than one distinct style is
// detected, Scan returns a plain error together with the slice of styles it
// found; callers that want the taxonomy type build a
// *sqlspec.MixedStylesError from that slice (Scan itself stays
// dependency-free of the root package to avoid an import cycle).
func Scan(text string, allowMixedStyles bool) ([]Placeholder, []Style, error) {
	var placeholders []Placeholder
	seenStyles := map[Style]bool{}
	positionalOrdinal := 0

	runes := []rune(text)
	i := 0
	n := len(runes)
	var quote rune

	for i < n {
		c := runes[i]

		if quote != 0 {
			if c == quote {
				if i+1 < n && runes[i+1] == quote {
					i += 2
					continue
				}
				quote = 0
			} else if c == '\\' && quote == '\'' && i+1 < n {
				i += 2
				continue
			}
			i++
			continue
		}

		if c == '-' && i+1 < n && runes[i+1] == '-' {
			for i < n && runes[i] != '\n' {
				i++
			}
			continue
		}
		if c == '/' && i+1 < n && runes[i+1] == '*' {
			i += 2
			for i+1 < n && !(runes[i] == '*' && runes[i+1] == '/') {
				i++
			}
			i += 2
			continue
		}

		if strings.ContainsRune(quoteRunes, c) {
			quote = c
			i++
			continue
		}

		switch c {
		case '?':
			positionalOrdinal++
			placeholders = append(placeholders, Placeholder{Style: QMARK, Index: positionalOrdinal, Start: i, End: i + 1})
			seenStyles[QMARK] = true
			i++
			continue
		case '$':
			if j := i + 1; j < n && unicode.IsDigit(runes[j]) {
				start := i
				j++
				for j < n && unicode.IsDigit(runes[j]) {
					j++
				}
				idx, _ := strconv.Atoi(string(runes[i+1 : j]))
				placeholders = append(placeholders, Placeholder{Style: NUMERIC, Index: idx, Start: start, End: j})
				seenStyles[NUMERIC] = true
				i = j
				continue
			}
		case ':':
			if j := i + 1; j < n && (unicode.IsLetter(runes[j]) || runes[j] == '_') {
				start := i
				j++
				for j < n && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_') {
					j++
				}
				name := string(runes[i+1 : j])
				placeholders = append(placeholders, Placeholder{Style: NamedColon, Name: name, Start: start, End: j})
				seenStyles[NamedColon] = true
				i = j
				continue
			}
			if j := i + 1; j < n && unicode.IsDigit(runes[j]) {
				start := i
				j++
				for j < n && unicode.IsDigit(runes[j]) {
					j++
				}
				idx, _ := strconv.Atoi(string(runes[i+1 : j]))
				placeholders = append(placeholders, Placeholder{Style: PositionalColon, Index: idx, Start: start, End: j})
				seenStyles[PositionalColon] = true
				i = j
				continue
			}
		case '@':
			if j := i + 1; j < n && (unicode.IsLetter(runes[j]) || runes[j] == '_') {
				start := i
				j++
				for j < n && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_') {
					j++
				}
				name := string(runes[i+1 : j])
				placeholders = append(placeholders, Placeholder{Style: NamedAt, Name: name, Start: start, End: j})
				seenStyles[NamedAt] = true
				i = j
				continue
			}
		case '%':
			if j := i + 1; j < n && runes[j] == 's' {
				positionalOrdinal++
				placeholders = append(placeholders, Placeholder{Style: PositionalPyformat, Index: positionalOrdinal, Start: i, End: j + 1})
				seenStyles[PositionalPyformat] = true
				i = j + 1
				continue
			}
			if j := i + 1; j < n && runes[j] == '(' {
				k := j + 1
				for k < n && runes[k] != ')' {
					k++
				}
				if k < n && k+1 < n && runes[k+1] == 's' && k > j+1 {
					name := string(runes[j+1 : k])
					placeholders = append(placeholders, Placeholder{Style: NamedPyformat, Name: name, Start: i, End: k + 2})
					seenStyles[NamedPyformat] = true
					i = k + 2
					continue
				}
			}
		}
		i++
	}

	var styles []Style
	for s := range seenStyles {
		styles = append(styles, s)
	}

	if !allowMixedStyles && len(styles) > 1 {
		names := make([]string, len(styles))
		for idx, s := range styles {
			names[idx] = s.String()
		}
		return placeholders, styles, fmt.Errorf("mixed parameter styles detected: %s", strings.Join(names, ", "))
	}

	return placeholders, styles, nil
}
