package processor

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sqlspec/sqlspec"
	"github.com/sqlspec/sqlspec/parameter"
)

// renderStatic implements Static-style compilation: every placeholder is
// replaced with its bound value's dialect-correct literal representation
// (§4.5 edge case: "scripts... are compiled with STATIC style, inlining
// literals"). Used both when a single statement targets Static explicitly
// and when a script's NeedsStaticScriptCompilation forces it.
func renderStatic(text string, placeholders []parameter.Placeholder, params []parameter.TypedParameter, _ sqlspec.Dialect) (string, error) {
	if len(placeholders) != len(params) {
		return "", fmt.Errorf("processor: placeholders (%d) and params (%d) length mismatch for static compilation", len(placeholders), len(params))
	}

	runes := []rune(text)
	var b strings.Builder
	cursor := 0
	for i, ph := range placeholders {
		b.WriteString(string(runes[cursor:ph.Start]))
		lit, err := literalFor(params[i])
		if err != nil {
			return "", err
		}
		b.WriteString(lit)
		cursor = ph.End
	}
	b.WriteString(string(runes[cursor:]))
	return b.String(), nil
}

// literalFor renders a TypedParameter's value as dialect-correct SQL
// literal text. String values are single-quoted with embedded quotes
// doubled, the ANSI-SQL escaping rule every supported dialect accepts.
func literalFor(p parameter.TypedParameter) (string, error) {
	switch v := p.Value.(type) {
	case parameter.NullValue:
		return "NULL", nil
	case parameter.BoolValue:
		if v {
			return "TRUE", nil
		}
		return "FALSE", nil
	case parameter.IntValue:
		return fmt.Sprintf("%d", int64(v)), nil
	case parameter.FloatValue:
		return fmt.Sprintf("%v", float64(v)), nil
	case parameter.DecimalValue:
		return decimal.Decimal(v).String(), nil
	case parameter.TextValue:
		return quoteStringLiteral(string(v)), nil
	case parameter.JSONValue:
		return quoteStringLiteral(string(v)), nil
	case parameter.TimestampValue:
		return quoteStringLiteral(time.Time(v).Format("2006-01-02 15:04:05.999999999")), nil
	case parameter.BlobValue:
		return "X'" + fmt.Sprintf("%x", []byte(v)) + "'", nil
	default:
		return "", fmt.Errorf("processor: cannot render %s as a static literal", p.Value.Kind())
	}
}

func quoteStringLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
