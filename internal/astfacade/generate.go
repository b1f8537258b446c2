package astfacade

import "strings"

// Generate renders an Expression tree back to SQL text. It is a total
// function over well-formed trees (every Kind this package produces has a
// rendering rule), satisfying the facade's generate(parse(text)) ~= text
// guarantee modulo whitespace normalization.
func Generate(expr *Expression, dialect string, pretty bool) string {
	var b strings.Builder
	writeExpression(&b, expr, pretty)
	return strings.TrimSpace(b.String())
}

func writeExpression(b *strings.Builder, e *Expression, pretty bool) {
	if e == nil {
		return
	}
	switch e.Kind {
	case KindStatement:
		for i, clause := range e.Children {
			if i > 0 {
				if pretty {
					b.WriteString("\n")
				} else {
					b.WriteString(" ")
				}
			}
			writeExpression(b, clause, pretty)
		}
	case KindClause:
		b.WriteString(e.Name)
		if len(e.Children) > 0 {
			b.WriteString(" ")
			for i, c := range e.Children {
				if i > 0 {
					b.WriteString(", ")
				}
				writeExpression(b, c, pretty)
			}
		} else if e.Raw != "" {
			b.WriteString(" ")
			b.WriteString(e.Raw)
		}
	case KindLogical:
		if e.Op == "NOT" {
			b.WriteString("NOT ")
			writeExpression(b, e.Children[0], pretty)
			return
		}
		writeExpression(b, e.Children[0], pretty)
		b.WriteString(" ")
		b.WriteString(e.Op)
		b.WriteString(" ")
		writeExpression(b, e.Children[1], pretty)
	case KindComparison:
		writeExpression(b, e.Children[0], pretty)
		b.WriteString(" ")
		b.WriteString(strings.ToUpper(e.Op))
		b.WriteString(" ")
		writeExpression(b, e.Children[1], pretty)
	case KindColumn:
		b.WriteString(e.Name)
	case KindTable:
		b.WriteString(e.Name)
		if e.Alias != "" {
			b.WriteString(" AS ")
			b.WriteString(e.Alias)
		}
	case KindLiteral:
		b.WriteString(e.Literal)
	case KindPlaceholder:
		b.WriteString(e.Raw)
	case KindList:
		b.WriteString("(")
		for i, c := range e.Children {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpression(b, c, pretty)
		}
		b.WriteString(")")
	case KindRaw:
		b.WriteString(e.Raw)
	}
}
