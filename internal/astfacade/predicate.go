package astfacade

import (
	pc "github.com/shibukawa/parsercombinator"
)

// predicate.go builds the WHERE/HAVING boolean-expression grammar on top of
// github.com/shibukawa/parsercombinator, the same way the teacher's
// parser2/parserstep2 builds expression parsing on it: an Entity carries
// both the original lexer token and (once a rule has matched) the
// Expression it produced, and primitive token matchers compose via
// pc.Or/pc.Seq/pc.Trans into a Parser[Entity].

// Entity is this package's analogue of parserstep2.Entity: Original holds
// the source lexer token, NewValue holds the Expression a grammar rule
// built from one or more Entities once it matches.
type Entity struct {
	Original lexToken
	NewValue *Expression
}

func keyword(word string) pc.Parser[Entity] {
	return func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		if len(tokens) == 0 {
			return 0, nil, pc.ErrNotMatch
		}
		orig := tokens[0].Val.Original
		if orig.Kind != tokWord || !equalFoldASCII(orig.Value, word) {
			return 0, nil, pc.ErrNotMatch
		}
		return 1, tokens[:1], nil
	}
}

func punct(sym string) pc.Parser[Entity] {
	return func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		if len(tokens) == 0 {
			return 0, nil, pc.ErrNotMatch
		}
		orig := tokens[0].Val.Original
		if orig.Kind != tokPunct || orig.Value != sym {
			return 0, nil, pc.ErrNotMatch
		}
		return 1, tokens[:1], nil
	}
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func toParserTokens(toks []lexToken) []pc.Token[Entity] {
	out := make([]pc.Token[Entity], 0, len(toks))
	for _, t := range toks {
		if t.Kind == tokEOF {
			continue
		}
		out = append(out, pc.Token[Entity]{
			Type: "raw",
			Pos:  &pc.Pos{Line: t.Line, Col: t.Col},
			Val:  Entity{Original: t},
		})
	}
	return out
}

func posOf(t lexToken) Position { return Position{Line: t.Line, Column: t.Col, Offset: t.Start} }

var comparisonOps = []string{"<=", ">=", "<>", "!=", "=", "<", ">"}

// atom recognizes a single literal, placeholder, or column reference.
func atom() pc.Parser[Entity] {
	return func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		if len(tokens) == 0 {
			return 0, nil, pc.ErrNotMatch
		}
		orig := tokens[0].Val.Original
		var expr *Expression
		switch orig.Kind {
		case tokNumber, tokString:
			expr = &Expression{Kind: KindLiteral, Literal: orig.Value, Pos: posOf(orig)}
		case tokPlaceholder:
			expr = &Expression{Kind: KindPlaceholder, Raw: orig.Value, Pos: posOf(orig)}
		case tokWord:
			if equalFoldASCII(orig.Value, "true") || equalFoldASCII(orig.Value, "false") || equalFoldASCII(orig.Value, "null") {
				expr = &Expression{Kind: KindLiteral, Literal: orig.Value, Pos: posOf(orig)}
			} else {
				expr = &Expression{Kind: KindColumn, Name: orig.Value, Pos: posOf(orig)}
			}
		default:
			return 0, nil, pc.ErrNotMatch
		}
		return 1, []pc.Token[Entity]{{Type: "expr", Pos: tokens[0].Pos, Val: Entity{Original: orig, NewValue: expr}}}, nil
	}
}

func comparisonOp() pc.Parser[Entity] {
	parsers := make([]pc.Parser[Entity], 0, len(comparisonOps)+2)
	for _, op := range comparisonOps {
		parsers = append(parsers, punct(op))
	}
	parsers = append(parsers, keyword("like"), keyword("is"))
	return pc.Or(parsers...)
}

// comparisonRule recognizes `atom OP atom` and folds it into a KindComparison
// node, mirroring how parserstep2's expression() folds Seq(expr, op, expr)
// via pc.Trans.
func comparisonRule() pc.Parser[Entity] {
	return pc.Trans(
		pc.Seq(atom(), comparisonOp(), atom()),
		func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) ([]pc.Token[Entity], error) {
			left := tokens[0].Val.NewValue
			op := tokens[1].Val.Original.Value
			right := tokens[2].Val.NewValue
			node := &Expression{Kind: KindComparison, Op: op, Children: []*Expression{left, right}, Pos: left.Pos}
			return []pc.Token[Entity]{{Type: "expr", Pos: tokens[0].Pos, Val: Entity{NewValue: node}}}, nil
		},
	)
}

// term is one comparison, optionally negated by a leading NOT.
func term() pc.Parser[Entity] {
	return pc.Or(
		pc.Trans(
			pc.Seq(keyword("not"), comparisonRule()),
			func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) ([]pc.Token[Entity], error) {
				inner := tokens[1].Val.NewValue
				node := &Expression{Kind: KindLogical, Op: "NOT", Children: []*Expression{inner}, Pos: inner.Pos}
				return []pc.Token[Entity]{{Type: "expr", Pos: tokens[0].Pos, Val: Entity{NewValue: node}}}, nil
			},
		),
		comparisonRule(),
	)
}

// ParsePredicate parses a WHERE/HAVING clause body into an Expression tree
// of KindLogical/KindComparison/KindColumn/KindLiteral/KindPlaceholder
// nodes. AND binds tighter than OR, matching SQL precedence; both are
// left-associative.
func ParsePredicate(body string) (*Expression, error) {
	toks := toParserTokens(lex(body))
	if len(toks) == 0 {
		return nil, nil
	}
	pctx := pc.NewParseContext[Entity]()

	andChain := func(t []pc.Token[Entity]) (int, *Expression, error) {
		consumed, matched, err := term()(pctx, t)
		if err != nil {
			return 0, nil, err
		}
		node := matched[0].Val.NewValue
		pos := consumed
		for {
			c, _, err := keyword("and")(pctx, t[pos:])
			if err != nil {
				break
			}
			pos += c
			c2, m2, err := term()(pctx, t[pos:])
			if err != nil {
				return 0, nil, err
			}
			pos += c2
			node = &Expression{Kind: KindLogical, Op: "AND", Children: []*Expression{node, m2[0].Val.NewValue}, Pos: node.Pos}
		}
		return pos, node, nil
	}

	pos := 0
	consumed, node, err := andChain(toks)
	if err != nil {
		return nil, err
	}
	pos += consumed
	for {
		c, _, err := keyword("or")(pctx, toks[pos:])
		if err != nil {
			break
		}
		pos += c
		c2, next, err := andChain(toks[pos:])
		if err != nil {
			return nil, err
		}
		pos += c2
		node = &Expression{Kind: KindLogical, Op: "OR", Children: []*Expression{node, next}, Pos: node.Pos}
	}

	return node, nil
}
