package astfacade

import (
	"strings"
)

// clauseKeywords are recognized as top-level clause boundaries when they
// appear outside quotes/parens/comments, in the order a statement's clauses
// are scanned. Multi-word keywords are checked greedily before their
// single-word prefix (e.g. "GROUP BY" before "GROUP").
var clauseKeywords = []string{
	"SELECT", "INSERT INTO", "UPDATE", "DELETE FROM", "MERGE INTO", "EXPLAIN",
	"FROM", "WHERE", "GROUP BY", "HAVING", "ORDER BY", "LIMIT",
	"OFFSET", "VALUES", "SET", "RETURNING", "INTO", "ON CONFLICT",
}

var statementVerbs = map[string]bool{
	"SELECT": true, "INSERT": true, "UPDATE": true, "DELETE": true,
	"MERGE": true, "EXPLAIN": true,
}

// Parse tokenizes and shallow-parses text into a KindStatement Expression
// whose children are its top-level clauses. Dialect currently only affects
// downstream Generate/pipeline decisions (capability lookups), not parsing
// itself, since the supported clause grammar here is dialect-neutral; it is
// accepted so the facade's signature matches spec.md §4.1 and so a future
// dialect-specific grammar extension has somewhere to plug in.
func Parse(text string, dialect string) (*Expression, error) {
	segments := splitTopLevelClauses(text)
	if len(segments) == 0 {
		return &Expression{Kind: KindRaw, Raw: text}, nil
	}

	verbWords := strings.Fields(segments[0].keyword)
	verb := ""
	if len(verbWords) > 0 {
		verb = strings.ToUpper(verbWords[0])
	}
	if !statementVerbs[verb] {
		verb = "RAW"
	}

	stmt := &Expression{Kind: KindStatement, Op: verb}
	for _, seg := range segments {
		clause := &Expression{Kind: KindClause, Name: strings.ToUpper(seg.keyword), Raw: strings.TrimSpace(seg.body)}
		if clause.Name == "WHERE" || clause.Name == "HAVING" {
			if pred, err := ParsePredicate(clause.Raw); err == nil && pred != nil {
				clause.Children = []*Expression{pred}
			}
		}
		stmt.Children = append(stmt.Children, clause)
	}
	return stmt, nil
}

type clauseSegment struct {
	keyword string
	body    string
}

// splitTopLevelClauses scans text for clauseKeywords appearing at paren
// depth 0 and outside quotes/comments, the same depth-tracking approach the
// teacher's subQuery() uses pc.FindIter over paren tokens for, done here
// directly over runes since the boundary search only needs keyword and
// depth, not a full token stream.
func splitTopLevelClauses(text string) []clauseSegment {
	runes := []rune(text)
	n := len(runes)
	depth := 0
	var quote rune
	var marks []int
	var keywords []string

	i := 0
	for i < n {
		c := runes[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			} else if c == '\\' && quote == '\'' {
				i++
			}
			i++
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
			i++
			continue
		case '(':
			depth++
			i++
			continue
		case ')':
			depth--
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

		if depth == 0 && (i == 0 || isWordBoundary(runes[i-1])) {
			if kw, kwLen, ok := matchKeyword(runes, i); ok {
				marks = append(marks, i)
				keywords = append(keywords, kw)
				i += kwLen
				continue
			}
		}
		i++
	}

	if len(marks) == 0 {
		return nil
	}

	segments := make([]clauseSegment, 0, len(marks))
	for idx, start := range marks {
		bodyStart := start + len(keywords[idx])
		bodyEnd := n
		if idx+1 < len(marks) {
			bodyEnd = marks[idx+1]
		}
		segments = append(segments, clauseSegment{keyword: keywords[idx], body: string(runes[bodyStart:bodyEnd])})
	}
	return segments
}

func isWordBoundary(r rune) bool {
	return !(r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9'))
}

func matchKeyword(runes []rune, at int) (string, int, bool) {
	remaining := string(runes[at:])
	for _, kw := range clauseKeywords {
		if len(remaining) < len(kw) {
			continue
		}
		candidate := remaining[:len(kw)]
		if !strings.EqualFold(normalizeSpaces(candidate), kw) {
			continue
		}
		end := at + len([]rune(kw))
		if end < len(runes) && !isWordBoundary(runes[end]) {
			continue
		}
		return kw, len([]rune(kw)), true
	}
	return "", 0, false
}

func normalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
