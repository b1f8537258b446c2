// Package filter implements the composable statement filters (§4.7):
// LimitOffset, OrderBy, InCollection, Search, BeforeAfter. Each appends
// clauses/parameters to a statement.SQL immutably by implementing
// statement.StatementFilter.
package filter

import (
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/sqlspec/sqlspec"
	"github.com/sqlspec/sqlspec/internal/astfacade"
	"github.com/sqlspec/sqlspec/parameter"
	"github.com/sqlspec/sqlspec/statement"
)

// appendClause is shared plumbing: it parses sql's AST if not already
// present (mirroring the processor's parse-or-reuse step so a filter
// applied before compilation still gets a clause to splice into), then
// returns a copy of sql with clause appended to the statement's top-level
// children. Positional/named parameters, prior filters, and operation kind
// are preserved via Copy; only Expression changes.
func appendClause(sql *statement.SQL, clause *astfacade.Expression) (*statement.SQL, error) {
	expr := sql.Expression
	if expr == nil {
		if sql.RawText == "" {
			return nil, &sqlspec.ValidationError{Kind: "missing_statement", Message: "filter cannot append to a statement with no text or AST"}
		}
		parsed, err := astfacade.Parse(sql.RawText, string(sql.Config.Dialect))
		if err != nil {
			return nil, err
		}
		expr = parsed
	}
	next := expr.Clone()
	next.Children = append(next.Children, clause)

	updated := sql.Copy()
	updated.Expression = next
	updated.RawText = astfacade.Generate(next, string(sql.Config.Dialect), false)
	return updated, nil
}

// appendWherePredicate ANDs predicate into sql's existing WHERE clause if
// one is present, or appends a new WHERE clause otherwise. This keeps a
// chain of filters (e.g. InCollection then Search) combining into a single
// conjunctive WHERE rather than accumulating multiple WHERE clauses, which
// most SQL grammars disallow.
func appendWherePredicate(sql *statement.SQL, predicate *astfacade.Expression) (*statement.SQL, error) {
	expr := sql.Expression
	if expr == nil {
		if sql.RawText == "" {
			return nil, &sqlspec.ValidationError{Kind: "missing_statement", Message: "filter cannot append to a statement with no text or AST"}
		}
		parsed, err := astfacade.Parse(sql.RawText, string(sql.Config.Dialect))
		if err != nil {
			return nil, err
		}
		expr = parsed
	}

	next := expr.Clone()
	found := false
	for i, clause := range next.Children {
		if clause.Name == "WHERE" {
			found = true
			// Clone does not deep-copy children, so clause is still the
			// same *Expression the pre-filter statement (or any other
			// clone sharing this subtree) holds; mutate a clone of it, not
			// the shared node, to keep §3's immutability invariant.
			clauseCopy := clause.Clone()
			if len(clauseCopy.Children) > 0 {
				clauseCopy.Children = []*astfacade.Expression{astfacade.AND(clauseCopy.Children[0], predicate)}
			} else {
				clauseCopy.Children = []*astfacade.Expression{predicate}
			}
			next.Children[i] = clauseCopy
			break
		}
	}
	if !found {
		next.Children = append(next.Children, astfacade.Clause("WHERE", predicate))
	}

	updated := sql.Copy()
	updated.Expression = next
	updated.RawText = astfacade.Generate(next, string(sql.Config.Dialect), false)
	return updated, nil
}

func fingerprintOf(parts ...string) []byte {
	h := xxhash.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	sum := h.Sum64()
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(sum >> (8 * i))
	}
	return b
}

func quoteLike(term string) string {
	escaped := strings.NewReplacer("\\", "\\\\", "%", "\\%", "_", "\\_").Replace(term)
	return "%" + escaped + "%"
}
