// Package astfacade isolates the rest of the statement-processing engine
// from the underlying SQL parsing machinery, the way parser2/parsercommon
// isolates the teacher's code generator from its tokenizer/parser-combinator
// stack. Callers only ever see Expression, Kind, and the parse/generate/
// transform/find_all entry points; the lexer and grammar beneath them can
// change without touching any other package.
package astfacade

import "fmt"

// Kind discriminates the shape of an Expression node. Unlike the teacher's
// many concrete AstNode implementations (SELECT_STATEMENT, WHERE_CLAUSE,
// EXPRESSION, ...), every node here is the same Go type tagged by Kind —
// simpler to share structurally and to transform generically.
type Kind int

const (
	// KindStatement is the root: Op names the statement verb (SELECT,
	// INSERT, UPDATE, DELETE), Children are its clauses in source order.
	KindStatement Kind = iota
	// KindClause is a single top-level clause (FROM, GROUP BY, ...). Name
	// holds the clause keyword; Raw holds its body verbatim when the body
	// was not parsed into structured children.
	KindClause
	// KindLogical is an AND/OR/NOT combination of predicates. Op is
	// "AND", "OR", or "NOT"; Children are the operands (one for NOT).
	KindLogical
	// KindComparison is a binary predicate (=, <>, <, <=, >, >=, LIKE,
	// IN, IS). Op names the operator; Children are [left, right].
	KindComparison
	// KindColumn references a column, optionally qualified. Name holds
	// the (possibly dotted) reference as written.
	KindColumn
	// KindTable references a table, optionally aliased. Name holds the
	// table name; Alias holds the alias if present.
	KindTable
	// KindLiteral is a constant value appearing in source text.
	KindLiteral
	// KindPlaceholder is a parameter placeholder of any style.
	KindPlaceholder
	// KindList is a parenthesized comma-separated list, e.g. an IN (...)
	// argument list or a SELECT column list.
	KindList
	// KindRaw is verbatim text the facade did not attempt to structure
	// further. generate() reproduces it unchanged.
	KindRaw
)

func (k Kind) String() string {
	switch k {
	case KindStatement:
		return "statement"
	case KindClause:
		return "clause"
	case KindLogical:
		return "logical"
	case KindComparison:
		return "comparison"
	case KindColumn:
		return "column"
	case KindTable:
		return "table"
	case KindLiteral:
		return "literal"
	case KindPlaceholder:
		return "placeholder"
	case KindList:
		return "list"
	case KindRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// Position mirrors sqlspec.Position without importing the root package, to
// keep this package dependency-free of it (the root package instead
// converts when it wraps a ParseError).
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Expression is the single AST node type produced and consumed by this
// package. Trees are shared via pointer; Transform never mutates a node in
// place, it builds replacement nodes, so two trees may share untouched
// subtrees (structural sharing instead of deep copying).
type Expression struct {
	Kind     Kind
	Op       string
	Name     string
	Alias    string
	Raw      string
	Literal  string // literal text as written, e.g. "18", "'ann'", "true"
	Children []*Expression
	Pos      Position
}

// Clone returns a shallow copy of e with its own Children slice (but shared
// child pointers) so callers can splice a modified child list without
// mutating the original node.
func (e *Expression) Clone() *Expression {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Children = append([]*Expression(nil), e.Children...)
	return &clone
}
