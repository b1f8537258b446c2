package astfacade

// Builders construct Expression nodes directly, the way parsercommon's
// node constructors build AstNode implementations for the query builder
// and for tests, without going through Parse.

// Column builds a (possibly qualified) column reference.
func Column(name string) *Expression { return &Expression{Kind: KindColumn, Name: name} }

// Table builds a table reference, optionally aliased.
func Table(name, alias string) *Expression { return &Expression{Kind: KindTable, Name: name, Alias: alias} }

// Literal builds a literal node from its source text representation (the
// caller is responsible for dialect-correct quoting of string literals).
func Literal(text string) *Expression { return &Expression{Kind: KindLiteral, Literal: text} }

// Placeholder builds a placeholder node carrying its rendered token (e.g.
// "?", "$1", ":name").
func Placeholder(token string) *Expression { return &Expression{Kind: KindPlaceholder, Raw: token} }

// Raw builds a verbatim passthrough node.
func Raw(text string) *Expression { return &Expression{Kind: KindRaw, Raw: text} }

// EQ, NE, LT, LE, GT, GE build binary comparisons.
func EQ(left, right *Expression) *Expression { return comparison("=", left, right) }
func NE(left, right *Expression) *Expression { return comparison("<>", left, right) }
func LT(left, right *Expression) *Expression { return comparison("<", left, right) }
func LE(left, right *Expression) *Expression { return comparison("<=", left, right) }
func GT(left, right *Expression) *Expression { return comparison(">", left, right) }
func GE(left, right *Expression) *Expression { return comparison(">=", left, right) }

func comparison(op string, left, right *Expression) *Expression {
	return &Expression{Kind: KindComparison, Op: op, Children: []*Expression{left, right}}
}

// AND combines two or more predicates with logical AND, left-folding into a
// chain of binary KindLogical nodes so Generate can render plain "a AND b
// AND c" without special-casing arity.
func AND(operands ...*Expression) *Expression { return foldLogical("AND", operands) }

// OR combines two or more predicates with logical OR.
func OR(operands ...*Expression) *Expression { return foldLogical("OR", operands) }

func foldLogical(op string, operands []*Expression) *Expression {
	if len(operands) == 0 {
		return nil
	}
	node := operands[0]
	for _, next := range operands[1:] {
		node = &Expression{Kind: KindLogical, Op: op, Children: []*Expression{node, next}}
	}
	return node
}

// NOT negates a single predicate.
func NOT(operand *Expression) *Expression {
	return &Expression{Kind: KindLogical, Op: "NOT", Children: []*Expression{operand}}
}

// List builds a parenthesized comma-separated list, e.g. a SELECT column
// list or an IN (...) argument list.
func List(items ...*Expression) *Expression { return &Expression{Kind: KindList, Children: items} }

// Clause wraps a node as a named top-level clause.
func Clause(name string, body *Expression) *Expression {
	c := &Expression{Kind: KindClause, Name: name}
	if body != nil {
		c.Children = []*Expression{body}
	}
	return c
}

// Statement builds a root statement node from a verb and ordered clauses.
func Statement(verb string, clauses ...*Expression) *Expression {
	return &Expression{Kind: KindStatement, Op: verb, Children: clauses}
}
