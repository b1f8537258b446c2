package astfacade

import "iter"

// Visitor receives each node of a tree (post-order: children before
// parent) and returns its replacement. Returning the same node unchanged
// is identity; Transform does not force a copy in that case, so unmodified
// subtrees are shared between the original and the result.
type Visitor func(*Expression) *Expression

// Transform walks expr post-order, applying visit to every node, and
// returns the (possibly new) root. Children are rebuilt bottom-up: a
// parent is only cloned if at least one of its children actually changed,
// or if visit itself replaces the parent.
func Transform(expr *Expression, visit Visitor) *Expression {
	if expr == nil {
		return nil
	}
	newChildren := expr.Children
	changed := false
	for i, child := range expr.Children {
		replaced := Transform(child, visit)
		if replaced != child {
			if !changed {
				newChildren = append([]*Expression(nil), expr.Children...)
				changed = true
			}
			newChildren[i] = replaced
		}
	}

	node := expr
	if changed {
		node = expr.Clone()
		node.Children = newChildren
	}
	return visit(node)
}

// FindAll returns an iterator over every node in expr (pre-order) for
// which predicate returns true.
func FindAll(expr *Expression, predicate func(*Expression) bool) iter.Seq[*Expression] {
	return func(yield func(*Expression) bool) {
		var walk func(*Expression) bool
		walk = func(e *Expression) bool {
			if e == nil {
				return true
			}
			if predicate(e) {
				if !yield(e) {
					return false
				}
			}
			for _, child := range e.Children {
				if !walk(child) {
					return false
				}
			}
			return true
		}
		walk(expr)
	}
}
