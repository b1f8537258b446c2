package astfacade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransform_ReplacesMatchingNodes(t *testing.T) {
	original := AND(EQ(Column("id"), Literal("1")), EQ(Column("name"), Literal("'ann'")))

	replaced := Transform(original, func(e *Expression) *Expression {
		if e.Kind == KindLiteral {
			clone := e.Clone()
			clone.Literal = "?"
			return clone
		}
		return e
	})

	assert.Equal(t, "id = ? AND name = ?", Generate(replaced, "postgres", false))
	// Original tree is untouched.
	assert.Equal(t, "id = 1 AND name = 'ann'", Generate(original, "postgres", false))
}

func TestTransform_SharesUnchangedSubtrees(t *testing.T) {
	left := EQ(Column("id"), Literal("1"))
	original := AND(left, EQ(Column("name"), Literal("'ann'")))

	replaced := Transform(original, func(e *Expression) *Expression {
		if e.Kind == KindLiteral && e.Literal == "'ann'" {
			clone := e.Clone()
			clone.Literal = "'bob'"
			return clone
		}
		return e
	})

	require.NotSame(t, original, replaced)
	assert.Same(t, left, replaced.Children[0])
}

func TestFindAll_CollectsColumns(t *testing.T) {
	expr := AND(EQ(Column("id"), Literal("1")), EQ(Column("name"), Literal("'ann'")))

	var names []string
	for node := range FindAll(expr, func(e *Expression) bool { return e.Kind == KindColumn }) {
		names = append(names, node.Name)
	}
	assert.Equal(t, []string{"id", "name"}, names)
}
