package astfacade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePredicate_SimpleComparison(t *testing.T) {
	expr, err := ParsePredicate("id = ?")
	require.NoError(t, err)
	require.NotNil(t, expr)
	assert.Equal(t, KindComparison, expr.Kind)
	assert.Equal(t, "=", expr.Op)
	assert.Equal(t, KindColumn, expr.Children[0].Kind)
	assert.Equal(t, KindPlaceholder, expr.Children[1].Kind)
}

func TestParsePredicate_AndBindsTighterThanOr(t *testing.T) {
	expr, err := ParsePredicate("a = 1 OR b = 2 AND c = 3")
	require.NoError(t, err)
	require.Equal(t, KindLogical, expr.Kind)
	assert.Equal(t, "OR", expr.Op)
	assert.Equal(t, KindComparison, expr.Children[0].Kind)
	assert.Equal(t, KindLogical, expr.Children[1].Kind)
	assert.Equal(t, "AND", expr.Children[1].Op)
}

func TestParsePredicate_Not(t *testing.T) {
	expr, err := ParsePredicate("NOT id = 1")
	require.NoError(t, err)
	require.Equal(t, KindLogical, expr.Kind)
	assert.Equal(t, "NOT", expr.Op)
	assert.Equal(t, KindComparison, expr.Children[0].Kind)
}

func TestParsePredicate_EmptyBody(t *testing.T) {
	expr, err := ParsePredicate("")
	require.NoError(t, err)
	assert.Nil(t, expr)
}
