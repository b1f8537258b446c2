package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlspec/sqlspec/internal/astfacade"
	"github.com/sqlspec/sqlspec/parameter"
	"github.com/sqlspec/sqlspec/statement"
)

func TestParameterizeLiterals_ReplacesLiteralsInOrder(t *testing.T) {
	where := astfacade.Clause("WHERE", astfacade.AND(
		astfacade.EQ(astfacade.Column("age"), astfacade.Literal("18")),
		astfacade.EQ(astfacade.Column("name"), astfacade.Literal("'ann'")),
	))
	stmt := astfacade.Statement("SELECT", where)
	ctx := &statement.SQLTransformContext{Current: stmt, Original: stmt}

	next, err := parameterizeLiterals(ctx)
	require.NoError(t, err)
	assert.Len(t, next.Parameters, 2)
	assert.Equal(t, "18", next.Parameters[0].Native())
	assert.Equal(t, "ann", next.Parameters[1].Native())

	for node := range astfacade.FindAll(next.Current, func(e *astfacade.Expression) bool { return e.Kind == astfacade.KindLiteral }) {
		t.Fatalf("expected no remaining literal nodes, found %v", node)
	}
}

func TestParameterizeLiterals_NoOpWhenOnlyPlaceholders(t *testing.T) {
	where := astfacade.Clause("WHERE", astfacade.EQ(astfacade.Column("id"), astfacade.Placeholder("?")))
	stmt := astfacade.Statement("SELECT", where)
	ctx := &statement.SQLTransformContext{Current: stmt, Original: stmt}

	next, err := parameterizeLiterals(ctx)
	require.NoError(t, err)
	assert.Empty(t, next.Parameters)
	assert.Equal(t, astfacade.Generate(stmt, "postgres", false), astfacade.Generate(next.Current, "postgres", false))
}

func TestParameterizeLiterals_NilCurrentIsNoOp(t *testing.T) {
	ctx := &statement.SQLTransformContext{}
	next, err := parameterizeLiterals(ctx)
	require.NoError(t, err)
	assert.Nil(t, next.Current)
}

func TestLiteralToValue_RecognizesBooleansAndNull(t *testing.T) {
	assert.Equal(t, true, parameter.Native(literalToValue("true")))
	assert.Equal(t, false, parameter.Native(literalToValue("FALSE")))
	assert.Nil(t, parameter.Native(literalToValue("NULL")))
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, isNumeric("123"))
	assert.True(t, isNumeric("-1.5"))
	assert.False(t, isNumeric("abc"))
	assert.False(t, isNumeric(""))
}
