package astfacade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SelectStatementClauses(t *testing.T) {
	expr, err := Parse("SELECT id, name FROM users WHERE id = ? ORDER BY name LIMIT 10", "postgres")
	require.NoError(t, err)
	require.Equal(t, KindStatement, expr.Kind)
	assert.Equal(t, "SELECT", expr.Op)

	var names []string
	for _, c := range expr.Children {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"SELECT", "FROM", "WHERE", "ORDER BY", "LIMIT"}, names)
}

func TestParse_WhereClauseIsStructured(t *testing.T) {
	expr, err := Parse("SELECT * FROM u WHERE id = ?", "postgres")
	require.NoError(t, err)
	var where *Expression
	for _, c := range expr.Children {
		if c.Name == "WHERE" {
			where = c
		}
	}
	require.NotNil(t, where)
	require.Len(t, where.Children, 1)
	assert.Equal(t, KindComparison, where.Children[0].Kind)
}

func TestParse_IgnoresKeywordsInsideStringLiterals(t *testing.T) {
	expr, err := Parse(`SELECT * FROM u WHERE note = 'FROM nowhere'`, "postgres")
	require.NoError(t, err)
	var clauseNames []string
	for _, c := range expr.Children {
		clauseNames = append(clauseNames, c.Name)
	}
	assert.Equal(t, []string{"SELECT", "FROM", "WHERE"}, clauseNames)
}

func TestParse_UnrecognizedTextIsRaw(t *testing.T) {
	expr, err := Parse("PRAGMA foreign_keys = ON", "sqlite")
	require.NoError(t, err)
	assert.Equal(t, KindRaw, expr.Kind)
}
