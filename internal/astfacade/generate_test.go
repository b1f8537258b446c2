package astfacade

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_ComparisonRoundTrip(t *testing.T) {
	expr := EQ(Column("id"), Placeholder("?"))
	assert.Equal(t, "id = ?", Generate(expr, "postgres", false))
}

func TestGenerate_LogicalChain(t *testing.T) {
	expr := AND(EQ(Column("id"), Placeholder("?")), GT(Column("age"), Literal("18")))
	assert.Equal(t, "id = ? AND age > 18", Generate(expr, "postgres", false))
}

func TestGenerate_StatementWithClauses(t *testing.T) {
	stmt := Statement("SELECT",
		Clause("SELECT", List(Column("id"), Column("name"))),
		Clause("FROM", Table("users", "")),
		Clause("WHERE", EQ(Column("id"), Placeholder("?"))),
	)
	got := Generate(stmt, "postgres", false)
	assert.Equal(t, "SELECT (id, name) FROM users WHERE id = ?", got)
}

func TestGenerate_RawPassesThrough(t *testing.T) {
	assert.Equal(t, "PRAGMA x = 1", Generate(Raw("PRAGMA x = 1"), "sqlite", false))
}
