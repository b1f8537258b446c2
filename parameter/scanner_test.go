package parameter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_QMark(t *testing.T) {
	placeholders, styles, err := Scan("SELECT * FROM u WHERE id = ? AND name = ?", false)
	require.NoError(t, err)
	require.Len(t, placeholders, 2)
	assert.Equal(t, []Style{QMARK}, styles)
	assert.Equal(t, 1, placeholders[0].Index)
	assert.Equal(t, 2, placeholders[1].Index)
}

func TestScan_NamedColon(t *testing.T) {
	placeholders, styles, err := Scan("SELECT * FROM u WHERE id = :id AND name = :name", false)
	require.NoError(t, err)
	require.Len(t, placeholders, 2)
	assert.Equal(t, []Style{NamedColon}, styles)
	assert.Equal(t, "id", placeholders[0].Name)
	assert.Equal(t, "name", placeholders[1].Name)
}

func TestScan_Numeric(t *testing.T) {
	placeholders, _, err := Scan("SELECT * FROM u WHERE id = $1 AND age > $2", false)
	require.NoError(t, err)
	require.Len(t, placeholders, 2)
	assert.Equal(t, 1, placeholders[0].Index)
	assert.Equal(t, 2, placeholders[1].Index)
}

func TestScan_NamedPyformat(t *testing.T) {
	placeholders, styles, err := Scan("SELECT * FROM u WHERE id = %(id)s", false)
	require.NoError(t, err)
	require.Len(t, placeholders, 1)
	assert.Equal(t, NamedPyformat, styles[0])
	assert.Equal(t, "id", placeholders[0].Name)
}

func TestScan_IgnoresPlaceholderLikeTextInsideStringLiteral(t *testing.T) {
	text := `SELECT * FROM u WHERE note = 'what is ?' AND id = ?`
	placeholders, _, err := Scan(text, false)
	require.NoError(t, err)
	require.Len(t, placeholders, 1)
	assert.Equal(t, len(text)-1, placeholders[0].Start)
}

func TestScan_IgnoresLineComment(t *testing.T) {
	placeholders, _, err := Scan("SELECT * FROM u -- ? not real\nWHERE id = ?", false)
	require.NoError(t, err)
	require.Len(t, placeholders, 1)
}

func TestScan_IgnoresBlockComment(t *testing.T) {
	placeholders, _, err := Scan("SELECT * FROM u /* ? not real */ WHERE id = ?", false)
	require.NoError(t, err)
	require.Len(t, placeholders, 1)
}

func TestScan_MixedStylesRejectedByDefault(t *testing.T) {
	_, styles, err := Scan("SELECT * FROM u WHERE id = ? AND name = :name", false)
	require.Error(t, err)
	assert.ElementsMatch(t, []Style{QMARK, NamedColon}, styles)
}

func TestScan_MixedStylesAllowed(t *testing.T) {
	placeholders, _, err := Scan("SELECT * FROM u WHERE id = ? AND name = :name", true)
	require.NoError(t, err)
	assert.Len(t, placeholders, 2)
}
