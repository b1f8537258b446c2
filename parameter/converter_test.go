package parameter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_QMarkToNumeric(t *testing.T) {
	text := "SELECT * FROM u WHERE id = ? AND name = ?"
	placeholders, _, err := Scan(text, false)
	require.NoError(t, err)

	params := []TypedParameter{New(int64(7)), New("ann")}
	newText, newParams, err := Convert(text, placeholders, params, NUMERIC)
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM u WHERE id = $1 AND name = $2", newText)
	require.Len(t, newParams, 2)
	assert.Equal(t, int64(7), newParams[0].Native())
	assert.Equal(t, "ann", newParams[1].Native())
}

func TestConvert_PositionalToNamedSynthesizesNames(t *testing.T) {
	text := "SELECT * FROM u WHERE id = ?"
	placeholders, _, err := Scan(text, false)
	require.NoError(t, err)

	params := []TypedParameter{New(int64(1))}
	newText, newParams, err := Convert(text, placeholders, params, NamedColon)
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM u WHERE id = :param1", newText)
	assert.Equal(t, "param1", newParams[0].SemanticName)
}

func TestConvert_RoundTrip(t *testing.T) {
	text := "SELECT * FROM u WHERE id = ? AND name = ?"
	placeholders, _, err := Scan(text, false)
	require.NoError(t, err)
	params := []TypedParameter{New(int64(7)), New("ann")}

	numericText, numericParams, err := Convert(text, placeholders, params, NUMERIC)
	require.NoError(t, err)

	numericPlaceholders, _, err := Scan(numericText, false)
	require.NoError(t, err)

	backText, backParams, err := Convert(numericText, numericPlaceholders, numericParams, QMARK)
	require.NoError(t, err)

	assert.Equal(t, text, backText)
	require.Len(t, backParams, 2)
	assert.Equal(t, params[0].Native(), backParams[0].Native())
	assert.Equal(t, params[1].Native(), backParams[1].Native())
}

func TestConvert_LengthMismatchError(t *testing.T) {
	text := "SELECT * FROM u WHERE id = ?"
	placeholders, _, err := Scan(text, false)
	require.NoError(t, err)

	_, _, err = Convert(text, placeholders, nil, NUMERIC)
	assert.Error(t, err)
}
