package parameter

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce_AppliesRegisteredTransform(t *testing.T) {
	cfg := DefaultStyleConfig(QMARK).WithCoercion("timestamp", func(p TypedParameter) (TypedParameter, error) {
		ts := time.Time(p.Value.(TimestampValue))
		return TypedParameter{Value: TextValue(ts.UTC().Format(time.RFC3339))}, nil
	})

	when := time.Date(2026, 7, 29, 12, 0, 0, 0, time.UTC)
	out, failedIndex, err := Coerce([]TypedParameter{{Value: TimestampValue(when)}}, cfg)
	require.NoError(t, err)
	assert.Equal(t, -1, failedIndex)
	assert.Equal(t, "2026-07-29T12:00:00Z", out[0].Native())
}

func TestCoerce_PassesThroughUnregisteredKinds(t *testing.T) {
	cfg := DefaultStyleConfig(QMARK)
	out, _, err := Coerce([]TypedParameter{New(int64(42))}, cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(42), out[0].Native())
}

func TestCoerce_ReportsFailingIndex(t *testing.T) {
	boom := errors.New("boom")
	cfg := DefaultStyleConfig(QMARK).WithCoercion("int", func(p TypedParameter) (TypedParameter, error) {
		return TypedParameter{}, boom
	})

	_, failedIndex, err := Coerce([]TypedParameter{New("ok"), New(int64(1))}, cfg)
	require.Error(t, err)
	assert.Equal(t, 1, failedIndex)
	assert.True(t, errors.Is(err, boom))
}
