package warehouse

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount(t *testing.T) {
	t.Parallel()

	got, err := Amount(12345)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("123.45").Equal(got), got.String())

	_, err = Amount(-1)
	require.ErrorIs(t, err, ErrNegativeAmount)
}

func TestFullName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Ada Lovelace", FullName("Ada", "Lovelace"))
	assert.Equal(t, "Ada", FullName(" Ada ", ""))
	assert.Empty(t, FullName("", ""))
}

func TestLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Ada", Label("Ada", ""))
	assert.Equal(t, "Ada (gift)", Label("Ada", "gift"))
}
