package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/unimarket/internal/money"
)

func TestToMinor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{name: "Whole", input: "100", want: 10000},
		{name: "Cents", input: "4.99", want: 499},
		{name: "RoundsHalfUp", input: "19.995", want: 2000},
		{name: "Zero", input: "0", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, money.ToMinor(decimal.RequireFromString(tt.input)))
		})
	}
}

func TestFromMinor(t *testing.T) {
	assert.True(t, decimal.RequireFromString("9.99").Equal(money.FromMinor(999)))
}

func TestParseMajor(t *testing.T) {
	got, err := money.ParseMajor("14.50")
	require.NoError(t, err)
	assert.Equal(t, int64(1450), got)

	_, err = money.ParseMajor("abc")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	t.Run("KnownCurrency", func(t *testing.T) {
		got := money.Format(5000, "NGN")
		assert.Contains(t, got, "₦")
		assert.Contains(t, got, "50")
	})

	t.Run("UnknownCurrency", func(t *testing.T) {
		assert.Equal(t, "12.30 ", money.Format(1230, ""))
	})
}
