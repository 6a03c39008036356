package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with supported currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), USD)
		require.NoError(t, err)
		assert.Equal(t, USD, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("rejects unsupported currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(1), "CNY")
		assert.Error(t, err)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	a := MustNewMoney(decimal.NewFromInt(100000), UZS)
	b := MustNewMoney(decimal.NewFromInt(35000), UZS)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromInt(135000)))

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.NewFromInt(65000)))

	assert.True(t, b.Negate().IsNegative())
	assert.True(t, b.Negate().Abs().Equals(b))

	_, err = a.Add(MustNewMoney(decimal.NewFromInt(1), USD))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestMoney_WithinTolerance(t *testing.T) {
	tolerance := decimal.NewFromFloat(0.01)
	base := MustNewMoney(decimal.RequireFromString("100.00"), EUR)

	tests := []struct {
		name     string
		other    Money
		expected bool
	}{
		{"equal", MustNewMoney(decimal.RequireFromString("100.00"), EUR), true},
		{"at tolerance", MustNewMoney(decimal.RequireFromString("100.01"), EUR), true},
		{"beyond tolerance", MustNewMoney(decimal.RequireFromString("100.02"), EUR), false},
		{"other currency", MustNewMoney(decimal.RequireFromString("100.00"), RUB), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, base.WithinTolerance(tt.other, tolerance))
		})
	}
}

func TestMoney_JSON(t *testing.T) {
	m := MustNewMoney(decimal.RequireFromString("30.5"), USD)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"30.5","currency":"USD"}`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Equals(m))

	assert.Error(t, json.Unmarshal([]byte(`{"amount":"1","currency":"XXX"}`), &decoded))
}

func TestCurrency(t *testing.T) {
	t.Run("parses supported codes case-insensitively", func(t *testing.T) {
		for _, code := range []string{"uzs", "EUR", " usd ", "Rub"} {
			c, err := ParseCurrency(code)
			require.NoError(t, err, code)
			assert.True(t, c.IsValid())
		}
	})

	t.Run("rejects unsupported codes", func(t *testing.T) {
		_, err := ParseCurrency("GBP")
		assert.Error(t, err)
	})

	t.Run("lookup table", func(t *testing.T) {
		assert.Equal(t, "Uzbek Som", UZS.Label())
		assert.Equal(t, "$", USD.Symbol())
		assert.Equal(t, int32(2), RUB.Precision())
		assert.Equal(t, []Currency{UZS, EUR, USD, RUB}, AllCurrencies())
	})

	t.Run("precision check ignores trailing zeros", func(t *testing.T) {
		assert.True(t, UZS.FitsPrecision(decimal.RequireFromString("10.5")))
		assert.True(t, UZS.FitsPrecision(decimal.RequireFromString("10.500")))
		assert.True(t, USD.FitsPrecision(decimal.NewFromInt(30)))
		assert.False(t, UZS.FitsPrecision(decimal.RequireFromString("10.005")))
		assert.False(t, EUR.FitsPrecision(decimal.RequireFromString("0.004")))
	})

	t.Run("formats with grouping and symbol", func(t *testing.T) {
		assert.Equal(t, "135,000.00 so'm", UZS.Format(decimal.NewFromInt(135000)))
		assert.Equal(t, "30.50 $", USD.Format(decimal.RequireFromString("30.5")))
	})
}
