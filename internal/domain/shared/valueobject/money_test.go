package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.NewFromInt(100), THB)
	require.NoError(t, err)
	assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))
	assert.Equal(t, THB, m.Currency())

	_, err = NewMoney(decimal.NewFromInt(100), Currency("USD"))
	assert.Error(t, err)

	_, err = NewMoney(decimal.NewFromInt(100), Currency(""))
	assert.Error(t, err)
}

func TestMoney_AddSubtract(t *testing.T) {
	a := NewMoneyTHBFromFloat(100.50)
	b := NewMoneyTHBFromFloat(49.50)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromInt(150)))

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.NewFromInt(51)))

	mmk := NewMoneyMMK(decimal.NewFromInt(1000))
	_, err = a.Add(mmk)
	assert.Error(t, err)
	_, err = a.Subtract(mmk)
	assert.Error(t, err)
}

func TestMoney_CalculatePercentage(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		percent  float64
		expected float64
	}{
		{"ten percent", 270, 10, 27},
		{"zero percent", 100, 0, 0},
		{"full percent", 100, 100, 100},
		{"fractional", 243, 7, 17.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMoneyTHBFromFloat(tt.amount)
			got := m.CalculatePercentage(decimal.NewFromFloat(tt.percent))
			assert.True(t, got.Amount().Equal(decimal.NewFromFloat(tt.expected)),
				"got %s, want %v", got.Amount(), tt.expected)
		})
	}
}

func TestMoney_ApplyDiscount(t *testing.T) {
	m := NewMoneyTHBFromFloat(100)
	discounted := m.ApplyDiscount(decimal.NewFromInt(10))
	assert.True(t, discounted.Amount().Equal(decimal.NewFromInt(90)))

	// A 0% discount leaves the amount unchanged
	same := m.ApplyDiscount(decimal.Zero)
	assert.True(t, same.Equals(m))
}

func TestMoney_Convert(t *testing.T) {
	thb := NewMoneyTHBFromFloat(100)
	rate := decimal.NewFromInt(120) // 1 THB = 120 MMK

	mmk, err := thb.Convert(MMK, rate)
	require.NoError(t, err)
	assert.Equal(t, MMK, mmk.Currency())
	assert.True(t, mmk.Amount().Equal(decimal.NewFromInt(12000)))

	// Same-currency conversion is a no-op regardless of rate
	same, err := thb.Convert(THB, rate)
	require.NoError(t, err)
	assert.True(t, same.Equals(thb))

	_, err = thb.Convert(MMK, decimal.Zero)
	assert.Error(t, err)
	_, err = thb.Convert(Currency("EUR"), rate)
	assert.Error(t, err)
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewMoneyMMK(decimal.RequireFromString("2500.75"))

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("123.45"))
	assert.True(t, m.Amount().Equal(decimal.RequireFromString("123.45")))
	assert.Equal(t, DefaultCurrency, m.Currency())

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())

	assert.Error(t, m.Scan(42))
}

func TestMoney_Comparisons(t *testing.T) {
	small := NewMoneyTHBFromFloat(10)
	big := NewMoneyTHBFromFloat(20)

	lt, err := small.LessThan(big)
	require.NoError(t, err)
	assert.True(t, lt)

	gt, err := big.GreaterThan(small)
	require.NoError(t, err)
	assert.True(t, gt)

	_, err = small.LessThan(NewMoneyMMK(decimal.NewFromInt(1)))
	assert.Error(t, err)
}
