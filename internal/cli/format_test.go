package cli

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount string
		code   string
		want   string
	}{
		{"1234.5", "USD", "$1,234.50"},
		{"0", "usd", "$0.00"},
		{"-12.345", "USD", "-$12.35"},
		{"99.999", "USD", "$100.00"},
		{"10", "XYZ", "10.00 XYZ"},
	}

	for _, tt := range tests {
		t.Run(tt.amount+" "+tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(decimal.RequireFromString(tt.amount), tt.code))
		})
	}
}

func TestFormatCurrency_BeyondInt64(t *testing.T) {
	// 1000 growing 300% a month for 60 months
	value := decimal.NewFromInt(1000)
	for range 60 {
		value = value.Mul(decimal.NewFromInt(4))
	}
	require.Equal(t, "1329227995784915872903807060280344576000", value.String())

	want := "$%s.00"
	assert.Equal(t, fmt.Sprintf(want, "1,329,227,995,784,915,872,903,807,060,280,344,576,000"), FormatCurrency(value, "USD"))
	assert.Equal(t, "-"+fmt.Sprintf(want, "1,329,227,995,784,915,872,903,807,060,280,344,576,000"), FormatCurrency(value.Neg(), "USD"))
	assert.Equal(t, fmt.Sprintf(want, "1,329,227,995,784,915,872,903,807,060,280,344,576,000"), FormatAmount(value.StringFixed(2), "USD"))

	// Just past the int64 range of cents
	assert.Equal(t, "$92,233,720,368,547,758.08", FormatCurrency(decimal.RequireFromString("92233720368547758.08"), "USD"))
	assert.Equal(t, "$92,233,720,368,547,758.07", FormatCurrency(decimal.RequireFromString("92233720368547758.07"), "USD"))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$1,000.00", FormatAmount("1000.00", "USD"))
	assert.Equal(t, "n/a", FormatAmount("n/a", "USD"))
}

func TestFormatPercent(t *testing.T) {
	s := func(v string) *string { return &v }

	assert.Equal(t, Undefined, FormatPercent(nil))
	assert.Equal(t, "+21.00%", FormatPercent(s("21.00")))
	assert.Equal(t, "-25.00%", FormatPercent(s("-25")))
	assert.Equal(t, "0.00%", FormatPercent(s("0.00")))
}

func TestParseStockSpec(t *testing.T) {
	symbol, amount, rate, price, err := ParseStockSpec("aapl:1000:1.5:180.25")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", symbol)
	assert.Equal(t, "1000", amount.String())
	assert.Equal(t, "1.5", rate.String())
	assert.Equal(t, "180.25", price.String())

	symbol, _, rate, price, err = ParseStockSpec("MSFT:500:-0.5")
	require.NoError(t, err)
	assert.Equal(t, "MSFT", symbol)
	assert.Equal(t, "-0.5", rate.String())
	assert.True(t, price.IsZero())
}

func TestParseStockSpec_Errors(t *testing.T) {
	for _, spec := range []string{
		"AAPL",
		"AAPL:100",
		":100:1",
		"AAPL:abc:1",
		"AAPL:-5:1",
		"AAPL:100:fast",
		"AAPL:100:1:cheap",
		"AAPL:1:2:3:4",
	} {
		_, _, _, _, err := ParseStockSpec(spec)
		assert.Error(t, err, spec)
	}
}
