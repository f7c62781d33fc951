// Package cli provides formatting, rendering and interactive helpers for the
// stockplan terminal client.
package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Undefined is shown in place of a growth figure that cannot be computed
const Undefined = "—"

// FormatCurrency formats an amount in the given ISO currency, e.g. "$1,234.50"
// Unknown currencies fall back to "1234.50 XYZ".
func FormatCurrency(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(code)
	cur := money.GetCurrency(code)
	if cur == nil {
		return fmt.Sprintf("%s %s", amount.StringFixed(2), code)
	}

	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return formatWide(minor, cur)
	}
	return money.New(minor.IntPart(), code).Display()
}

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// formatWide renders minor units that do not fit an int64 with the currency's template
func formatWide(minor decimal.Decimal, cur *money.Currency) string {
	digits := minor.Abs().String()
	if len(digits) <= cur.Fraction {
		digits = strings.Repeat("0", cur.Fraction-len(digits)+1) + digits
	}

	whole, frac := digits[:len(digits)-cur.Fraction], digits[len(digits)-cur.Fraction:]
	if cur.Thousand != "" {
		for i := len(whole) - 3; i > 0; i -= 3 {
			whole = whole[:i] + cur.Thousand + whole[i:]
		}
	}

	number := whole
	if cur.Fraction > 0 {
		number += cur.Decimal + frac
	}

	out := strings.Replace(cur.Template, "1", number, 1)
	out = strings.Replace(out, "$", cur.Grapheme, 1)
	if minor.IsNegative() {
		out = "-" + out
	}
	return out
}

// FormatAmount parses a two-decimal API amount and formats it as currency
// Unparseable input is returned unchanged.
func FormatAmount(amount, code string) string {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return amount
	}
	return FormatCurrency(d, code)
}

// FormatPercent formats an optional API percentage with an explicit sign
// nil renders as Undefined.
func FormatPercent(p *string) string {
	if p == nil {
		return Undefined
	}
	d, err := decimal.NewFromString(*p)
	if err != nil {
		return *p
	}
	return FormatRate(d)
}

// FormatRate formats a percentage with an explicit sign, e.g. "+1.50%"
func FormatRate(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if d.IsPositive() {
		s = "+" + s
	}
	return s + "%"
}

// ParseStockSpec parses a SYMBOL:AMOUNT:RATE[:PRICE] flag value
func ParseStockSpec(spec string) (symbol string, amount, rate, price decimal.Decimal, err error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return "", amount, rate, price, fmt.Errorf("invalid stock %q: expected SYMBOL:AMOUNT:RATE[:PRICE]", spec)
	}

	symbol = strings.ToUpper(strings.TrimSpace(parts[0]))
	if symbol == "" {
		return "", amount, rate, price, fmt.Errorf("invalid stock %q: empty symbol", spec)
	}

	if amount, err = decimal.NewFromString(strings.TrimSpace(parts[1])); err != nil {
		return "", amount, rate, price, fmt.Errorf("invalid amount in %q: %w", spec, err)
	}
	if amount.IsNegative() {
		return "", amount, rate, price, fmt.Errorf("invalid amount in %q: cannot be negative", spec)
	}

	if rate, err = decimal.NewFromString(strings.TrimSpace(parts[2])); err != nil {
		return "", amount, rate, price, fmt.Errorf("invalid rate in %q: %w", spec, err)
	}

	if len(parts) == 4 {
		if price, err = decimal.NewFromString(strings.TrimSpace(parts[3])); err != nil {
			return "", amount, rate, price, fmt.Errorf("invalid price in %q: %w", spec, err)
		}
	}

	return symbol, amount, rate, price, nil
}
