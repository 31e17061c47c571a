// Package amount converts between integer minor units and the decimal
// strings people read and type.
package amount

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"folio/internal/models"
)

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// fraction returns the number of minor-unit digits of a currency, 2 when the
// currency is unknown.
func fraction(currency string) int32 {
	if c := money.GetCurrency(normalize(currency)); c != nil {
		return int32(c.Fraction)
	}
	return 2
}

func normalize(currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return models.DefaultCurrency
	}
	return currency
}

// Format renders minor units using the currency's display conventions.
func Format(minor int64, currency string) string {
	currency = normalize(currency)
	if money.GetCurrency(currency) == nil {
		return decimal.New(minor, -fraction(currency)).StringFixed(fraction(currency)) + " " + currency
	}
	return money.New(minor, currency).Display()
}

// Signed is Format with an explicit "+" on positive amounts.
func Signed(minor int64, currency string) string {
	if minor > 0 {
		return "+" + Format(minor, currency)
	}
	return Format(minor, currency)
}

// Unconverted renders a sum of minor units drawn from several currencies.
// Two fraction digits are assumed and no symbol is shown.
func Unconverted(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2) + " (mixed currencies)"
}

// Major converts minor units to a float in major units, for plotting.
func Major(minor int64, currency string) float64 {
	f, _ := decimal.New(minor, -fraction(currency)).Float64()
	return f
}

// Parse reads a decimal string such as "1,234.50" into minor units. More
// decimal places than the currency allows is an error.
func Parse(s, currency string) (int64, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if clean == "" {
		return 0, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	scaled := d.Shift(fraction(currency))
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("amount %q has too many decimal places for %s", s, normalize(currency))
	}
	if scaled.GreaterThan(maxMinor) || scaled.LessThan(minMinor) {
		return 0, fmt.Errorf("amount %q is out of range", s)
	}
	return scaled.IntPart(), nil
}

// Percent formats a percentage with two decimals and an explicit sign.
func Percent(p float64) string {
	return fmt.Sprintf("%+.2f%%", p)
}
