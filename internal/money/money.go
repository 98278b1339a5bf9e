// Package money converts between major and minor currency units and renders
// amounts for people.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var hundred = decimal.NewFromInt(100)

// ToMinor converts a major-unit amount (e.g. 4.99) into minor units (499).
func ToMinor(major decimal.Decimal) int64 {
	return major.Mul(hundred).Round(0).IntPart()
}

// FromMinor converts minor units back into a major-unit decimal.
func FromMinor(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(hundred)
}

// ParseMajor parses a decimal string such as "19.99" into minor units.
func ParseMajor(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}

	return ToMinor(d), nil
}

// Format renders minor units in the given ISO 4217 currency, e.g. "₦ 1,500.00".
func Format(minor int64, code string) string {
	major := FromMinor(minor)

	unit, err := currency.ParseISO(code)
	if err != nil {
		return major.StringFixed(2) + " " + code
	}

	p := message.NewPrinter(language.English)

	return p.Sprint(currency.NarrowSymbol(unit.Amount(major.InexactFloat64())))
}
