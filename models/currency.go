package models

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Currency describes the deployment's denomination: display names plus the
// precision balances are rounded to. It carries no mutable state; rounding
// and formatting are pure functions of its fields.
type Currency struct {
	Singular string
	Plural   string
	Decimals int32
}

// NewCurrency creates a currency value type.
func NewCurrency(singular, plural string, decimals int32) Currency {
	return Currency{
		Singular: singular,
		Plural:   plural,
		Decimals: decimals,
	}
}

// Round truncates amount at the configured number of fractional digits,
// flooring toward negative infinity. Rounding never increases an amount, so
// repeated rounding through transfers cannot create money. Non-finite
// values pass through unchanged; callers validate them separately.
func (c Currency) Round(amount float64) float64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return amount
	}
	return decimal.NewFromFloat(amount).RoundFloor(c.Decimals).InexactFloat64()
}

// Format renders the rounded amount followed by the singular name when its
// magnitude is exactly one, the plural name otherwise.
func (c Currency) Format(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Sprintf("%v %s", amount, c.Plural)
	}

	rounded := c.Round(amount)

	name := c.Plural
	if math.Abs(rounded) == 1 {
		name = c.Singular
	}

	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + name
}
