// Package decimal holds the rupee rounding and percentage helpers shared by
// the calculation components.
package decimal

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RoundUnit rounds to the nearest whole currency unit, half to even.
func RoundUnit(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(0)
}

// RoundToNearest rounds to the nearest multiple of unit, half to even.
func RoundToNearest(d decimal.Decimal, unit int64) decimal.Decimal {
	u := decimal.NewFromInt(unit)
	return d.Div(u).RoundBank(0).Mul(u)
}

// ApplyPercent returns pct percent of d.
func ApplyPercent(d, pct decimal.Decimal) decimal.Decimal {
	return d.Mul(pct).Div(hundred)
}

// GrowthFactor returns 1 + pct/100.
func GrowthFactor(pct decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(pct.Div(hundred))
}
