package calculation

import (
	"math"

	"github.com/pensioncalc/corpus-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// RateTaperCurve interpolates a rate linearly from Initial to Final over
// Periods steps and holds Final afterwards. Rates are annual percentages.
type RateTaperCurve struct {
	Initial decimal.Decimal `json:"initial"`
	Final   decimal.Decimal `json:"final"`
	Periods int             `json:"periods"`
}

// NewRateTaperCurve builds a curve from a configured rate pair.
func NewRateTaperCurve(pair domain.RatePair, periods int) RateTaperCurve {
	return RateTaperCurve{Initial: pair.Initial, Final: pair.Final, Periods: periods}
}

// Rate returns the rate at period (0 is the origin). Periods before the origin
// use Initial.
func (c RateTaperCurve) Rate(period int) decimal.Decimal {
	if period <= 0 {
		return c.Initial
	}
	if c.Periods <= 0 || period >= c.Periods {
		return c.Final
	}
	drop := c.Initial.Sub(c.Final).Mul(decimal.NewFromInt(int64(period))).Div(decimal.NewFromInt(int64(c.Periods)))
	return c.Initial.Sub(drop)
}

// Points returns the rates for periods 0..Periods inclusive.
func (c RateTaperCurve) Points() []decimal.Decimal {
	n := c.Periods
	if n < 0 {
		n = 0
	}
	points := make([]decimal.Decimal, n+1)
	for i := range points {
		points[i] = c.Rate(i)
	}
	return points
}

// MonthlyRate converts an annual percentage to the equivalent compounded
// monthly fraction: (1+annual/100)^(1/12) - 1.
func MonthlyRate(annualPercent decimal.Decimal) decimal.Decimal {
	annual := annualPercent.InexactFloat64() / 100
	if annual == 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(math.Pow(1+annual, 1.0/12) - 1)
}
