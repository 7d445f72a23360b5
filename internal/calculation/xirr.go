package calculation

import (
	"errors"
	"math"
	"time"

	"github.com/pensioncalc/corpus-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrNoXIRR is returned when the cash flows have no internal rate of return.
var ErrNoXIRR = errors.New("cash flows have no internal rate of return")

// CashFlow is a dated amount; outflows are negative.
type CashFlow struct {
	Date   time.Time
	Amount float64
}

const (
	xirrTolerance  = 1e-9
	xirrIterations = 100
)

// XIRR returns the annualized rate r solving sum(a / (1+r)^(days/365)) = 0.
// Newton's method is tried first; bisection is the fallback.
func XIRR(flows []CashFlow) (float64, error) {
	var hasIn, hasOut bool
	for _, f := range flows {
		hasIn = hasIn || f.Amount > 0
		hasOut = hasOut || f.Amount < 0
	}
	if !hasIn || !hasOut {
		return 0, ErrNoXIRR
	}

	t0 := flows[0].Date
	for _, f := range flows {
		if f.Date.Before(t0) {
			t0 = f.Date
		}
	}
	years := make([]float64, len(flows))
	for i, f := range flows {
		years[i] = f.Date.Sub(t0).Hours() / 24 / 365
	}

	npv := func(r float64) float64 {
		sum := 0.0
		for i, f := range flows {
			sum += f.Amount / math.Pow(1+r, years[i])
		}
		return sum
	}
	slope := func(r float64) float64 {
		sum := 0.0
		for i, f := range flows {
			sum -= years[i] * f.Amount / math.Pow(1+r, years[i]+1)
		}
		return sum
	}

	r := 0.1
	for range xirrIterations {
		v, d := npv(r), slope(r)
		if d == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			break
		}
		next := r - v/d
		if next <= -1 || math.IsNaN(next) {
			break
		}
		if math.Abs(next-r) < xirrTolerance {
			return next, nil
		}
		r = next
	}

	lo, hi := -0.999999, 100.0
	flo, fhi := npv(lo), npv(hi)
	if math.IsNaN(flo) || math.IsNaN(fhi) || flo*fhi > 0 {
		return 0, ErrNoXIRR
	}
	for range 1000 {
		mid := (lo + hi) / 2
		fm := npv(mid)
		if math.Abs(fm) < xirrTolerance || hi-lo < xirrTolerance {
			return mid, nil
		}
		if flo*fm < 0 {
			hi = mid
		} else {
			lo, flo = mid, fm
		}
	}
	return (lo + hi) / 2, nil
}

// CorpusCashFlows turns a corpus trace into dated flows: the seed and every
// contribution as outflows on the first of their month, and the final corpus
// as an inflow on the first of the following month.
func CorpusCashFlows(trace domain.CorpusTrace) []CashFlow {
	if len(trace.Months) == 0 {
		return nil
	}
	flows := make([]CashFlow, 0, len(trace.Months)+2)
	if trace.Seed.IsPositive() {
		flows = append(flows, CashFlow{
			Date:   domain.YearMonthOf(trace.SeedDate).Start(),
			Amount: -trace.Seed.InexactFloat64(),
		})
	}
	for _, m := range trace.Months {
		if m.Contribution.IsZero() {
			continue
		}
		flows = append(flows, CashFlow{Date: m.Period.Start(), Amount: -m.Contribution.InexactFloat64()})
	}
	last := trace.Months[len(trace.Months)-1].Period
	flows = append(flows, CashFlow{Date: last.Next().Start(), Amount: trace.Final.InexactFloat64()})
	return flows
}

// CorpusXIRR is the annualized return of a corpus trace in percent, rounded
// to two places. Traces without both inflows and outflows yield zero.
func CorpusXIRR(trace domain.CorpusTrace) (decimal.Decimal, error) {
	r, err := XIRR(CorpusCashFlows(trace))
	if errors.Is(err, ErrNoXIRR) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(r * 100).RoundBank(2), nil
}
