package calculation

import (
	"fmt"
	"slices"

	"github.com/pensioncalc/corpus-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// AllowanceConfig is the input of the dearness allowance builder.
type AllowanceConfig struct {
	Inflation  domain.RatePair
	TaperYears int
	// Origin is the half-year at which the inflation taper starts.
	Origin domain.HalfYear
	// First and Last bound the grid. They must match the career trajectory.
	First           domain.HalfYear
	Last            domain.HalfYear
	CommissionYears []int
}

// DearnessAllowanceBuilder blends archived allowance values with a tapering
// inflation projection that resets at every pay commission.
type DearnessAllowanceBuilder struct {
	Logger Logger
}

// NewDearnessAllowanceBuilder creates a builder.
func NewDearnessAllowanceBuilder(logger Logger) *DearnessAllowanceBuilder {
	if logger == nil {
		logger = NopLogger{}
	}
	return &DearnessAllowanceBuilder{Logger: logger}
}

// GridStart returns the first half-year the builder covers: the career start,
// or earlier when a commission needs the allowance accrued before it.
func (cfg AllowanceConfig) GridStart() domain.HalfYear {
	start := cfg.First
	for _, y := range cfg.CommissionYears {
		before := domain.HalfYear{Year: y, Half: domain.H1}.Prev()
		if before.Before(start) {
			start = before
		}
	}
	return start
}

// archiveTail returns the last archived half-year.
func archiveTail(archive []domain.AllowanceEntry) (domain.HalfYear, bool) {
	if len(archive) == 0 {
		return domain.HalfYear{}, false
	}
	tail := archive[0].Period
	for _, e := range archive[1:] {
		if e.Period.After(tail) {
			tail = e.Period
		}
	}
	return tail, true
}

// Build produces one entry per half-year from GridStart to cfg.Last. When the
// archive ends before GridStart the grid starts at the archive's last entry so
// the projection accrues on top of it.
//
// Archived values are used verbatim and carry the running total forward. A
// projected half-year accrues half the annual tapered inflation rate. For a
// commission year Y both (Y-1, H2) and (Y, H1) read zero when projected; the
// accrual the reset discarded is kept as the table's pre-revision value for Y.
func (b *DearnessAllowanceBuilder) Build(archive []domain.AllowanceEntry, cfg AllowanceConfig) (*domain.AllowanceTable, error) {
	if cfg.Last.Before(cfg.First) {
		return nil, fmt.Errorf("allowance grid ends at %s before it starts at %s", cfg.Last, cfg.First)
	}
	curve := NewRateTaperCurve(cfg.Inflation, cfg.TaperYears*2)
	archived := make(map[domain.HalfYear]decimal.Decimal, len(archive))
	for _, e := range archive {
		archived[e.Period] = e.Percent
	}
	isCommission := func(p domain.HalfYear) bool {
		return p.Half == domain.H1 && slices.Contains(cfg.CommissionYears, p.Year)
	}

	two := decimal.NewFromInt(2)
	start := cfg.GridStart()
	if tail, ok := archiveTail(archive); ok && tail.Before(start) {
		start = tail
	}
	entries := make([]domain.AllowanceEntry, 0, cfg.Last.Sub(start)+1)
	preRevision := make(map[int]decimal.Decimal)
	running := decimal.Zero

	for p := start; !p.After(cfg.Last); p = p.Next() {
		entry := domain.AllowanceEntry{Period: p}
		resetsNext := isCommission(p.Next())

		if v, ok := archived[p]; ok {
			entry.Percent, entry.Source = v, domain.AllowanceArchived
			running = v
			if resetsNext {
				preRevision[p.Next().Year] = v
			}
		} else {
			entry.Source = domain.AllowanceProjected
			switch {
			case isCommission(p):
				if _, ok := preRevision[p.Year]; !ok {
					preRevision[p.Year] = running
				}
				running = decimal.Zero
			case resetsNext:
				accrued := running.Add(curve.Rate(p.Sub(cfg.Origin)).Div(two)).RoundBank(2)
				preRevision[p.Next().Year] = accrued
				running = decimal.Zero
			default:
				running = running.Add(curve.Rate(p.Sub(cfg.Origin)).Div(two)).RoundBank(2)
			}
			entry.Percent = running
		}
		entries = append(entries, entry)
	}

	b.Logger.Debugf("allowance grid %s..%s built with %d entries", start, cfg.Last, len(entries))
	return domain.NewAllowanceTable(entries, preRevision)
}
