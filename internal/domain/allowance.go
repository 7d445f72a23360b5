package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AllowanceSource tells whether a dearness allowance value came from the archive or the projection.
type AllowanceSource string

const (
	AllowanceArchived  AllowanceSource = "archive"
	AllowanceProjected AllowanceSource = "projected"
)

// AllowanceEntry is the dearness allowance percentage in force for a half-year.
type AllowanceEntry struct {
	Period  HalfYear        `json:"period"`
	Percent decimal.Decimal `json:"percent"`
	Source  AllowanceSource `json:"source"`
}

// AllowanceTable is a contiguous, ordered allowance timeline.
type AllowanceTable struct {
	entries     []AllowanceEntry
	byPeriod    map[HalfYear]int
	preRevision map[int]decimal.Decimal
}

// NewAllowanceTable indexes entries, which must be contiguous and ordered.
// preRevision maps a commission year to the allowance accrued just before its reset.
func NewAllowanceTable(entries []AllowanceEntry, preRevision map[int]decimal.Decimal) (*AllowanceTable, error) {
	t := &AllowanceTable{
		entries:     append([]AllowanceEntry(nil), entries...),
		byPeriod:    make(map[HalfYear]int, len(entries)),
		preRevision: make(map[int]decimal.Decimal, len(preRevision)),
	}
	for i, e := range t.entries {
		if i > 0 && e.Period.Sub(t.entries[i-1].Period) != 1 {
			return nil, fmt.Errorf("allowance table not contiguous at %s", e.Period)
		}
		if e.Percent.IsNegative() {
			return nil, fmt.Errorf("allowance at %s is negative", e.Period)
		}
		t.byPeriod[e.Period] = i
	}
	for year, v := range preRevision {
		t.preRevision[year] = v
	}
	return t, nil
}

// Lookup returns the allowance percentage for a period.
func (t *AllowanceTable) Lookup(p HalfYear) (decimal.Decimal, error) {
	i, ok := t.byPeriod[p]
	if !ok {
		return decimal.Zero, fmt.Errorf("allowance for %s: %w", p, ErrNotFound)
	}
	return t.entries[i].Percent, nil
}

// PreRevision returns the allowance accrued immediately before the reset of a
// commission year.
func (t *AllowanceTable) PreRevision(year int) (decimal.Decimal, bool) {
	v, ok := t.preRevision[year]
	return v, ok
}

// Entries returns a copy of the timeline.
func (t *AllowanceTable) Entries() []AllowanceEntry {
	return append([]AllowanceEntry(nil), t.entries...)
}

func (t *AllowanceTable) Len() int { return len(t.entries) }
