package output

import (
	"fmt"

	"github.com/pensioncalc/corpus-engine/internal/domain"
)

// StandingAssumptions are modeling rules that hold for every run.
var StandingAssumptions = []string{
	"Dearness allowance resets to zero at each pay commission and accrues half the annual inflation rate per half-year",
	"Annual increment on 1 July, promotions and pay commissions on 1 January",
	"Joining month paid pro rata for the days served",
	"Monthly returns compound as (1 + annual)^(1/12) - 1",
}

// GenerateAssumptions creates dynamic assumptions list from actual config values
func GenerateAssumptions(a domain.Assumptions) []string {
	taper := func(label string, r domain.RatePair) string {
		return fmt.Sprintf("%s: %s tapering to %s over %d years", label, FormatPercentage(r.Initial), FormatPercentage(r.Final), a.TaperYears)
	}
	out := []string{
		taper("Inflation", a.Inflation),
		taper("Growth asset (E) return", a.Growth),
		taper("Medium asset (C) return", a.Medium),
		taper("Safe asset (G) return", a.Safe),
	}
	return append(out, StandingAssumptions...)
}
