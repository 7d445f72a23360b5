package output

import (
	"sort"

	"github.com/pensioncalc/corpus-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation encapsulates the selection result of the best scenario.
type Recommendation struct {
	ScenarioName     string
	FinalCorpus      decimal.Decimal
	AdjustedPension  decimal.Decimal
	RunnerUp         string
	CorpusAdvantage  decimal.Decimal
	PercentageChange decimal.Decimal
}

// AnalyzeScenarios ranks scenarios by final corpus and reports the lead of the
// best over the runner-up.
func AnalyzeScenarios(results *domain.ScenarioComparison) Recommendation {
	if results == nil || len(results.Scenarios) == 0 {
		return Recommendation{}
	}
	ranks := make([]*domain.ScenarioResult, len(results.Scenarios))
	for i := range results.Scenarios {
		ranks[i] = &results.Scenarios[i]
	}
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].Corpus.Final.GreaterThan(ranks[j].Corpus.Final) })

	best := ranks[0]
	rec := Recommendation{
		ScenarioName:    best.Name,
		FinalCorpus:     best.Corpus.Final,
		AdjustedPension: best.Benefits.AdjustedPension,
	}
	if len(ranks) > 1 {
		second := ranks[1]
		rec.RunnerUp = second.Name
		rec.CorpusAdvantage = best.Corpus.Final.Sub(second.Corpus.Final)
		if !second.Corpus.Final.IsZero() {
			rec.PercentageChange = rec.CorpusAdvantage.Div(second.Corpus.Final).Mul(decimal.NewFromInt(100))
		}
	}
	return rec
}
