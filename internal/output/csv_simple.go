package output

import (
	"bytes"
	"encoding/csv"
	"sort"

	"github.com/pensioncalc/corpus-engine/internal/domain"
)

// CSVSummarizer writes the yearly corpus trace, one row per scenario and year.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string      { return "csv" }
func (c CSVSummarizer) Extension() string { return "csv" }

func (c CSVSummarizer) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Scheme", "Strategy", "Year", "Contributions", "Returns", "Corpus"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sc := range sortedScenarios(results) {
		for _, snap := range sc.Corpus.Yearly {
			row := []string{
				sc.Name,
				string(sc.Scheme),
				string(sc.Strategy),
				intToString(snap.Year),
				snap.Contributions.StringFixed(2),
				snap.Returns.StringFixed(2),
				snap.Value.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func sortedScenarios(results *domain.ScenarioComparison) []domain.ScenarioResult {
	scenarios := append([]domain.ScenarioResult(nil), results.Scenarios...)
	sort.SliceStable(scenarios, func(i, j int) bool { return scenarios[i].Name < scenarios[j].Name })
	return scenarios
}
