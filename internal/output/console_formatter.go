package output

import (
	"bytes"
	"fmt"

	"github.com/pensioncalc/corpus-engine/internal/domain"
	"github.com/pensioncalc/corpus-engine/pkg/dateutil"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string      { return "console" }
func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "PENSION CORPUS SIMULATION SUMMARY")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Run: %s (%s)\n", results.RunID, results.GeneratedAt.Format("2006-01-02 15:04"))
	if len(results.Scenarios) > 0 {
		first := results.Scenarios[0]
		fmt.Fprintf(&buf, "Service: %s to %s\n", dateutil.FormatDate(first.JoiningDate), dateutil.FormatDate(first.RetirementDate))
	}
	fmt.Fprintln(&buf)

	for _, sc := range results.Scenarios {
		fmt.Fprintf(&buf, "%s: FinalCorpus=%s Contributions=%s XIRR=%s\n",
			sc.Name,
			FormatCurrency(sc.Corpus.Final),
			FormatCurrency(sc.Corpus.TotalContributions),
			FormatPercentage(sc.Benefits.XIRR),
		)
		fmt.Fprintf(&buf, "  Pension=%s Adjusted=%s Withdrawn=%s Lumpsum=%s\n",
			FormatCurrency(sc.Benefits.FullPension),
			FormatCurrency(sc.Benefits.AdjustedPension),
			FormatCurrency(sc.Benefits.WithdrawnCorpus),
			FormatCurrency(sc.Benefits.Lumpsum),
		)
		if final, ok := sc.FinalRecord(); ok {
			fmt.Fprintf(&buf, "  FinalLevel=%s Step=%d BasicPay=%s Promotions=%d\n",
				final.Level, final.Step, FormatCurrency(final.BasicPay), sc.Promotions())
		}
	}

	rec := AnalyzeScenarios(results)
	if rec.ScenarioName != "" {
		fmt.Fprintln(&buf)
		if rec.RunnerUp == "" {
			fmt.Fprintf(&buf, "Recommended: %s\n", rec.ScenarioName)
		} else {
			fmt.Fprintf(&buf, "Recommended: %s (Δ %s / %s over %s)\n", rec.ScenarioName, FormatCurrency(rec.CorpusAdvantage), FormatPercentage(rec.PercentageChange), rec.RunnerUp)
		}
	}
	return buf.Bytes(), nil
}
