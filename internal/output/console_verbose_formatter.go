package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pensioncalc/corpus-engine/internal/domain"
	"github.com/pensioncalc/corpus-engine/pkg/dateutil"
)

// futurePensionPreview is how many post-retirement half-years the verbose report lists.
const futurePensionPreview = 6

// ConsoleVerboseFormatter renders the detailed console report via the pluggable interface.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string      { return "console-verbose" }
func (c ConsoleVerboseFormatter) Extension() string { return "txt" }

func (c ConsoleVerboseFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf, "DETAILED PENSION CORPUS ANALYSIS")
	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Run ID:        %s\n", results.RunID)
	fmt.Fprintf(&buf, "Employee:      %s\n", orDash(results.Employee.Name))
	if !results.Employee.BirthDate.IsZero() {
		fmt.Fprintf(&buf, "Date of birth: %s\n", dateutil.FormatDate(results.Employee.BirthDate.Time))
	}
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range GenerateAssumptions(results.Assumptions) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	for i, scenario := range results.Scenarios {
		fmt.Fprintf(&buf, "SCENARIO %d: %s\n", i+1, scenario.Name)
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		fmt.Fprintf(&buf, "Service: %s to %s (%d months)\n",
			dateutil.FormatDate(scenario.JoiningDate), dateutil.FormatDate(scenario.RetirementDate), scenario.Benefits.MonthsServed)
		fmt.Fprintln(&buf)

		writeCareerEvents(&buf, scenario)
		writeYearlyCorpus(&buf, scenario)
		writeBenefits(&buf, scenario)
		fmt.Fprintln(&buf)
	}

	rec := AnalyzeScenarios(results)
	if rec.ScenarioName != "" {
		fmt.Fprintln(&buf, "SUMMARY & RECOMMENDATIONS")
		fmt.Fprintln(&buf, "=========================")
		fmt.Fprintf(&buf, "Best scenario: %s\n", rec.ScenarioName)
		fmt.Fprintf(&buf, "Final corpus:  %s\n", FormatCurrency(rec.FinalCorpus))
		if rec.RunnerUp != "" {
			fmt.Fprintf(&buf, "Lead over %s: %s (%s)\n", rec.RunnerUp, FormatCurrency(rec.CorpusAdvantage), FormatPercentage(rec.PercentageChange))
		}
	}

	return buf.Bytes(), nil
}

// writeCareerEvents lists the slots where a promotion or pay commission happened.
func writeCareerEvents(buf *bytes.Buffer, scenario domain.ScenarioResult) {
	fmt.Fprintln(buf, "CAREER EVENTS:")
	fmt.Fprintln(buf, "----------------------------------------")
	fmt.Fprintf(buf, "  %-8s %-6s %-5s %-16s %s\n", "Period", "Level", "Step", "Basic Pay", "Event")
	events := 0
	for _, rec := range scenario.Trajectory {
		if !rec.Has(domain.TransitionPromotion) && !rec.Has(domain.TransitionPayCommission) {
			continue
		}
		names := make([]string, 0, len(rec.Transitions))
		for _, t := range rec.Transitions {
			switch t {
			case domain.TransitionPayCommission:
				names = append(names, "pay commission ("+rec.PayScale+")")
			case domain.TransitionPromotion:
				names = append(names, "promotion")
			}
		}
		fmt.Fprintf(buf, "  %-8s %-6s %-5d %-16s %s\n", rec.Period, rec.Level, rec.Step, FormatCurrency(rec.BasicPay), strings.Join(names, " + "))
		events++
	}
	if events == 0 {
		fmt.Fprintln(buf, "  (increments only)")
	}
	fmt.Fprintln(buf)
}

func writeYearlyCorpus(buf *bytes.Buffer, scenario domain.ScenarioResult) {
	fmt.Fprintln(buf, "YEARLY CORPUS:")
	fmt.Fprintln(buf, "----------------------------------------")
	fmt.Fprintf(buf, "  %-6s %20s %20s %20s\n", "Year", "Contributions", "Returns", "Corpus")
	for _, snap := range scenario.Corpus.Yearly {
		fmt.Fprintf(buf, "  %-6d %20s %20s %20s\n", snap.Year,
			FormatCurrency(snap.Contributions), FormatCurrency(snap.Returns), FormatCurrency(snap.Value))
	}
	fmt.Fprintln(buf)
}

func writeBenefits(buf *bytes.Buffer, scenario domain.ScenarioResult) {
	b := scenario.Benefits
	fmt.Fprintln(buf, "RETIREMENT BENEFITS:")
	fmt.Fprintln(buf, "----------------------------------------")
	fmt.Fprintf(buf, "  Final corpus:           %s\n", FormatCurrency(scenario.Corpus.Final))
	fmt.Fprintf(buf, "  Total contributions:    %s\n", FormatCurrency(scenario.Corpus.TotalContributions))
	fmt.Fprintf(buf, "  XIRR:                   %s\n", FormatPercentage(b.XIRR))
	fmt.Fprintf(buf, "  Full monthly pension:   %s\n", FormatCurrency(b.FullPension))
	if b.Scheme == domain.SchemeNPS {
		fmt.Fprintf(buf, "  Annuity rate:           %s\n", FormatPercentage(b.AnnuityRate))
	}
	fmt.Fprintf(buf, "  Withdrawn corpus:       %s\n", FormatCurrency(b.WithdrawnCorpus))
	fmt.Fprintf(buf, "  Adjusted pension:       %s\n", FormatCurrency(b.AdjustedPension))
	fmt.Fprintf(buf, "  Lumpsum:                %s\n", FormatCurrency(b.Lumpsum))
	fmt.Fprintf(buf, "  Inflation factor:       %s\n", b.InflationFactor.StringFixed(2))
	fmt.Fprintf(buf, "  Corpus in today's money: %s\n", FormatCurrency(b.CorpusNPV))

	if len(b.FuturePension) > 0 {
		fmt.Fprintln(buf, "  Pension after retirement:")
		for _, inst := range b.FuturePension[:min(len(b.FuturePension), futurePensionPreview)] {
			fmt.Fprintf(buf, "    %-8s %s\n", inst.Period, FormatCurrency(inst.Monthly))
		}
		if len(b.FuturePension) > futurePensionPreview {
			last := b.FuturePension[len(b.FuturePension)-1]
			fmt.Fprintf(buf, "    ...\n    %-8s %s\n", last.Period, FormatCurrency(last.Monthly))
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
