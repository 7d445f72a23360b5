package output

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/pensioncalc/corpus-engine/internal/domain"
)

// CSVDetailedExporter writes the half-year career trajectory joined with the
// salary computed for each slot.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string      { return "csv-detailed" }
func (c CSVDetailedExporter) Extension() string { return "csv" }

func (c CSVDetailedExporter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Period", "Level", "Step", "BasicPay", "PayScale", "ServiceYears", "AllowancePercent", "Gross", "Transitions"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sc := range sortedScenarios(results) {
		salaries := make(map[domain.HalfYear]domain.HalfYearSalary, len(sc.HalfYearSalaries))
		for _, s := range sc.HalfYearSalaries {
			salaries[s.Period] = s
		}
		for _, rec := range sc.Trajectory {
			salary := salaries[rec.Period]
			transitions := make([]string, len(rec.Transitions))
			for i, t := range rec.Transitions {
				transitions[i] = string(t)
			}
			row := []string{
				sc.Name,
				rec.Period.String(),
				rec.Level,
				intToString(rec.Step),
				rec.BasicPay.String(),
				rec.PayScale,
				rec.YearsOfService().StringFixed(1),
				salary.AllowancePercent.StringFixed(2),
				salary.Gross.String(),
				strings.Join(transitions, "+"),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
