package output

import (
	"bytes"
	_ "embed"
	"html/template"

	json "github.com/goccy/go-json"

	"github.com/pensioncalc/corpus-engine/internal/domain"
	"github.com/pensioncalc/corpus-engine/pkg/dateutil"
)

// HTMLFormatter produces a self-contained HTML report with a corpus chart.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string      { return "html" }
func (h HTMLFormatter) Extension() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatCurrency,
	"pct":  FormatPercentage,
	"date": dateutil.FormatDate,
	"json": func(v any) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
}).Parse(htmlTemplateSource))

// chartSeries is the per-scenario yearly corpus fed to the chart script.
type chartSeries struct {
	Label  string   `json:"label"`
	Years  []int    `json:"years"`
	Corpus []string `json:"corpus"`
}

func (h HTMLFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer

	series := make([]chartSeries, 0, len(results.Scenarios))
	for _, sc := range results.Scenarios {
		s := chartSeries{Label: sc.Name}
		for _, snap := range sc.Corpus.Yearly {
			s.Years = append(s.Years, snap.Year)
			s.Corpus = append(s.Corpus, snap.Value.StringFixed(0))
		}
		series = append(series, s)
	}

	data := struct {
		*domain.ScenarioComparison
		Recommendation Recommendation
		Assumptions    []string
		Series         []chartSeries
	}{results, AnalyzeScenarios(results), GenerateAssumptions(results.Assumptions), series}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
