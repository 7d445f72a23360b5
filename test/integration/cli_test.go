package integration

import (
	"bytes"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/pensioncalc/corpus-engine/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONReportCarriesFullTrace(t *testing.T) {
	results := runFixture(t, nil)

	var buf bytes.Buffer
	require.NoError(t, output.Render(&buf, results, "json"))

	var decoded struct {
		RunID     string `json:"run_id"`
		Employee  struct {
			Name string `json:"name"`
		} `json:"employee"`
		Scenarios []struct {
			Name       string `json:"name"`
			Scheme     string `json:"scheme"`
			Trajectory []struct {
				Period   string `json:"period"`
				Level    string `json:"level"`
				PayScale string `json:"pay_scale"`
			} `json:"trajectory"`
			MonthlySalaries []struct {
				Period string `json:"period"`
			} `json:"monthly_salaries"`
			Corpus struct {
				Final string `json:"final"`
			} `json:"corpus"`
			Benefits struct {
				XIRR string `json:"xirr_percent"`
			} `json:"benefits"`
		} `json:"scenarios"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, results.RunID.String(), decoded.RunID)
	assert.Equal(t, "Integration Officer", decoded.Employee.Name)
	require.Len(t, decoded.Scenarios, len(results.Scenarios))
	for i, sc := range decoded.Scenarios {
		want := results.Scenarios[i]
		assert.Equal(t, want.Name, sc.Name)
		assert.Equal(t, string(want.Scheme), sc.Scheme)
		assert.Len(t, sc.Trajectory, len(want.Trajectory))
		assert.Equal(t, "2020.0", sc.Trajectory[0].Period)
		assert.Equal(t, "7th_CPC", sc.Trajectory[0].PayScale)
		assert.Equal(t, "2020-01", sc.MonthlySalaries[0].Period)
		assert.Equal(t, want.Corpus.Final.String(), sc.Corpus.Final)
		assert.Equal(t, want.Benefits.XIRR.String(), sc.Benefits.XIRR)
	}
}

func TestConsoleReportListsEveryScenario(t *testing.T) {
	results := runFixture(t, nil)

	var buf bytes.Buffer
	require.NoError(t, output.Render(&buf, results, "text"))
	for _, sc := range results.Scenarios {
		assert.Contains(t, buf.String(), sc.Name+":")
	}
	best, ok := results.Best()
	require.True(t, ok)
	assert.Contains(t, buf.String(), "Recommended: "+best.Name)
}
