package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pensioncalc/corpus-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `employee:
  name: Test Officer
  date_of_birth: 15/05/2000
  date_of_joining: 10-Oct-2024
career:
  starting_level: "10"
  starting_step: 1
  track: IAS
  promotions: [4, 5, 4]
pay_commissions:
  years: [2026, 2036]
  raise_percent: 15
assumptions:
  taper_years: 40
  inflation: {initial: 7, final: 4}
  growth_return: {initial: 12, final: 6}
  medium_return: {initial: 8, final: 4}
  safe_return: {initial: 8, final: 4}
investment:
  strategies: [standard, lc50]
  existing_corpus:
    amount: 250000.50
    cutover_date: 01/04/2025
schemes:
  - scheme: ups
  - scheme: NPS
    contributions:
      - {name: employee, percent: 10}
      - {name: government, percent: 18.5}
benefits:
  withdrawal_percent: 60
  pension_years: 25
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
}

func TestLoadFromFile_Success(t *testing.T) {
	config, err := NewInputParser().LoadFromFile(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "Test Officer", config.Employee.Name)
	assert.True(t, config.Employee.BirthDate.Equal(time.Date(2000, time.May, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, config.Employee.JoiningDate.Equal(time.Date(2024, time.October, 10, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t, domain.TrackIAS, config.Career.Track)
	assert.Equal(t, []int{4, 5, 4}, config.Career.Promotions)
	assert.True(t, config.PayCommissions.RaisePercent.Equal(decimal.NewFromInt(15)))
	assert.Empty(t, config.PayCommissions.FitmentFactors)

	assert.Equal(t, []domain.Strategy{domain.StrategyStandard, domain.StrategyAutoLC50}, config.Investment.Strategies)
	require.NotNil(t, config.Investment.ExistingCorpus)
	assert.Equal(t, "250000.5", config.Investment.ExistingCorpus.Amount.String())
	assert.Equal(t, time.April, config.Investment.ExistingCorpus.CutoverDate.Month())

	require.Len(t, config.Schemes, 2)
	assert.Equal(t, domain.SchemeUPS, config.Schemes[0].Scheme)
	assert.Len(t, config.Schemes[0].EffectiveContributions(), 2)
	assert.Equal(t, "18.5", config.Schemes[1].Contributions[1].Percent.String())

	assert.True(t, config.Assumptions.Growth.Initial.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, 25, config.Benefits.PensionYears)
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	config, err := NewInputParser().LoadFromFile("nonexistent_file.yaml")
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadFromFile_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed yaml", "employee: [unclosed", "failed to parse YAML"},
		{"unknown strategy", "investment:\n  strategies: [aggressive]\n", "invalid investment strategy"},
		{"unknown scheme", "schemes:\n  - scheme: GPF\n", "unknown pension scheme"},
		{"unsupported date", "employee:\n  date_of_birth: 2000/15/05\n", "unsupported date"},
		{"bad corpus amount", "investment:\n  existing_corpus:\n    amount: lots\n", "existing corpus amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInputParser().LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateConfiguration_CollectsEveryProblem(t *testing.T) {
	parser := NewInputParser()
	config := parser.CreateExampleConfiguration()
	config.Career.StartingStep = 0
	config.Career.Track = domain.CareerTrack("fast")
	config.Assumptions.TaperYears = 0
	config.Investment.Strategies = nil
	config.PayCommissions.FitmentFactors = config.PayCommissions.FitmentFactors[:2]
	config.Employee.EarlyRetirement = true

	err := parser.ValidateConfiguration(config)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidConfig))

	var cfgErr *domain.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Len(t, cfgErr.Problems, 6)

	msg := err.Error()
	assert.Contains(t, msg, "career.starting_step must be at least 1, got 0")
	assert.Contains(t, msg, "career.track must be one of [standard ias], got fast")
	assert.Contains(t, msg, "assumptions.taper_years must be at least 1")
	assert.Contains(t, msg, "investment.strategies is required")
	assert.Contains(t, msg, "fitment factors (2) must match pay commission years (5)")
	assert.Contains(t, msg, "early retirement requires a retirement date")
}

func TestValidateConfiguration_Schemes(t *testing.T) {
	parser := NewInputParser()

	config := parser.CreateExampleConfiguration()
	config.Schemes = nil
	assert.ErrorContains(t, parser.ValidateConfiguration(config), "schemes is required")

	config = parser.CreateExampleConfiguration()
	config.Schemes = append(config.Schemes, domain.SchemeSettings{
		Scheme:        domain.SchemeUPS,
		Contributions: []domain.ContributionClass{{Percent: decimal.NewFromInt(5)}},
	})
	err := parser.ValidateConfiguration(config)
	assert.ErrorContains(t, err, "schemes[2].contributions[0].name is required")
	assert.ErrorContains(t, err, "scheme UPS listed more than once")

	assert.ErrorIs(t, parser.ValidateConfiguration(nil), domain.ErrInvalidConfig)
}

func TestCreateExampleConfiguration(t *testing.T) {
	parser := NewInputParser()
	config := parser.CreateExampleConfiguration()

	require.NoError(t, parser.ValidateConfiguration(config))
	assert.Equal(t, []int{2026, 2036, 2046, 2056, 2066}, config.PayCommissions.Years)
	assert.Len(t, config.PayCommissions.FitmentFactors, 5)
	assert.Equal(t, []int{4, 5, 4, 1, 4, 7, 5, 3}, config.Career.Promotions)
	assert.Equal(t, 40, config.Assumptions.TaperYears)
	assert.Equal(t, []domain.Strategy{domain.StrategyStandard}, config.Investment.Strategies)
	assert.Len(t, config.Schemes, 2)
}

func TestSaveConfiguration_RoundTrip(t *testing.T) {
	parser := NewInputParser()
	original := parser.CreateExampleConfiguration()
	amount := decimal.NewFromInt(150000)
	cutover := domain.NewDate(2025, time.April, 1)
	original.Investment.ExistingCorpus = &domain.ExistingCorpus{Amount: &amount, CutoverDate: &cutover}

	path := filepath.Join(t.TempDir(), "example.yaml")
	require.NoError(t, parser.SaveConfiguration(original, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "date_of_birth: 15/05/2000")

	loaded, err := parser.LoadFromFile(path)
	require.NoError(t, err)

	assert.True(t, loaded.Employee.BirthDate.Equal(original.Employee.BirthDate.Time))
	assert.True(t, loaded.Employee.JoiningDate.Equal(original.Employee.JoiningDate.Time))
	assert.Equal(t, original.Career, loaded.Career)
	assert.Equal(t, original.PayCommissions.Years, loaded.PayCommissions.Years)
	require.Len(t, loaded.PayCommissions.FitmentFactors, 5)
	for i, ff := range loaded.PayCommissions.FitmentFactors {
		assert.True(t, ff.Equal(original.PayCommissions.FitmentFactors[i]), "factor %d", i)
	}
	assert.True(t, loaded.Assumptions.Inflation.Final.Equal(decimal.NewFromInt(4)))
	assert.True(t, loaded.Investment.ExistingCorpus.Amount.Equal(amount))
	assert.True(t, loaded.Investment.ExistingCorpus.CutoverDate.Equal(cutover.Time))
	assert.Equal(t, original.Investment.Strategies, loaded.Investment.Strategies)
	assert.Equal(t, original.Benefits.PensionYears, loaded.Benefits.PensionYears)
}

func TestSaveConfiguration_BadPath(t *testing.T) {
	parser := NewInputParser()
	err := parser.SaveConfiguration(parser.CreateExampleConfiguration(), filepath.Join(t.TempDir(), "missing", "x.yaml"))
	assert.Error(t, err)
}
