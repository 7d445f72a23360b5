package calculation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pensioncalc/corpus-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(y int, m time.Month, amount string) domain.MonthlySalary {
	return domain.MonthlySalary{
		Period:   domain.YearMonth{Year: y, Month: m},
		Amount:   decimal.RequireFromString(amount),
		Employed: amount != "0",
	}
}

func zeroReturnCorpus() CorpusConfig {
	return CorpusConfig{
		BirthDate:     date(2000, time.May, 15),
		JoinDate:      date(2024, time.October, 10),
		Strategy:      domain.StrategyStandard,
		Contributions: domain.SchemeUPS.DefaultContributions(),
		TaperYears:    40,
	}
}

func TestCorpusZeroReturnsEqualsContributions(t *testing.T) {
	salaries := []domain.MonthlySalary{
		month(2024, time.September, "0"),
		month(2024, time.October, "5076"),
		month(2024, time.November, "7152.75"),
		month(2024, time.December, "7152.75"),
		month(2025, time.January, "7000"),
	}
	trace, err := NewCorpusGrowthSimulator(nil).Simulate(salaries, zeroReturnCorpus())
	require.NoError(t, err)

	require.Len(t, trace.Months, 4)
	assert.Equal(t, "1015.2", trace.Months[0].Contribution.String())
	// 715.275 per class rounds half-even to 715.28
	assert.Equal(t, "1430.56", trace.Months[1].Contribution.String())
	assert.Equal(t, 24, trace.Months[0].Age)

	assert.Equal(t, "5276.32", trace.Final.String())
	assert.True(t, trace.Final.Equal(trace.TotalContributions))

	require.Len(t, trace.Yearly, 2)
	assert.Equal(t, 2024, trace.Yearly[0].Year)
	assert.Equal(t, "3876.32", trace.Yearly[0].Value.String())
	assert.True(t, trace.Yearly[0].Returns.IsZero())
	assert.Equal(t, 2025, trace.Yearly[1].Year)
	assert.Equal(t, "1400", trace.Yearly[1].Contributions.String())
}

func TestCorpusSeedAndCompounding(t *testing.T) {
	cfg := zeroReturnCorpus()
	flat := domain.RatePair{Initial: decimal.NewFromInt(12), Final: decimal.NewFromInt(12)}
	cfg.Growth, cfg.Medium, cfg.Safe = flat, flat, flat
	cfg.Contributions = []domain.ContributionClass{{Name: "none", Percent: decimal.Zero}}
	seed := decimal.NewFromInt(100000)
	cutover := date(2025, time.January, 1)
	cfg.Seed, cfg.CutoverDate = &seed, &cutover

	salaries := []domain.MonthlySalary{
		month(2024, time.November, "7000"),
		month(2024, time.December, "7000"),
		month(2025, time.January, "7000"),
		month(2025, time.February, "7000"),
		month(2025, time.March, "7000"),
	}
	trace, err := NewCorpusGrowthSimulator(nil).Simulate(salaries, cfg)
	require.NoError(t, err)

	require.Len(t, trace.Months, 3, "months before the cutover are skipped")
	assert.Equal(t, cutover, trace.SeedDate)
	assert.True(t, trace.Seed.Equal(seed))
	// 100000 * 1.12^(3/12)
	assert.InDelta(t, 102873.74, trace.Final.InexactFloat64(), 0.05)
	assert.True(t, trace.Yearly[0].Returns.IsPositive())
}

func TestCorpusValidation(t *testing.T) {
	cfg := zeroReturnCorpus()
	seed := decimal.NewFromInt(1000)
	cfg.Seed = &seed
	cfg.Contributions = nil
	cfg.Strategy = domain.Strategy("aggressive")

	_, err := NewCorpusGrowthSimulator(nil).Simulate(nil, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidConfig))
	assert.Contains(t, err.Error(), "both an amount and a cutover date")
	assert.Contains(t, err.Error(), "at least one contribution class")
	assert.Contains(t, err.Error(), "invalid investment strategy")
}

func TestCorpusAgeOutOfRange(t *testing.T) {
	cfg := zeroReturnCorpus()
	cfg.BirthDate = date(1960, time.January, 1)

	_, err := NewCorpusGrowthSimulator(nil).Simulate([]domain.MonthlySalary{month(2024, time.October, "5000")}, cfg)
	assert.ErrorIs(t, err, domain.ErrAgeOutOfRange)
}

func TestCorpusValidationAgeWindow(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CorpusConfig)
		problem string
	}{
		{
			name:    "joins before eighteen",
			mutate:  func(c *CorpusConfig) { c.BirthDate = date(2007, time.March, 1) },
			problem: "age 17 at 2024-10 is below the minimum investing age 18",
		},
		{
			name: "retires after sixty",
			mutate: func(c *CorpusConfig) {
				c.BirthDate = date(1970, time.January, 10)
				c.RetirementDate = date(2031, time.June, 30)
			},
			problem: "age 61 at retirement in 2031-06 is above the maximum investing age 60",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := zeroReturnCorpus()
			tt.mutate(&cfg)

			_, err := NewCorpusGrowthSimulator(nil).Simulate([]domain.MonthlySalary{month(2024, time.October, "5000")}, cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.problem)
		})
	}
}

func TestCorpusValidationUsesCutoverMonth(t *testing.T) {
	cfg := zeroReturnCorpus()
	cfg.BirthDate = date(2007, time.March, 1)
	seed := decimal.NewFromInt(1000)
	cutover := date(2025, time.April, 1)
	cfg.Seed, cfg.CutoverDate = &seed, &cutover
	cfg.RetirementDate = date(2067, time.March, 31)

	assert.Empty(t, cfg.Validate().Problems)
}

func TestScenarioRejectsUnderageJoinBeforeRunning(t *testing.T) {
	cfg := testConfiguration()
	cfg.Employee.BirthDate = domain.NewDate(2008, time.January, 20)

	inputs, err := BuildScenarioInputs(cfg)
	require.NoError(t, err)

	_, err = newTestEngine(t).RunScenario(context.Background(), inputs[0])
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.NotErrorIs(t, err, domain.ErrAgeOutOfRange)
	assert.Contains(t, err.Error(), "below the minimum investing age 18")
}

func TestRateTaperCurve(t *testing.T) {
	curve := RateTaperCurve{Initial: decimal.NewFromInt(12), Final: decimal.NewFromInt(6), Periods: 40}

	assert.Equal(t, "12", curve.Rate(-3).String())
	assert.Equal(t, "12", curve.Rate(0).String())
	assert.Equal(t, "9", curve.Rate(20).String())
	assert.Equal(t, "11.85", curve.Rate(1).String())
	assert.Equal(t, "6", curve.Rate(40).String())
	assert.Equal(t, "6", curve.Rate(100).String())
	assert.Len(t, curve.Points(), 41)

	assert.True(t, MonthlyRate(decimal.Zero).IsZero())
	assert.InDelta(t, 0.0094887929, MonthlyRate(decimal.NewFromInt(12)).InexactFloat64(), 1e-9)
}
