package calculation

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/pensioncalc/corpus-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalaryGross(t *testing.T) {
	allowance, err := domain.NewAllowanceTable([]domain.AllowanceEntry{
		{Period: hy(2024, domain.H2), Percent: decimal.NewFromInt(53)},
		{Period: hy(2025, domain.H1), Percent: decimal.RequireFromString("3.5")},
	}, nil)
	require.NoError(t, err)

	trajectory := []domain.TrajectoryRecord{
		{Period: hy(2024, domain.H2), BasicPay: pay(56100)},
		{Period: hy(2025, domain.H1), BasicPay: pay(56100)},
	}
	gross, err := SalaryProjector{}.Gross(trajectory, allowance)
	require.NoError(t, err)
	require.Len(t, gross, 2)

	assert.Equal(t, "85833", gross[0].Gross.String())
	// 56100 * 1.035 = 58063.5 rounds half-even to 58064
	assert.Equal(t, "58064", gross[1].Gross.String())

	_, err = SalaryProjector{}.Gross([]domain.TrajectoryRecord{{Period: hy(2030, domain.H1)}}, allowance)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSalaryMonthlyProratesJoiningMonth(t *testing.T) {
	salaries := []domain.HalfYearSalary{{Period: hy(2024, domain.H2), Gross: pay(85833)}}
	monthly := SalaryProjector{}.Monthly(salaries, SalaryConfig{
		JoinDate:       date(2024, time.October, 10),
		RetirementDate: date(2060, time.May, 31),
	})
	require.Len(t, monthly, 6)

	for _, m := range monthly[:3] {
		assert.False(t, m.Employed, "%s", m.Period)
		assert.True(t, m.Amount.IsZero())
	}

	oct := monthly[3]
	assert.True(t, oct.Employed)
	assert.Equal(t, 22, oct.ServedDays)
	assert.Equal(t, 31, oct.DaysInMonth)
	// floor(7152.75 * 22 / 31)
	assert.Equal(t, "5076", oct.Amount.String())

	assert.Equal(t, "7152.75", monthly[4].Amount.String())
	assert.Equal(t, "7152.75", monthly[5].Amount.String())
}

func TestSalaryMonthlyRetirementMonth(t *testing.T) {
	salaries := []domain.HalfYearSalary{{Period: hy(2060, domain.H1), Gross: pay(120000)}}
	cfg := SalaryConfig{
		JoinDate:       date(2024, time.October, 10),
		RetirementDate: date(2060, time.April, 15),
	}

	full := SalaryProjector{}.Monthly(salaries, cfg)
	assert.Equal(t, "10000", full[3].Amount.String())
	assert.False(t, full[4].Employed)
	assert.True(t, full[5].Amount.IsZero())

	cfg.ProrateRetirementMonth = true
	prorated := SalaryProjector{}.Monthly(salaries, cfg)
	assert.Equal(t, 15, prorated[3].ServedDays)
	assert.Equal(t, "5000", prorated[3].Amount.String())
}

func TestSalaryMonthlyJoinAndRetireSameMonth(t *testing.T) {
	salaries := []domain.HalfYearSalary{{Period: hy(2025, domain.H1), Gross: pay(36000)}}
	monthly := SalaryProjector{}.Monthly(salaries, SalaryConfig{
		JoinDate:       date(2025, time.June, 1),
		RetirementDate: date(2025, time.June, 10),
	})
	june := monthly[5]
	assert.Equal(t, 10, june.ServedDays)
	assert.Equal(t, "1000", june.Amount.String())
}

func TestSalaryZeroOutsideServiceWindow(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("months outside [join, retirement] are zero", prop.ForAll(
		func(joinOffset, tenure int) bool {
			join := date(2020, time.January, 1).AddDate(0, 0, joinOffset)
			retire := join.AddDate(0, tenure, 0)
			first, last := ServiceWindow(join, retire)

			var salaries []domain.HalfYearSalary
			for p := first; !p.After(last); p = p.Next() {
				salaries = append(salaries, domain.HalfYearSalary{Period: p, Gross: pay(60000)})
			}
			joinMonth, retireMonth := domain.YearMonthOf(join), domain.YearMonthOf(retire)
			for _, m := range (SalaryProjector{}).Monthly(salaries, SalaryConfig{JoinDate: join, RetirementDate: retire}) {
				outside := m.Period.Before(joinMonth) || m.Period.After(retireMonth)
				if outside && (!m.Amount.IsZero() || m.Employed) {
					return false
				}
				if !outside && m.Amount.IsZero() {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 400),
		gen.IntRange(1, 60),
	))

	properties.TestingRun(t)
}
