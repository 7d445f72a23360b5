package calculation

import (
	"fmt"
	"time"

	"github.com/pensioncalc/corpus-engine/internal/domain"
	money "github.com/pensioncalc/corpus-engine/pkg/decimal"
	"github.com/pensioncalc/corpus-engine/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// SalaryConfig bounds the monthly salary series.
type SalaryConfig struct {
	JoinDate               time.Time
	RetirementDate         time.Time
	ProrateRetirementMonth bool
}

// SalaryProjector turns a trajectory and allowance table into half-year and
// monthly salary series.
type SalaryProjector struct{}

// Gross computes basic * (1 + allowance/100) for every trajectory slot,
// rounded to the nearest unit.
func (SalaryProjector) Gross(trajectory []domain.TrajectoryRecord, allowance *domain.AllowanceTable) ([]domain.HalfYearSalary, error) {
	out := make([]domain.HalfYearSalary, 0, len(trajectory))
	for _, rec := range trajectory {
		da, err := allowance.Lookup(rec.Period)
		if err != nil {
			return nil, fmt.Errorf("gross salary: %w", err)
		}
		out = append(out, domain.HalfYearSalary{
			Period:           rec.Period,
			BasicPay:         rec.BasicPay,
			AllowancePercent: da,
			Gross:            money.RoundUnit(rec.BasicPay.Mul(money.GrowthFactor(da))),
		})
	}
	return out, nil
}

// Monthly spreads each half-year salary over its six months as gross/12.
// Months outside the service window are zero. The joining month is prorated
// by days served; the retirement month only when cfg asks for it.
func (SalaryProjector) Monthly(salaries []domain.HalfYearSalary, cfg SalaryConfig) []domain.MonthlySalary {
	join := domain.YearMonthOf(cfg.JoinDate)
	retire := domain.YearMonthOf(cfg.RetirementDate)
	twelve := decimal.NewFromInt(12)

	out := make([]domain.MonthlySalary, 0, len(salaries)*6)
	for _, s := range salaries {
		monthly := s.Gross.Div(twelve)
		for _, ym := range s.Period.Months() {
			rec := domain.MonthlySalary{
				Period:      ym,
				Amount:      decimal.Zero,
				DaysInMonth: dateutil.DaysInMonth(ym.Year, ym.Month),
			}
			if ym.Before(join) || ym.After(retire) {
				out = append(out, rec)
				continue
			}
			rec.Employed = true
			rec.ServedDays = rec.DaysInMonth

			prorate := false
			if ym == join {
				prorate = true
				rec.ServedDays = rec.DaysInMonth - cfg.JoinDate.Day() + 1
				if ym == retire {
					rec.ServedDays = cfg.RetirementDate.Day() - cfg.JoinDate.Day() + 1
				}
			} else if ym == retire && cfg.ProrateRetirementMonth {
				prorate = true
				rec.ServedDays = cfg.RetirementDate.Day()
			}

			if prorate {
				rec.Amount = monthly.Mul(decimal.NewFromInt(int64(rec.ServedDays))).
					Div(decimal.NewFromInt(int64(rec.DaysInMonth))).Floor()
			} else {
				rec.Amount = monthly.RoundBank(2)
			}
			out = append(out, rec)
		}
	}
	return out
}
