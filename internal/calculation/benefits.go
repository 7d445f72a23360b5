package calculation

import (
	"fmt"
	"time"

	"github.com/pensioncalc/corpus-engine/internal/domain"
	money "github.com/pensioncalc/corpus-engine/pkg/decimal"
	"github.com/pensioncalc/corpus-engine/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Benefit formula constants.
const (
	// FullPensionServiceMonths is the service needed for an unreduced assured pension.
	FullPensionServiceMonths = 300
	// PensionAverageMonths is the number of final paid months averaged for the assured pension.
	PensionAverageMonths = 12
	// DefaultPensionYears is the length of the future pension schedule.
	DefaultPensionYears = 40
)

// BenefitConfig parameterizes the retirement benefit formulas.
type BenefitConfig struct {
	Scheme            domain.Scheme
	JoinDate          time.Time
	RetirementDate    time.Time
	WithdrawalPercent decimal.Decimal
	// AnnuityRate overrides the default of retirement-time inflation + 1.
	AnnuityRate  *decimal.Decimal
	PensionYears int
	Inflation    domain.RatePair
	TaperYears   int
	// Origin is the half-year at which the inflation taper starts.
	Origin domain.HalfYear
}

// Validate reports configuration problems of the benefit formulas.
func (c BenefitConfig) Validate() *domain.ConfigError {
	problems := &domain.ConfigError{}
	if c.WithdrawalPercent.IsNegative() || c.WithdrawalPercent.GreaterThan(decimal.NewFromInt(100)) {
		problems.Add(fmt.Sprintf("withdrawal percent must be between 0 and 100, got %s", c.WithdrawalPercent))
	}
	if c.AnnuityRate != nil && c.AnnuityRate.IsNegative() {
		problems.Add("annuity rate must not be negative")
	}
	if c.PensionYears < 0 {
		problems.Add("pension years must not be negative")
	}
	return problems
}

// CalculateUPSFullPension averages the last twelve paid months and scales the
// result by months served over 300 for shorter careers.
func CalculateUPSFullPension(salaries []domain.MonthlySalary, monthsServed int) decimal.Decimal {
	var paid []decimal.Decimal
	for _, m := range salaries {
		if m.Amount.IsPositive() {
			paid = append(paid, m.Amount)
		}
	}
	if len(paid) == 0 {
		return decimal.Zero
	}
	if len(paid) > PensionAverageMonths {
		paid = paid[len(paid)-PensionAverageMonths:]
	}
	avg := decimal.Sum(paid[0], paid[1:]...).Div(decimal.NewFromInt(int64(len(paid)))).Floor()
	if monthsServed < FullPensionServiceMonths {
		avg = avg.Mul(decimal.NewFromInt(int64(monthsServed))).Div(decimal.NewFromInt(FullPensionServiceMonths)).Floor()
	}
	return avg
}

// CalculateNPSFullPension converts the whole corpus at annuityRate into a monthly pension.
func CalculateNPSFullPension(corpus, annuityRate decimal.Decimal) decimal.Decimal {
	return money.ApplyPercent(corpus, annuityRate).Div(decimal.NewFromInt(12)).RoundBank(2)
}

// CalculateWithdrawal splits the benefit: withdrawn corpus and the pension left after withdrawal.
func CalculateWithdrawal(corpus, fullPension, withdrawalPercent decimal.Decimal) (withdrawn, adjusted decimal.Decimal) {
	withdrawn = money.ApplyPercent(corpus, withdrawalPercent).Floor()
	adjusted = money.ApplyPercent(fullPension, decimal.NewFromInt(100).Sub(withdrawalPercent)).Floor()
	return withdrawn, adjusted
}

// CalculateLumpsum pays a tenth of the highest monthly salary of the final
// calendar year for every six-month period of service.
func CalculateLumpsum(salaries []domain.MonthlySalary, join, retire time.Time) decimal.Decimal {
	if len(salaries) == 0 {
		return decimal.Zero
	}
	lastYear := salaries[len(salaries)-1].Period.Year
	highest := decimal.Zero
	for _, m := range salaries {
		if m.Period.Year == lastYear && m.Amount.GreaterThan(highest) {
			highest = m.Amount
		}
	}
	periods := decimal.NewFromInt(int64(dateutil.SixMonthPeriods(join, retire)))
	return highest.Div(decimal.NewFromInt(10)).Mul(periods).Floor()
}

// CalculateInflationFactor compounds the monthly tapered inflation over every
// paid month. The result is rounded to two places.
func CalculateInflationFactor(salaries []domain.MonthlySalary, curve RateTaperCurve, origin domain.HalfYear) decimal.Decimal {
	factor := decimal.NewFromInt(1)
	for _, m := range salaries {
		if !m.Amount.IsPositive() {
			continue
		}
		rate := curve.Rate(m.Period.HalfYear().Sub(origin))
		factor = factor.Mul(decimal.NewFromInt(1).Add(MonthlyRate(rate))).Round(12)
	}
	return factor.RoundBank(2)
}

// CalculateNPV discounts amount by an inflation factor.
func CalculateNPV(amount, inflationFactor decimal.Decimal) decimal.Decimal {
	if !inflationFactor.IsPositive() {
		return amount
	}
	return amount.Div(inflationFactor).Floor()
}

// CalculateAnnuityRate returns the configured annuity rate or, by default,
// the annual inflation rate in force at retirement plus one.
func CalculateAnnuityRate(cfg BenefitConfig) decimal.Decimal {
	if cfg.AnnuityRate != nil {
		return *cfg.AnnuityRate
	}
	curve := NewRateTaperCurve(cfg.Inflation, cfg.TaperYears*2)
	retire := domain.HalfYearOf(cfg.RetirementDate)
	return curve.Rate(retire.Sub(cfg.Origin)).Add(decimal.NewFromInt(1))
}

// CalculateFuturePension lists the monthly pension for each half-year after
// retirement. The assured pension grows by the retirement-time half-year
// inflation each period; the annuity pension stays flat.
func CalculateFuturePension(cfg BenefitConfig, adjusted decimal.Decimal) []domain.PensionInstallment {
	years := cfg.PensionYears
	if years == 0 {
		years = DefaultPensionYears
	}
	curve := NewRateTaperCurve(cfg.Inflation, cfg.TaperYears*2)
	retire := domain.HalfYearOf(cfg.RetirementDate)
	halfRate := curve.Rate(retire.Sub(cfg.Origin)).Div(decimal.NewFromInt(2))

	out := make([]domain.PensionInstallment, 0, years*2)
	for k := 1; k <= years*2; k++ {
		monthly := adjusted
		if cfg.Scheme == domain.SchemeUPS {
			monthly = adjusted.Mul(money.GrowthFactor(halfRate.Mul(decimal.NewFromInt(int64(k))))).Floor()
		}
		out = append(out, domain.PensionInstallment{Period: retire.Add(k - 1), Monthly: monthly})
	}
	return out
}

// CalculateBenefits derives every retirement amount of a scheme from the
// salary and corpus traces.
func CalculateBenefits(cfg BenefitConfig, salaries []domain.MonthlySalary, trace domain.CorpusTrace) (domain.BenefitSummary, error) {
	if err := cfg.Validate().ErrOrNil(); err != nil {
		return domain.BenefitSummary{}, err
	}
	summary := domain.BenefitSummary{
		Scheme:       cfg.Scheme,
		MonthsServed: dateutil.MonthsBetween(cfg.JoinDate, cfg.RetirementDate),
	}

	switch cfg.Scheme {
	case domain.SchemeUPS:
		summary.FullPension = CalculateUPSFullPension(salaries, summary.MonthsServed)
		summary.Lumpsum = CalculateLumpsum(salaries, cfg.JoinDate, cfg.RetirementDate)
	case domain.SchemeNPS:
		summary.AnnuityRate = CalculateAnnuityRate(cfg)
		summary.FullPension = CalculateNPSFullPension(trace.Final, summary.AnnuityRate)
		summary.Lumpsum = decimal.Zero
	default:
		return domain.BenefitSummary{}, fmt.Errorf("unknown pension scheme %q", cfg.Scheme)
	}

	summary.WithdrawnCorpus, summary.AdjustedPension = CalculateWithdrawal(trace.Final, summary.FullPension, cfg.WithdrawalPercent)

	curve := NewRateTaperCurve(cfg.Inflation, cfg.TaperYears*2)
	summary.InflationFactor = CalculateInflationFactor(salaries, curve, cfg.Origin)
	summary.CorpusNPV = CalculateNPV(trace.Final, summary.InflationFactor)

	xirr, err := CorpusXIRR(trace)
	if err != nil {
		return domain.BenefitSummary{}, fmt.Errorf("xirr: %w", err)
	}
	summary.XIRR = xirr
	summary.FuturePension = CalculateFuturePension(cfg, summary.AdjustedPension)
	return summary, nil
}
