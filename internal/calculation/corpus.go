package calculation

import (
	"fmt"
	"time"

	"github.com/pensioncalc/corpus-engine/internal/domain"
	money "github.com/pensioncalc/corpus-engine/pkg/decimal"
	"github.com/pensioncalc/corpus-engine/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// CorpusConfig is the input of the compounding simulation.
type CorpusConfig struct {
	BirthDate      time.Time
	JoinDate       time.Time
	RetirementDate time.Time
	Strategy       domain.Strategy
	Contributions []domain.ContributionClass
	TaperYears    int
	Growth        domain.RatePair
	Medium        domain.RatePair
	Safe          domain.RatePair
	// Seed and CutoverDate are set together or not at all.
	Seed        *decimal.Decimal
	CutoverDate *time.Time
}

// Validate reports configuration problems of the corpus simulation.
func (c CorpusConfig) Validate() *domain.ConfigError {
	problems := &domain.ConfigError{}
	if (c.Seed == nil) != (c.CutoverDate == nil) {
		problems.Add("existing corpus requires both an amount and a cutover date")
	}
	if c.Seed != nil && c.Seed.IsNegative() {
		problems.Add("existing corpus amount must not be negative")
	}
	if len(c.Contributions) == 0 {
		problems.Add("at least one contribution class is required")
	}
	for _, cc := range c.Contributions {
		if cc.Percent.IsNegative() {
			problems.Add(fmt.Sprintf("contribution %q must not be negative", cc.Name))
		}
	}
	if _, err := glidePathFor(c.Strategy); err != nil {
		problems.Add(err.Error())
	}
	if !c.BirthDate.IsZero() {
		if first := c.firstMonth(); first != (domain.YearMonth{}) {
			if age := dateutil.Age(c.BirthDate, first.End()); age < MinAllocationAge {
				problems.Add(fmt.Sprintf("age %d at %s is below the minimum investing age %d", age, first, MinAllocationAge))
			}
		}
		if !c.RetirementDate.IsZero() {
			last := domain.YearMonthOf(c.RetirementDate)
			if age := dateutil.Age(c.BirthDate, last.End()); age > MaxAllocationAge {
				problems.Add(fmt.Sprintf("age %d at retirement in %s is above the maximum investing age %d", age, last, MaxAllocationAge))
			}
		}
	}
	return problems
}

// firstMonth is the first month that can contribute: the joining month, or the
// cutover month when that is later.
func (c CorpusConfig) firstMonth() domain.YearMonth {
	var first domain.YearMonth
	if !c.JoinDate.IsZero() {
		first = domain.YearMonthOf(c.JoinDate)
	}
	if c.CutoverDate != nil {
		if cut := domain.YearMonthOf(*c.CutoverDate); first.Before(cut) {
			first = cut
		}
	}
	return first
}

// CorpusGrowthSimulator compounds monthly contributions under an age-based
// allocation and tapering per-class returns.
type CorpusGrowthSimulator struct {
	Allocation InvestmentAllocationSchedule
	Logger     Logger
}

// NewCorpusGrowthSimulator creates a simulator.
func NewCorpusGrowthSimulator(logger Logger) *CorpusGrowthSimulator {
	if logger == nil {
		logger = NopLogger{}
	}
	return &CorpusGrowthSimulator{Logger: logger}
}

// Simulate runs corpus = corpus*(1+r) + contribution for every employed month
// on or after the cutover month. Returns taper yearly from the joining year.
// A snapshot is taken every December and at the final month.
func (s *CorpusGrowthSimulator) Simulate(salaries []domain.MonthlySalary, cfg CorpusConfig) (domain.CorpusTrace, error) {
	if err := cfg.Validate().ErrOrNil(); err != nil {
		return domain.CorpusTrace{}, err
	}

	growth := NewRateTaperCurve(cfg.Growth, cfg.TaperYears)
	medium := NewRateTaperCurve(cfg.Medium, cfg.TaperYears)
	safe := NewRateTaperCurve(cfg.Safe, cfg.TaperYears)
	hundred := decimal.NewFromInt(100)

	trace := domain.CorpusTrace{Seed: decimal.Zero, TotalContributions: decimal.Zero}
	var from domain.YearMonth
	if cfg.Seed != nil {
		trace.Seed = *cfg.Seed
		trace.SeedDate = *cfg.CutoverDate
		from = domain.YearMonthOf(*cfg.CutoverDate)
	}

	corpus := trace.Seed
	yearStart := corpus
	yearContrib := decimal.Zero

	var employed []domain.MonthlySalary
	for _, m := range salaries {
		if m.Employed && !m.Period.Before(from) {
			employed = append(employed, m)
		}
	}

	for i, m := range employed {
		age := dateutil.Age(cfg.BirthDate, m.Period.End())
		weights, err := s.Allocation.Weights(cfg.Strategy, age)
		if err != nil {
			return domain.CorpusTrace{}, fmt.Errorf("corpus at %s: %w", m.Period, err)
		}

		k := m.Period.Year - cfg.JoinDate.Year()
		rate := weights.Growth.Div(hundred).Mul(MonthlyRate(growth.Rate(k))).
			Add(weights.Medium.Div(hundred).Mul(MonthlyRate(medium.Rate(k)))).
			Add(weights.Safe.Div(hundred).Mul(MonthlyRate(safe.Rate(k))))

		contribution := decimal.Zero
		for _, cc := range cfg.Contributions {
			contribution = contribution.Add(money.ApplyPercent(m.Amount, cc.Percent).RoundBank(2))
		}

		corpus = corpus.Mul(decimal.NewFromInt(1).Add(rate)).Add(contribution).RoundBank(2)
		yearContrib = yearContrib.Add(contribution)
		trace.TotalContributions = trace.TotalContributions.Add(contribution)

		trace.Months = append(trace.Months, domain.CorpusMonth{
			Period:       m.Period,
			Age:          age,
			Salary:       m.Amount,
			Contribution: contribution,
			Weights:      weights,
			MonthlyRate:  rate,
			Value:        corpus,
		})

		final := i == len(employed)-1
		if m.Period.Month == time.December || final {
			trace.Yearly = append(trace.Yearly, domain.CorpusSnapshot{
				Year:          m.Period.Year,
				Value:         corpus,
				Contributions: yearContrib,
				Returns:       corpus.Sub(yearStart).Sub(yearContrib),
			})
			yearStart, yearContrib = corpus, decimal.Zero
		}
	}

	trace.Final = corpus
	s.logger().Debugf("corpus simulated over %d months, final %s", len(trace.Months), corpus)
	return trace, nil
}

func (s *CorpusGrowthSimulator) logger() Logger {
	if s.Logger == nil {
		return NopLogger{}
	}
	return s.Logger
}
