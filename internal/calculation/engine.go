package calculation

import (
	"context"
	"fmt"
	"slices"

	"github.com/pensioncalc/corpus-engine/internal/domain"
	"golang.org/x/sync/errgroup"
)

// CalculationEngine orchestrates the career, allowance, salary, corpus and
// benefit calculations. It holds no per-run state, so scenarios may run
// concurrently against one engine.
type CalculationEngine struct {
	Data      *ReferenceData
	Factory   *PayCommissionFactory
	Career    *CareerProgressionEngine
	Allowance *DearnessAllowanceBuilder
	Salary    SalaryProjector
	Corpus    *CorpusGrowthSimulator
	Logger    Logger
}

// NewCalculationEngine creates an engine over loaded reference data.
func NewCalculationEngine(data *ReferenceData) *CalculationEngine {
	logger := NopLogger{}
	factory := NewPayCommissionFactory()
	return &CalculationEngine{
		Data:      data,
		Factory:   factory,
		Career:    NewCareerProgressionEngine(factory, logger),
		Allowance: NewDearnessAllowanceBuilder(logger),
		Corpus:    NewCorpusGrowthSimulator(logger),
		Logger:    logger,
	}
}

// SetLogger sets the logger for the engine and its components. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	ce.Logger = l
	ce.Factory.Logger = l
	ce.Career.Logger = l
	ce.Allowance.Logger = l
	ce.Corpus.Logger = l
}

// Validate reports every problem of a scenario input before any work starts.
func (ce *CalculationEngine) Validate(in ScenarioInput) *domain.ConfigError {
	problems := &domain.ConfigError{}
	if ce.Data == nil || ce.Data.BaseTable == nil {
		problems.Add("reference data not loaded")
		return problems
	}
	problems.Merge(ce.Career.Validate(in.Career, ce.Data.BaseTable))
	problems.Merge(in.Corpus.Validate())
	problems.Merge(in.Benefits.Validate())
	return problems
}

// RunScenario simulates one scheme and strategy from joining to retirement.
func (ce *CalculationEngine) RunScenario(ctx context.Context, in ScenarioInput) (*domain.ScenarioResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ce.Validate(in).ErrOrNil(); err != nil {
		return nil, err
	}
	ce.Logger.Debugf("running scenario %s", in.Name)

	allowance, err := ce.Allowance.Build(ce.Data.Archive, in.Allowance)
	if err != nil {
		return nil, fmt.Errorf("allowance: %w", err)
	}

	career := in.Career
	career.Commissions = resolveFitment(in.Career.Commissions, allowance)
	trajectory, err := ce.Career.Run(career, ce.Data.BaseTable)
	if err != nil {
		return nil, fmt.Errorf("career progression: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	halfYears, err := ce.Salary.Gross(trajectory, allowance)
	if err != nil {
		return nil, err
	}
	monthly := ce.Salary.Monthly(halfYears, in.Salary)

	corpus, err := ce.Corpus.Simulate(monthly, in.Corpus)
	if err != nil {
		return nil, fmt.Errorf("corpus: %w", err)
	}

	benefits, err := CalculateBenefits(in.Benefits, monthly, corpus)
	if err != nil {
		return nil, fmt.Errorf("benefits: %w", err)
	}

	return &domain.ScenarioResult{
		Name:             in.Name,
		Scheme:           in.Scheme,
		Strategy:         in.Strategy,
		JoiningDate:      in.Salary.JoinDate,
		RetirementDate:   in.Salary.RetirementDate,
		Trajectory:       trajectory,
		Allowance:        allowance.Entries(),
		HalfYearSalaries: halfYears,
		MonthlySalaries:  monthly,
		Corpus:           corpus,
		Benefits:         benefits,
	}, nil
}

// RunComparison runs every scheme and strategy pair of cfg concurrently and
// returns the results in configuration order.
func (ce *CalculationEngine) RunComparison(ctx context.Context, cfg *domain.Configuration) (*domain.ScenarioComparison, error) {
	inputs, err := BuildScenarioInputs(cfg)
	if err != nil {
		return nil, err
	}
	problems := &domain.ConfigError{}
	seen := make(map[string]bool)
	for _, in := range inputs {
		for _, p := range ce.Validate(in).Problems {
			if !seen[p] {
				seen[p] = true
				problems.Add(p)
			}
		}
	}
	if err := problems.ErrOrNil(); err != nil {
		return nil, err
	}

	results := make([]domain.ScenarioResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	for i, in := range inputs {
		g.Go(func() error {
			res, err := ce.RunScenario(gctx, in)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", in.Name, err)
			}
			results[i] = *res
			ce.Logger.Infof("scenario %s: final corpus %s", in.Name, res.Corpus.Final.StringFixed(2))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.ScenarioComparison{
		RunID:       runIDFunc(),
		GeneratedAt: nowFunc(),
		Employee:    cfg.Employee,
		Assumptions: cfg.Assumptions,
		Scenarios:   results,
	}, nil
}

// resolveFitment fills missing fitment factors from the allowance accrued
// before each revision.
func resolveFitment(events []domain.PayCommissionEvent, allowance *domain.AllowanceTable) []domain.PayCommissionEvent {
	out := slices.Clone(events)
	for i, ev := range out {
		if !ev.FitmentFactor.IsZero() {
			continue
		}
		if pre, ok := allowance.PreRevision(ev.Year); ok {
			out[i].FitmentFactor = FitmentFactor(pre, ev.RaisePercent)
		}
	}
	return out
}
