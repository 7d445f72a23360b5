package calculation

import (
	"fmt"
	"time"

	"github.com/pensioncalc/corpus-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultRaisePercent is the raise over the allowance used to derive fitment
// factors when none are configured.
var DefaultRaisePercent = decimal.NewFromInt(15)

// ScenarioInput carries one typed config value per component for a single
// (scheme, strategy) run.
type ScenarioInput struct {
	Name      string
	Scheme    domain.Scheme
	Strategy  domain.Strategy
	Career    CareerConfig
	Allowance AllowanceConfig
	Salary    SalaryConfig
	Corpus    CorpusConfig
	Benefits  BenefitConfig
}

// BuildScenarioInputs expands a configuration into one input per scheme and
// strategy pair. Cross-field problems are reported together as a ConfigError.
func BuildScenarioInputs(cfg *domain.Configuration) ([]ScenarioInput, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil configuration: %w", domain.ErrInvalidConfig)
	}
	problems := cfg.Problems()
	if len(cfg.Schemes) == 0 {
		problems.Add("at least one scheme is required")
	}
	if len(cfg.Investment.Strategies) == 0 {
		problems.Add("at least one investment strategy is required")
	}
	if err := problems.ErrOrNil(); err != nil {
		return nil, err
	}

	join := cfg.Employee.JoiningDate.Time
	retire, err := cfg.Employee.ServiceEnd()
	if err != nil {
		return nil, err
	}
	first, last := ServiceWindow(join, retire)

	pc := cfg.PayCommissions
	if len(pc.FitmentFactors) == 0 && pc.RaisePercent.IsZero() {
		pc.RaisePercent = DefaultRaisePercent
	}
	events := pc.Events()

	career := CareerConfig{
		StartLevel:     cfg.Career.StartingLevel,
		StartStep:      cfg.Career.StartingStep,
		Track:          cfg.Career.Track,
		Promotions:     append([]int(nil), cfg.Career.Promotions...),
		Commissions:    events,
		JoinDate:       join,
		RetirementDate: retire,
	}
	allowance := AllowanceConfig{
		Inflation:       cfg.Assumptions.Inflation,
		TaperYears:      cfg.Assumptions.TaperYears,
		Origin:          first,
		First:           first,
		Last:            last,
		CommissionYears: append([]int(nil), pc.Years...),
	}
	salary := SalaryConfig{
		JoinDate:               join,
		RetirementDate:         retire,
		ProrateRetirementMonth: cfg.Employee.ProrateRetirementMonth,
	}

	var seed *decimal.Decimal
	var cutover *time.Time
	if ec := cfg.Investment.ExistingCorpus; ec != nil && ec.Amount != nil && ec.CutoverDate != nil {
		amount := *ec.Amount
		date := ec.CutoverDate.Time
		seed, cutover = &amount, &date
	}

	var inputs []ScenarioInput
	for _, scheme := range cfg.Schemes {
		for _, strategy := range cfg.Investment.Strategies {
			inputs = append(inputs, ScenarioInput{
				Name:      fmt.Sprintf("%s / %s", scheme.Scheme, strategy),
				Scheme:    scheme.Scheme,
				Strategy:  strategy,
				Career:    career,
				Allowance: allowance,
				Salary:    salary,
				Corpus: CorpusConfig{
					BirthDate:      cfg.Employee.BirthDate.Time,
					JoinDate:       join,
					RetirementDate: retire,
					Strategy:       strategy,
					Contributions:  scheme.EffectiveContributions(),
					TaperYears:     cfg.Assumptions.TaperYears,
					Growth:         cfg.Assumptions.Growth,
					Medium:         cfg.Assumptions.Medium,
					Safe:           cfg.Assumptions.Safe,
					Seed:           seed,
					CutoverDate:    cutover,
				},
				Benefits: BenefitConfig{
					Scheme:            scheme.Scheme,
					JoinDate:          join,
					RetirementDate:    retire,
					WithdrawalPercent: cfg.Benefits.WithdrawalPercent,
					AnnuityRate:       cfg.Benefits.AnnuityRate,
					PensionYears:      cfg.Benefits.PensionYears,
					Inflation:         cfg.Assumptions.Inflation,
					TaperYears:        cfg.Assumptions.TaperYears,
					Origin:            first,
				},
			})
		}
	}
	return inputs, nil
}
