package domain

import (
	"fmt"
	"time"

	"github.com/pensioncalc/corpus-engine/pkg/dateutil"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Date is a calendar date written day-first in configuration files.
type Date struct {
	time.Time
}

// NewDate returns a UTC Date.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// UnmarshalYAML parses any layout accepted by dateutil.ParseDate.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: date must be a scalar", value.Line)
	}
	t, err := dateutil.ParseDate(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	d.Time = t
	return nil
}

// MarshalYAML writes the canonical DD/MM/YYYY form.
func (d Date) MarshalYAML() (any, error) {
	return dateutil.FormatDate(d.Time), nil
}

// Configuration is the complete input of a simulation run.
type Configuration struct {
	Employee       Employee              `yaml:"employee" json:"employee"`
	Career         CareerSettings        `yaml:"career" json:"career"`
	PayCommissions PayCommissionSettings `yaml:"pay_commissions" json:"pay_commissions"`
	Assumptions    Assumptions           `yaml:"assumptions" json:"assumptions"`
	Investment     InvestmentSettings    `yaml:"investment" json:"investment"`
	Schemes        []SchemeSettings      `yaml:"schemes" json:"schemes" validate:"required,min=1,dive"`
	Benefits       BenefitSettings       `yaml:"benefits" json:"benefits"`
	Data           DataSettings          `yaml:"data,omitempty" json:"data,omitempty"`
}

// Employee holds the personal dates that bound the service window.
type Employee struct {
	Name            string `yaml:"name,omitempty" json:"name,omitempty"`
	BirthDate       Date   `yaml:"date_of_birth" json:"date_of_birth"`
	JoiningDate     Date   `yaml:"date_of_joining" json:"date_of_joining"`
	EarlyRetirement bool   `yaml:"early_retirement,omitempty" json:"early_retirement,omitempty"`
	RetirementDate  *Date  `yaml:"retirement_date,omitempty" json:"retirement_date,omitempty"`
	// ProrateRetirementMonth pays only the days served in the last month.
	ProrateRetirementMonth bool `yaml:"prorate_retirement_month,omitempty" json:"prorate_retirement_month,omitempty"`
}

// ServiceEnd returns the explicit retirement date for early retirement, or the
// statutory date otherwise.
func (e Employee) ServiceEnd() (time.Time, error) {
	if e.EarlyRetirement {
		if e.RetirementDate == nil || e.RetirementDate.IsZero() {
			return time.Time{}, fmt.Errorf("early retirement requires a retirement date")
		}
		return e.RetirementDate.Time, nil
	}
	return dateutil.RetirementDate(e.BirthDate.Time, dateutil.StatutoryRetirementAge), nil
}

// CareerSettings is the starting position and promotion schedule.
type CareerSettings struct {
	StartingLevel string      `yaml:"starting_level" json:"starting_level" validate:"required"`
	StartingStep  int         `yaml:"starting_step" json:"starting_step" validate:"min=1,max=60"`
	Track         CareerTrack `yaml:"track,omitempty" json:"track,omitempty" validate:"omitempty,oneof=standard ias"`
	// Promotions lists years spent in each level before the next promotion.
	Promotions []int `yaml:"promotions" json:"promotions" validate:"dive,min=1,max=40"`
}

// PayCommissionSettings schedules pay-scale revisions.
type PayCommissionSettings struct {
	Years []int `yaml:"years" json:"years" validate:"dive,min=1950,max=2200"`
	// FitmentFactors must match Years one-to-one when given.
	FitmentFactors []decimal.Decimal `yaml:"fitment_factors,omitempty" json:"fitment_factors,omitempty"`
	// RaisePercent is used to derive factors when FitmentFactors is empty.
	RaisePercent decimal.Decimal `yaml:"raise_percent" json:"raise_percent"`
}

// Events pairs commission years with their factors; a missing factor is left zero.
func (p PayCommissionSettings) Events() []PayCommissionEvent {
	events := make([]PayCommissionEvent, len(p.Years))
	for i, year := range p.Years {
		events[i] = PayCommissionEvent{Year: year, RaisePercent: p.RaisePercent}
		if i < len(p.FitmentFactors) {
			events[i].FitmentFactor = p.FitmentFactors[i]
		}
	}
	return events
}

// RatePair is the initial and final annual rate, in percent, of a tapering curve.
type RatePair struct {
	Initial decimal.Decimal `yaml:"initial" json:"initial"`
	Final   decimal.Decimal `yaml:"final" json:"final"`
}

// Assumptions are the tapering economic rates.
type Assumptions struct {
	TaperYears int      `yaml:"taper_years" json:"taper_years" validate:"min=1,max=100"`
	Inflation  RatePair `yaml:"inflation" json:"inflation"`
	Growth     RatePair `yaml:"growth_return" json:"growth_return"`
	Medium     RatePair `yaml:"medium_return" json:"medium_return"`
	Safe       RatePair `yaml:"safe_return" json:"safe_return"`
}

// ExistingCorpus seeds the corpus at a cutover date.
type ExistingCorpus struct {
	Amount      *decimal.Decimal `yaml:"amount,omitempty" json:"amount,omitempty"`
	CutoverDate *Date            `yaml:"cutover_date,omitempty" json:"cutover_date,omitempty"`
}

// UnmarshalYAML accepts amounts written as numbers or strings.
func (ec *ExistingCorpus) UnmarshalYAML(value *yaml.Node) error {
	type Alias struct {
		Amount      *string `yaml:"amount,omitempty"`
		CutoverDate *Date   `yaml:"cutover_date,omitempty"`
	}

	var aux Alias
	if err := value.Decode(&aux); err != nil {
		return err
	}

	ec.CutoverDate = aux.CutoverDate
	if aux.Amount != nil {
		val, err := decimal.NewFromString(*aux.Amount)
		if err != nil {
			return fmt.Errorf("existing corpus amount: %w", err)
		}
		ec.Amount = &val
	}
	return nil
}

// InvestmentSettings selects the glide paths and optional seed corpus.
type InvestmentSettings struct {
	Strategies     []Strategy      `yaml:"strategies" json:"strategies" validate:"required,min=1"`
	ExistingCorpus *ExistingCorpus `yaml:"existing_corpus,omitempty" json:"existing_corpus,omitempty"`
}

// SchemeSettings enables a scheme, optionally overriding its contribution classes.
type SchemeSettings struct {
	Scheme        Scheme              `yaml:"scheme" json:"scheme" validate:"required"`
	Contributions []ContributionClass `yaml:"contributions,omitempty" json:"contributions,omitempty" validate:"dive"`
}

// EffectiveContributions returns the configured classes or the scheme defaults.
func (s SchemeSettings) EffectiveContributions() []ContributionClass {
	if len(s.Contributions) > 0 {
		return s.Contributions
	}
	return s.Scheme.DefaultContributions()
}

// BenefitSettings parameterizes the retirement benefit formulas.
type BenefitSettings struct {
	WithdrawalPercent decimal.Decimal  `yaml:"withdrawal_percent" json:"withdrawal_percent"`
	AnnuityRate       *decimal.Decimal `yaml:"annuity_rate,omitempty" json:"annuity_rate,omitempty"`
	PensionYears      int              `yaml:"pension_years" json:"pension_years" validate:"min=0,max=60"`
}

// DataSettings points at reference data files; empty fields use the embedded defaults.
type DataSettings struct {
	Directory    string   `yaml:"directory,omitempty" json:"directory,omitempty"`
	PayScaleFile string   `yaml:"pay_scale_file,omitempty" json:"pay_scale_file,omitempty"`
	ArchiveFiles []string `yaml:"archive_files,omitempty" json:"archive_files,omitempty"`
}

// Problems returns the cross-field checks that struct tags cannot express.
func (c *Configuration) Problems() *ConfigError {
	problems := &ConfigError{}

	if c.Employee.BirthDate.IsZero() {
		problems.Add("date of birth is required")
	}
	if c.Employee.JoiningDate.IsZero() {
		problems.Add("date of joining is required")
	} else if !c.Employee.BirthDate.IsZero() && !c.Employee.JoiningDate.After(c.Employee.BirthDate.Time) {
		problems.Add("date of joining must be after date of birth")
	}
	if end, err := c.Employee.ServiceEnd(); err != nil {
		problems.Add(err.Error())
	} else if !c.Employee.JoiningDate.IsZero() && !end.After(c.Employee.JoiningDate.Time) {
		problems.Add("retirement date must be after the date of joining")
	}

	if n := len(c.PayCommissions.FitmentFactors); n > 0 && n != len(c.PayCommissions.Years) {
		problems.Add(fmt.Sprintf("fitment factors (%d) must match pay commission years (%d)", n, len(c.PayCommissions.Years)))
	}

	if ec := c.Investment.ExistingCorpus; ec != nil {
		hasAmount := ec.Amount != nil
		hasDate := ec.CutoverDate != nil && !ec.CutoverDate.IsZero()
		if hasAmount != hasDate {
			problems.Add("existing corpus requires both an amount and a cutover date")
		}
	}

	seen := make(map[Scheme]bool, len(c.Schemes))
	for _, s := range c.Schemes {
		if seen[s.Scheme] {
			problems.Add(fmt.Sprintf("scheme %s listed more than once", s.Scheme))
		}
		seen[s.Scheme] = true
	}
	return problems
}
