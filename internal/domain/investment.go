package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Strategy is a named investment glide path.
type Strategy string

const (
	StrategyStandard Strategy = "standard"
	StrategyAutoLC25 Strategy = "auto_lc25"
	StrategyAutoLC50 Strategy = "auto_lc50"
	StrategyAutoLC75 Strategy = "auto_lc75"
	StrategyActive   Strategy = "active"
)

// Strategies lists every supported strategy.
func Strategies() []Strategy {
	return []Strategy{StrategyStandard, StrategyAutoLC25, StrategyAutoLC50, StrategyAutoLC75, StrategyActive}
}

var strategyAliases = map[string]Strategy{
	"standard":           StrategyStandard,
	"benchmark":          StrategyStandard,
	"standard/benchmark": StrategyStandard,
	"auto_lc25":          StrategyAutoLC25,
	"lc25":               StrategyAutoLC25,
	"auto_lc50":          StrategyAutoLC50,
	"lc50":               StrategyAutoLC50,
	"auto_lc75":          StrategyAutoLC75,
	"lc75":               StrategyAutoLC75,
	"active":             StrategyActive,
}

// ParseStrategy resolves a strategy name or alias, case-insensitively.
func ParseStrategy(name string) (Strategy, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "-", "_")
	if s, ok := strategyAliases[key]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%q: %w", name, ErrInvalidStrategy)
}

// UnmarshalText lets configuration files use any accepted alias.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// AllocationWeights is a three-way split in percent. The parts sum to 100.
type AllocationWeights struct {
	Growth decimal.Decimal `json:"growth"`
	Medium decimal.Decimal `json:"medium"`
	Safe   decimal.Decimal `json:"safe"`
}

// Sum returns Growth + Medium + Safe.
func (w AllocationWeights) Sum() decimal.Decimal {
	return w.Growth.Add(w.Medium).Add(w.Safe)
}

// Scheme is a pension scheme under comparison.
type Scheme string

const (
	SchemeUPS Scheme = "UPS"
	SchemeNPS Scheme = "NPS"
)

// ParseScheme resolves a scheme name case-insensitively.
func ParseScheme(name string) (Scheme, error) {
	switch Scheme(strings.ToUpper(strings.TrimSpace(name))) {
	case SchemeUPS:
		return SchemeUPS, nil
	case SchemeNPS:
		return SchemeNPS, nil
	default:
		return "", fmt.Errorf("unknown pension scheme %q", name)
	}
}

// UnmarshalText lets configuration files spell schemes in any case.
func (s *Scheme) UnmarshalText(text []byte) error {
	parsed, err := ParseScheme(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ContributionClass is one contributor's share of monthly salary paid into the corpus.
type ContributionClass struct {
	Name    string          `yaml:"name" json:"name" validate:"required"`
	Percent decimal.Decimal `yaml:"percent" json:"percent"`
}

// DefaultContributions returns the statutory contribution classes of a scheme.
func (s Scheme) DefaultContributions() []ContributionClass {
	switch s {
	case SchemeNPS:
		return []ContributionClass{
			{Name: "employee", Percent: decimal.NewFromInt(10)},
			{Name: "government", Percent: decimal.NewFromInt(14)},
		}
	case SchemeUPS:
		return []ContributionClass{
			{Name: "employee", Percent: decimal.NewFromInt(10)},
			{Name: "government", Percent: decimal.NewFromInt(10)},
		}
	default:
		return nil
	}
}

// HalfYearSalary is the gross monthly-rate salary for a half-year slot.
type HalfYearSalary struct {
	Period           HalfYear        `json:"period"`
	BasicPay         decimal.Decimal `json:"basic_pay"`
	AllowancePercent decimal.Decimal `json:"allowance_percent"`
	Gross            decimal.Decimal `json:"gross"`
}

// MonthlySalary is the amount attributed to a calendar month.
type MonthlySalary struct {
	Period      YearMonth       `json:"period"`
	Amount      decimal.Decimal `json:"amount"`
	Employed    bool            `json:"employed"`
	ServedDays  int             `json:"served_days"`
	DaysInMonth int             `json:"days_in_month"`
}

// CorpusMonth records one step of the compounding loop.
type CorpusMonth struct {
	Period       YearMonth         `json:"period"`
	Age          int               `json:"age"`
	Salary       decimal.Decimal   `json:"salary"`
	Contribution decimal.Decimal   `json:"contribution"`
	Weights      AllocationWeights `json:"weights"`
	MonthlyRate  decimal.Decimal   `json:"monthly_rate"`
	Value        decimal.Decimal   `json:"value"`
}

// CorpusSnapshot is the corpus at the end of a calendar year (or the final month).
type CorpusSnapshot struct {
	Year          int             `json:"year"`
	Value         decimal.Decimal `json:"value"`
	Contributions decimal.Decimal `json:"contributions"`
	Returns       decimal.Decimal `json:"returns"`
}

// CorpusTrace is the output of the compounding simulation.
type CorpusTrace struct {
	Seed               decimal.Decimal  `json:"seed"`
	SeedDate           time.Time        `json:"seed_date,omitempty"`
	Months             []CorpusMonth    `json:"months"`
	Yearly             []CorpusSnapshot `json:"yearly"`
	TotalContributions decimal.Decimal  `json:"total_contributions"`
	Final              decimal.Decimal  `json:"final"`
}
