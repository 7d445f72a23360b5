package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pensioncalc/corpus-engine/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of input configuration files
type InputParser struct {
	validate *validator.Validate
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	v := validator.New()
	// report yaml keys rather than Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &InputParser{validate: v}
}

// LoadFromFile loads configuration from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a YAML document.
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration runs the struct tag rules and then the cross-field
// checks, returning every problem in one *domain.ConfigError.
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if config == nil {
		return &domain.ConfigError{Problems: []string{"configuration is empty"}}
	}

	problems := &domain.ConfigError{}
	if err := ip.validate.Struct(config); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validating configuration: %w", err)
		}
		for _, fe := range fieldErrs {
			problems.Add(describeFieldError(fe))
		}
	}
	problems.Merge(config.Problems())
	return problems.ErrOrNil()
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s, got %v", field, fe.Param(), fe.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s, got %v", field, fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// SaveConfiguration writes config as YAML.
func (ip *InputParser) SaveConfiguration(config *domain.Configuration, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// CreateExampleConfiguration creates an example configuration file
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	rate := func(initial, final int64) domain.RatePair {
		return domain.RatePair{Initial: decimal.NewFromInt(initial), Final: decimal.NewFromInt(final)}
	}
	two := decimal.NewFromInt(2)

	return &domain.Configuration{
		Employee: domain.Employee{
			Name:        "Example Officer",
			BirthDate:   domain.NewDate(2000, time.May, 15),
			JoiningDate: domain.NewDate(2024, time.October, 10),
		},
		Career: domain.CareerSettings{
			StartingLevel: "10",
			StartingStep:  1,
			Track:         domain.TrackStandard,
			Promotions:    []int{4, 5, 4, 1, 4, 7, 5, 3},
		},
		PayCommissions: domain.PayCommissionSettings{
			Years:          []int{2026, 2036, 2046, 2056, 2066},
			FitmentFactors: []decimal.Decimal{two, two, two, two, two},
			RaisePercent:   decimal.NewFromInt(15),
		},
		Assumptions: domain.Assumptions{
			TaperYears: 40,
			Inflation:  rate(7, 4),
			Growth:     rate(12, 6),
			Medium:     rate(8, 4),
			Safe:       rate(8, 4),
		},
		Investment: domain.InvestmentSettings{
			Strategies: []domain.Strategy{domain.StrategyStandard},
		},
		Schemes: []domain.SchemeSettings{
			{Scheme: domain.SchemeUPS},
			{Scheme: domain.SchemeNPS},
		},
		Benefits: domain.BenefitSettings{
			WithdrawalPercent: decimal.NewFromInt(60),
			PensionYears:      40,
		},
	}
}
