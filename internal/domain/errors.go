package domain

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned by table lookups (unknown level, unmatched pay, missing period).
	ErrNotFound = errors.New("not found")
	// ErrInvalidStrategy is returned for an unrecognized investment strategy name.
	ErrInvalidStrategy = errors.New("invalid investment strategy")
	// ErrAgeOutOfRange is returned when an allocation is requested for an unsupported age.
	ErrAgeOutOfRange = errors.New("age outside supported range")
	// ErrInvalidConfig is the sentinel every ConfigError unwraps to.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ConfigError collects every configuration problem found before a run starts.
type ConfigError struct {
	Problems []string
}

// Add records a problem.
func (e *ConfigError) Add(problem string) {
	e.Problems = append(e.Problems, problem)
}

// Merge appends the problems of another ConfigError.
func (e *ConfigError) Merge(other *ConfigError) {
	if other != nil {
		e.Problems = append(e.Problems, other.Problems...)
	}
}

// ErrOrNil returns e when it holds at least one problem.
func (e *ConfigError) ErrOrNil() error {
	if e == nil || len(e.Problems) == 0 {
		return nil
	}
	return e
}

func (e *ConfigError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid configuration: " + e.Problems[0]
	}
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }
