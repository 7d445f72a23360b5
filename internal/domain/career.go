package domain

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// CareerTrack selects the promotion rules applied to an employee.
type CareerTrack string

const (
	TrackStandard CareerTrack = "standard"
	// TrackIAS skips levels 13A and 16 and grants extra steps when promoted out of levels 10-12.
	TrackIAS CareerTrack = "ias"
)

// PromotionRules are the level-eligibility exceptions of a career track.
type PromotionRules struct {
	SkipLevels      []string
	BonusStepLevels []string
	BonusSteps      int
}

// Skips reports whether promotions never land on level.
func (r PromotionRules) Skips(level string) bool {
	return slices.Contains(r.SkipLevels, level)
}

// BonusFrom returns the extra steps granted when promoted out of level.
func (r PromotionRules) BonusFrom(level string) int {
	if slices.Contains(r.BonusStepLevels, level) {
		return r.BonusSteps
	}
	return 0
}

// ParseCareerTrack accepts the track name case-insensitively; empty means standard.
func ParseCareerTrack(s string) (CareerTrack, error) {
	switch CareerTrack(strings.ToLower(strings.TrimSpace(s))) {
	case "", TrackStandard:
		return TrackStandard, nil
	case TrackIAS:
		return TrackIAS, nil
	default:
		return "", fmt.Errorf("unknown career track %q", s)
	}
}

// Rules returns the promotion rules of the track.
func (t CareerTrack) Rules() PromotionRules {
	switch t {
	case TrackIAS:
		return PromotionRules{
			SkipLevels:      []string{"13A", "16"},
			BonusStepLevels: []string{"10", "11", "12"},
			BonusSteps:      2,
		}
	case TrackStandard, "":
		return PromotionRules{}
	default:
		return PromotionRules{}
	}
}

// PayCommissionEvent is a scheduled pay-scale revision. A zero FitmentFactor
// means the factor is derived from the allowance in force before the revision
// and RaisePercent.
type PayCommissionEvent struct {
	Year          int             `json:"year"`
	FitmentFactor decimal.Decimal `json:"fitment_factor"`
	RaisePercent  decimal.Decimal `json:"raise_percent,omitempty"`
}

// Transition names a state change applied in a half-year slot.
type Transition string

const (
	TransitionIncrement     Transition = "increment"
	TransitionPromotion     Transition = "promotion"
	TransitionPayCommission Transition = "pay_commission"
)

// CareerState is the mutable position of the career state machine.
type CareerState struct {
	Level            string
	Step             int
	BasicPay         decimal.Decimal
	ServiceHalfYears int
}

// TrajectoryRecord is the immutable snapshot emitted for each half-year slot.
type TrajectoryRecord struct {
	Period           HalfYear        `json:"period"`
	Level            string          `json:"level"`
	Step             int             `json:"step"`
	BasicPay         decimal.Decimal `json:"basic_pay"`
	ServiceHalfYears int             `json:"service_half_years"`
	PayScale         string          `json:"pay_scale"`
	Transitions      []Transition    `json:"transitions,omitempty"`
}

// YearsOfService returns completed service at the slot in years.
func (r TrajectoryRecord) YearsOfService() decimal.Decimal {
	return decimal.NewFromInt(int64(r.ServiceHalfYears)).Div(decimal.NewFromInt(2))
}

// Has reports whether the slot applied the given transition.
func (r TrajectoryRecord) Has(t Transition) bool {
	return slices.Contains(r.Transitions, t)
}

// UnmarshalText accepts any case; an empty value means standard.
func (t *CareerTrack) UnmarshalText(text []byte) error {
	parsed, err := ParseCareerTrack(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
