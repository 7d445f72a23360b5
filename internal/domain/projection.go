package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PensionInstallment is the monthly pension paid during a post-retirement half-year.
type PensionInstallment struct {
	Period  HalfYear        `json:"period"`
	Monthly decimal.Decimal `json:"monthly"`
}

// BenefitSummary holds the retirement amounts derived from the salary and corpus traces.
type BenefitSummary struct {
	Scheme          Scheme               `json:"scheme"`
	MonthsServed    int                  `json:"months_served"`
	FullPension     decimal.Decimal      `json:"full_pension"`
	AdjustedPension decimal.Decimal      `json:"adjusted_pension"`
	WithdrawnCorpus decimal.Decimal      `json:"withdrawn_corpus"`
	Lumpsum         decimal.Decimal      `json:"lumpsum"`
	AnnuityRate     decimal.Decimal      `json:"annuity_rate,omitempty"`
	InflationFactor decimal.Decimal      `json:"inflation_factor"`
	CorpusNPV       decimal.Decimal      `json:"corpus_npv"`
	XIRR            decimal.Decimal      `json:"xirr_percent"`
	FuturePension   []PensionInstallment `json:"future_pension,omitempty"`
}

// ScenarioResult is the complete trace of one (scheme, strategy) simulation.
type ScenarioResult struct {
	Name             string             `json:"name"`
	Scheme           Scheme             `json:"scheme"`
	Strategy         Strategy           `json:"strategy"`
	JoiningDate      time.Time          `json:"joining_date"`
	RetirementDate   time.Time          `json:"retirement_date"`
	Trajectory       []TrajectoryRecord `json:"trajectory"`
	Allowance        []AllowanceEntry   `json:"allowance"`
	HalfYearSalaries []HalfYearSalary   `json:"half_year_salaries"`
	MonthlySalaries  []MonthlySalary    `json:"monthly_salaries"`
	Corpus           CorpusTrace        `json:"corpus"`
	Benefits         BenefitSummary     `json:"benefits"`
}

// FinalRecord returns the last trajectory slot.
func (r *ScenarioResult) FinalRecord() (TrajectoryRecord, bool) {
	if len(r.Trajectory) == 0 {
		return TrajectoryRecord{}, false
	}
	return r.Trajectory[len(r.Trajectory)-1], true
}

// Promotions counts the slots that applied a promotion.
func (r *ScenarioResult) Promotions() int {
	n := 0
	for _, rec := range r.Trajectory {
		if rec.Has(TransitionPromotion) {
			n++
		}
	}
	return n
}

// ScenarioComparison groups every scenario of one run.
type ScenarioComparison struct {
	RunID       uuid.UUID        `json:"run_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Employee    Employee         `json:"employee"`
	Assumptions Assumptions      `json:"assumptions"`
	Scenarios   []ScenarioResult `json:"scenarios"`
}

// Best returns the scenario with the largest final corpus.
func (c *ScenarioComparison) Best() (*ScenarioResult, bool) {
	var best *ScenarioResult
	for i := range c.Scenarios {
		if best == nil || c.Scenarios[i].Corpus.Final.GreaterThan(best.Corpus.Final) {
			best = &c.Scenarios[i]
		}
	}
	return best, best != nil
}
