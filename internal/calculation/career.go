package calculation

import (
	"fmt"
	"slices"
	"time"

	"github.com/pensioncalc/corpus-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// CareerConfig is the input of a career progression run.
type CareerConfig struct {
	StartLevel     string
	StartStep      int
	Track          domain.CareerTrack
	Promotions     []int
	Commissions    []domain.PayCommissionEvent
	JoinDate       time.Time
	RetirementDate time.Time
}

// ServiceWindow returns the first and last half-year slots of a career.
// Joining or retiring after June moves the slot to the July half.
func ServiceWindow(join, retire time.Time) (domain.HalfYear, domain.HalfYear) {
	return domain.HalfYearOf(join), domain.HalfYearOf(retire)
}

// MaxPromotions returns how many promotions are possible from level on a track.
func MaxPromotions(table *domain.PayScaleTable, level string, track domain.CareerTrack) int {
	idx, ok := table.LevelIndex(level)
	if !ok {
		return 0
	}
	rules := track.Rules()
	levels := table.Levels()
	n := 0
	for _, l := range levels[idx+1:] {
		if !rules.Skips(l) {
			n++
		}
	}
	return n
}

// CareerProgressionEngine runs the half-year state machine from joining to retirement.
type CareerProgressionEngine struct {
	Factory *PayCommissionFactory
	Logger  Logger
}

// NewCareerProgressionEngine creates an engine drawing revised scales from factory.
func NewCareerProgressionEngine(factory *PayCommissionFactory, logger Logger) *CareerProgressionEngine {
	if logger == nil {
		logger = NopLogger{}
	}
	return &CareerProgressionEngine{Factory: factory, Logger: logger}
}

// Validate reports every configuration problem of cfg against the base table.
func (e *CareerProgressionEngine) Validate(cfg CareerConfig, base *domain.PayScaleTable) *domain.ConfigError {
	problems := &domain.ConfigError{}
	if base == nil {
		problems.Add("no base pay scale loaded")
		return problems
	}
	if _, ok := base.LevelIndex(cfg.StartLevel); !ok {
		problems.Add(fmt.Sprintf("starting level %q not found in pay scale %s", cfg.StartLevel, base.ID()))
	} else {
		if cfg.StartStep < 1 {
			problems.Add(fmt.Sprintf("starting step must be at least 1, got %d", cfg.StartStep))
		}
		if max := MaxPromotions(base, cfg.StartLevel, cfg.Track); len(cfg.Promotions) > max {
			problems.Add(fmt.Sprintf("too many promotions requested: %d given, at most %d reachable from level %s on the %s track",
				len(cfg.Promotions), max, cfg.StartLevel, cfg.Track))
		}
	}
	for i, years := range cfg.Promotions {
		if years < 1 {
			problems.Add(fmt.Sprintf("promotion %d: years in level must be at least 1, got %d", i+1, years))
		}
	}
	for i, ev := range cfg.Commissions {
		if ev.FitmentFactor.IsNegative() {
			problems.Add(fmt.Sprintf("pay commission %d: fitment factor must be positive", ev.Year))
		}
		if i > 0 && ev.Year <= cfg.Commissions[i-1].Year {
			problems.Add(fmt.Sprintf("pay commission years must be strictly increasing (%d after %d)", ev.Year, cfg.Commissions[i-1].Year))
		}
	}
	if cfg.JoinDate.IsZero() {
		problems.Add("date of joining is required")
	}
	if !cfg.RetirementDate.After(cfg.JoinDate) {
		problems.Add("retirement date must be after the date of joining")
	}
	return problems
}

// Run produces one trajectory record per half-year slot. Commission events
// must carry resolved, positive fitment factors.
func (e *CareerProgressionEngine) Run(cfg CareerConfig, base *domain.PayScaleTable) ([]domain.TrajectoryRecord, error) {
	if err := e.Validate(cfg, base).ErrOrNil(); err != nil {
		return nil, err
	}
	first, last := ServiceWindow(cfg.JoinDate, cfg.RetirementDate)
	totalHalfYears := last.Sub(first)

	events := slices.Clone(cfg.Commissions)
	slices.SortFunc(events, func(a, b domain.PayCommissionEvent) int { return a.Year - b.Year })

	// Revisions that took effect before joining define the scale in force at joining.
	table := base
	next := 0
	for next < len(events) && (domain.HalfYear{Year: events[next].Year, Half: domain.H1}).Before(first) {
		derived, err := e.derive(table, events[next])
		if err != nil {
			return nil, err
		}
		table = derived
		next++
	}

	pay, err := table.BasicPay(cfg.StartLevel, cfg.StartStep)
	if err != nil {
		return nil, fmt.Errorf("starting pay: %w", err)
	}
	state := domain.CareerState{Level: cfg.StartLevel, Step: cfg.StartStep, BasicPay: pay}

	// Promotion due years count from the calendar year of joining.
	due := make([]int, 0, len(cfg.Promotions))
	year := cfg.JoinDate.Year()
	for _, d := range cfg.Promotions {
		year += d
		due = append(due, year)
	}
	promoted := 0

	rules := cfg.Track.Rules()
	trajectory := make([]domain.TrajectoryRecord, 0, totalHalfYears+1)
	for slot := first; state.ServiceHalfYears <= totalHalfYears; slot = slot.Next() {
		var transitions []domain.Transition

		if slot.Half == domain.H1 {
			if next < len(events) && events[next].Year == slot.Year {
				derived, err := e.derive(table, events[next])
				if err != nil {
					return nil, err
				}
				table = derived
				next++
				if state.BasicPay, err = table.BasicPay(state.Level, state.Step); err != nil {
					return nil, fmt.Errorf("pay fixation at %s: %w", slot, err)
				}
				transitions = append(transitions, domain.TransitionPayCommission)
				e.Logger.Debugf("%s: pay commission %s, level %s step %d fixed at %s", slot, table.ID(), state.Level, state.Step, state.BasicPay)
			}
			if promoted < len(due) && due[promoted] == slot.Year {
				if state, err = promote(table, state, rules); err != nil {
					return nil, fmt.Errorf("promotion at %s: %w", slot, err)
				}
				promoted++
				transitions = append(transitions, domain.TransitionPromotion)
				e.Logger.Debugf("%s: promoted to level %s step %d at %s", slot, state.Level, state.Step, state.BasicPay)
			}
		} else if state.ServiceHalfYears > 0 {
			if state, err = increment(table, state); err != nil {
				return nil, fmt.Errorf("increment at %s: %w", slot, err)
			}
			transitions = append(transitions, domain.TransitionIncrement)
		}

		trajectory = append(trajectory, domain.TrajectoryRecord{
			Period:           slot,
			Level:            state.Level,
			Step:             state.Step,
			BasicPay:         state.BasicPay,
			ServiceHalfYears: state.ServiceHalfYears,
			PayScale:         table.ID(),
			Transitions:      transitions,
		})
		state.ServiceHalfYears++
	}
	return trajectory, nil
}

func (e *CareerProgressionEngine) derive(table *domain.PayScaleTable, ev domain.PayCommissionEvent) (*domain.PayScaleTable, error) {
	if !ev.FitmentFactor.IsPositive() {
		return nil, fmt.Errorf("pay commission %d has no fitment factor", ev.Year)
	}
	return e.Factory.Derive(table, ev.FitmentFactor)
}

// increment moves one step up the current level. At the ceiling the step
// still advances but pay stays flat.
func increment(table *domain.PayScaleTable, s domain.CareerState) (domain.CareerState, error) {
	s.Step++
	pay, err := table.BasicPay(s.Level, s.Step)
	if err != nil {
		return s, err
	}
	s.BasicPay = pay
	return s, nil
}

// promote moves to the next eligible level, landing on the first step whose
// pay is at least the pay one step further in the current level.
func promote(table *domain.PayScaleTable, s domain.CareerState, rules domain.PromotionRules) (domain.CareerState, error) {
	stepped, err := table.BasicPay(s.Level, s.Step+1)
	if err != nil {
		return s, err
	}

	levels := table.Levels()
	idx, ok := table.LevelIndex(s.Level)
	if !ok {
		return s, fmt.Errorf("level %q: %w", s.Level, domain.ErrNotFound)
	}
	target := idx + 1
	for target < len(levels) && rules.Skips(levels[target]) {
		target++
	}
	if target >= len(levels) {
		target = len(levels) - 1
	}

	col, err := table.Column(levels[target])
	if err != nil {
		return s, err
	}
	match := slices.IndexFunc(col, func(pay decimal.Decimal) bool { return pay.GreaterThanOrEqual(stepped) })
	if match == -1 {
		match = len(col) - 1
	} else if bonus := rules.BonusFrom(s.Level); bonus > 0 {
		match = min(match+bonus, len(col)-1)
	}

	s.Level = levels[target]
	s.Step = match + 1
	s.BasicPay = col[match]
	return s, nil
}
