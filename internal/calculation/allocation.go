package calculation

import (
	"fmt"

	"github.com/pensioncalc/corpus-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// Supported ages for every glide path.
const (
	MinAllocationAge = 18
	MaxAllocationAge = 60
)

// glideKnot pins the growth and medium shares at an age. The safe share is
// whatever remains of 100.
type glideKnot struct {
	age    int
	growth int64
	medium int64
}

// glidePath interpolates linearly between knots and holds flat outside them.
type glidePath []glideKnot

func (g glidePath) at(age int) domain.AllocationWeights {
	first, last := g[0], g[len(g)-1]
	growth, medium := decimal.NewFromInt(first.growth), decimal.NewFromInt(first.medium)
	switch {
	case age <= first.age:
	case age >= last.age:
		growth, medium = decimal.NewFromInt(last.growth), decimal.NewFromInt(last.medium)
	default:
		for i := 1; i < len(g); i++ {
			lo, hi := g[i-1], g[i]
			if age > hi.age {
				continue
			}
			frac := decimal.NewFromInt(int64(age - lo.age)).Div(decimal.NewFromInt(int64(hi.age - lo.age)))
			growth = lerp(lo.growth, hi.growth, frac)
			medium = lerp(lo.medium, hi.medium, frac)
			break
		}
	}
	return domain.AllocationWeights{
		Growth: growth,
		Medium: medium,
		Safe:   decimal.NewFromInt(100).Sub(growth).Sub(medium),
	}
}

func lerp(from, to int64, frac decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(from).Add(decimal.NewFromInt(to - from).Mul(frac))
}

// InvestmentAllocationSchedule maps (strategy, age) to a growth/medium/safe split.
type InvestmentAllocationSchedule struct{}

// Weights returns the allocation for strategy at age.
func (InvestmentAllocationSchedule) Weights(strategy domain.Strategy, age int) (domain.AllocationWeights, error) {
	path, err := glidePathFor(strategy)
	if err != nil {
		return domain.AllocationWeights{}, err
	}
	if age < MinAllocationAge || age > MaxAllocationAge {
		return domain.AllocationWeights{}, fmt.Errorf("age %d for strategy %s: %w", age, strategy, domain.ErrAgeOutOfRange)
	}
	return path.at(age), nil
}

// Path returns the allocation for every supported age.
func (s InvestmentAllocationSchedule) Path(strategy domain.Strategy) (map[int]domain.AllocationWeights, error) {
	out := make(map[int]domain.AllocationWeights, MaxAllocationAge-MinAllocationAge+1)
	for age := MinAllocationAge; age <= MaxAllocationAge; age++ {
		w, err := s.Weights(strategy, age)
		if err != nil {
			return nil, err
		}
		out[age] = w
	}
	return out, nil
}

func glidePathFor(strategy domain.Strategy) (glidePath, error) {
	switch strategy {
	case domain.StrategyStandard:
		return glidePath{{age: MinAllocationAge, growth: 15, medium: 35}}, nil
	case domain.StrategyAutoLC25:
		return glidePath{{age: 35, growth: 25, medium: 45}, {age: 55, growth: 5, medium: 5}}, nil
	case domain.StrategyAutoLC50:
		return glidePath{{age: 35, growth: 50, medium: 30}, {age: 55, growth: 10, medium: 10}}, nil
	case domain.StrategyAutoLC75:
		return glidePath{
			{age: 35, growth: 75, medium: 10},
			{age: 45, growth: 45, medium: 20},
			{age: 50, growth: 30, medium: 20},
			{age: 55, growth: 15, medium: 10},
		}, nil
	case domain.StrategyActive:
		return glidePath{{age: 50, growth: 75, medium: 25}, {age: 60, growth: 50, medium: 25}}, nil
	default:
		return nil, fmt.Errorf("%q: %w", strategy, domain.ErrInvalidStrategy)
	}
}
