package calculation

import (
	"fmt"
	"sync"

	"github.com/pensioncalc/corpus-engine/internal/domain"
	money "github.com/pensioncalc/corpus-engine/pkg/decimal"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// payRoundingUnit is the granularity of revised pay cells.
const payRoundingUnit = 100

// derivedKey identifies a derived table by source identity and factor. Derived
// tables are themselves cached, so pointer identity is stable across a chain.
type derivedKey struct {
	source  *domain.PayScaleTable
	fitment string
}

// PayCommissionFactory derives revised pay scales and memoizes them by
// (source table, fitment factor). It is safe for concurrent use; each key is
// computed once.
type PayCommissionFactory struct {
	mu     sync.RWMutex
	cache  map[derivedKey]*domain.PayScaleTable
	group  singleflight.Group
	Logger Logger
}

// NewPayCommissionFactory creates an empty factory.
func NewPayCommissionFactory() *PayCommissionFactory {
	return &PayCommissionFactory{
		cache:  make(map[derivedKey]*domain.PayScaleTable),
		Logger: NopLogger{},
	}
}

// FitmentFactor computes (1 + allowance/100) * (1 + raise/100).
func FitmentFactor(allowancePercent, raisePercent decimal.Decimal) decimal.Decimal {
	return money.GrowthFactor(allowancePercent).Mul(money.GrowthFactor(raisePercent))
}

// Derive returns the table that follows source under fitment factor ff:
// every cell multiplied by ff and rounded to the nearest 100.
func (f *PayCommissionFactory) Derive(source *domain.PayScaleTable, ff decimal.Decimal) (*domain.PayScaleTable, error) {
	if source == nil {
		return nil, fmt.Errorf("derive pay scale: nil source table")
	}
	if !ff.IsPositive() {
		return nil, fmt.Errorf("derive pay scale from %s: fitment factor must be positive, got %s", source.ID(), ff)
	}

	key := derivedKey{source: source, fitment: ff.String()}
	f.mu.RLock()
	cached, ok := f.cache[key]
	f.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := f.group.Do(fmt.Sprintf("%p|%s", source, key.fitment), func() (any, error) {
		f.mu.RLock()
		cached, ok := f.cache[key]
		f.mu.RUnlock()
		if ok {
			return cached, nil
		}

		next := source.Commission() + 1
		table, err := source.Derive(commissionID(next), next, func(pay decimal.Decimal) decimal.Decimal {
			return money.RoundToNearest(pay.Mul(ff), payRoundingUnit)
		})
		if err != nil {
			return nil, err
		}
		f.logger().Debugf("derived pay scale %s from %s with fitment factor %s", table.ID(), source.ID(), ff)

		f.mu.Lock()
		f.cache[key] = table
		f.mu.Unlock()
		return table, nil
	})
	if err != nil {
		return nil, fmt.Errorf("derive pay scale from %s: %w", source.ID(), err)
	}
	return v.(*domain.PayScaleTable), nil
}

// Cached returns the number of memoized tables.
func (f *PayCommissionFactory) Cached() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.cache)
}

func (f *PayCommissionFactory) logger() Logger {
	if f.Logger == nil {
		return NopLogger{}
	}
	return f.Logger
}
