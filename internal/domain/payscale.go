package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PayScaleTable is an immutable basic-pay matrix. Columns are pay levels in
// seniority order; each column holds the pay for steps 1..n of that level, and
// the last populated step is the level's ceiling.
type PayScaleTable struct {
	id         string
	commission int
	levels     []string
	columns    map[string][]decimal.Decimal
	index      map[string]int
}

// NewPayScaleTable builds a table from level columns. The input slices are copied.
func NewPayScaleTable(id string, commission int, levels []string, columns map[string][]decimal.Decimal) (*PayScaleTable, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("pay scale %s: no levels", id)
	}
	t := &PayScaleTable{
		id:         id,
		commission: commission,
		levels:     make([]string, len(levels)),
		columns:    make(map[string][]decimal.Decimal, len(levels)),
		index:      make(map[string]int, len(levels)),
	}
	copy(t.levels, levels)
	for i, level := range levels {
		if _, dup := t.index[level]; dup {
			return nil, fmt.Errorf("pay scale %s: duplicate level %q", id, level)
		}
		col := columns[level]
		if len(col) == 0 {
			return nil, fmt.Errorf("pay scale %s: level %q has no steps", id, level)
		}
		for step := range col {
			if col[step].IsNegative() {
				return nil, fmt.Errorf("pay scale %s: level %q step %d is negative", id, level, step+1)
			}
			if step > 0 && col[step].LessThan(col[step-1]) {
				return nil, fmt.Errorf("pay scale %s: level %q decreases at step %d", id, level, step+1)
			}
		}
		t.index[level] = i
		t.columns[level] = append([]decimal.Decimal(nil), col...)
	}
	return t, nil
}

// ID identifies the table, e.g. "7th_CPC" or a derived "8th_CPC".
func (t *PayScaleTable) ID() string { return t.id }

// Commission is the ordinal of the pay commission that produced the table.
func (t *PayScaleTable) Commission() int { return t.commission }

// Levels returns the level identifiers in seniority order.
func (t *PayScaleTable) Levels() []string {
	return append([]string(nil), t.levels...)
}

// LevelIndex returns the seniority position of a level.
func (t *PayScaleTable) LevelIndex(level string) (int, bool) {
	i, ok := t.index[level]
	return i, ok
}

// Steps returns the number of populated steps for a level (0 if absent).
func (t *PayScaleTable) Steps(level string) int {
	return len(t.columns[level])
}

// MaxSteps returns the longest column length.
func (t *PayScaleTable) MaxSteps() int {
	n := 0
	for _, col := range t.columns {
		if len(col) > n {
			n = len(col)
		}
	}
	return n
}

// Column returns a copy of a level's populated steps.
func (t *PayScaleTable) Column(level string) ([]decimal.Decimal, error) {
	col, ok := t.columns[level]
	if !ok {
		return nil, fmt.Errorf("level %q in %s: %w", level, t.id, ErrNotFound)
	}
	return append([]decimal.Decimal(nil), col...), nil
}

// Ceiling returns the highest pay of a level.
func (t *PayScaleTable) Ceiling(level string) (decimal.Decimal, error) {
	col, ok := t.columns[level]
	if !ok {
		return decimal.Zero, fmt.Errorf("level %q in %s: %w", level, t.id, ErrNotFound)
	}
	return col[len(col)-1], nil
}

// BasicPay returns the pay at (level, step). Steps past the level's range
// return the ceiling.
func (t *PayScaleTable) BasicPay(level string, step int) (decimal.Decimal, error) {
	col, ok := t.columns[level]
	if !ok {
		return decimal.Zero, fmt.Errorf("level %q in %s: %w", level, t.id, ErrNotFound)
	}
	if step < 1 {
		return decimal.Zero, fmt.Errorf("step %d of level %q: %w", step, level, ErrNotFound)
	}
	if step > len(col) {
		return col[len(col)-1], nil
	}
	return col[step-1], nil
}

// Locate finds the (level, step) whose pay equals amount, preferring the
// highest level and, within it, the lowest step.
func (t *PayScaleTable) Locate(amount decimal.Decimal) (string, int, error) {
	for i := len(t.levels) - 1; i >= 0; i-- {
		level := t.levels[i]
		for step, pay := range t.columns[level] {
			if pay.Equal(amount) {
				return level, step + 1, nil
			}
		}
	}
	return "", 0, fmt.Errorf("pay %s in %s: %w", amount.String(), t.id, ErrNotFound)
}

// Derive returns a new table with every cell transformed by fn, keeping the
// per-level step counts.
func (t *PayScaleTable) Derive(id string, commission int, fn func(decimal.Decimal) decimal.Decimal) (*PayScaleTable, error) {
	columns := make(map[string][]decimal.Decimal, len(t.levels))
	for _, level := range t.levels {
		src := t.columns[level]
		col := make([]decimal.Decimal, len(src))
		for i, v := range src {
			col[i] = fn(v)
		}
		columns[level] = col
	}
	return NewPayScaleTable(id, commission, t.levels, columns)
}
