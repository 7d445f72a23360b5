package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Half identifies which half of a calendar year a period covers.
type Half int

const (
	// H1 is the January-start half. Promotions and pay commissions fire here.
	H1 Half = 1
	// H2 is the July-start half. Annual increments fire here.
	H2 Half = 2
)

// HalfYear is the composite period key shared by every timeline in the engine.
// Periods are totally ordered by Index.
type HalfYear struct {
	Year int
	Half Half
}

// HalfYearOf returns the half-year containing t. Months after June belong to H2.
func HalfYearOf(t time.Time) HalfYear {
	if t.Month() > time.June {
		return HalfYear{Year: t.Year(), Half: H2}
	}
	return HalfYear{Year: t.Year(), Half: H1}
}

// HalfYearFromIndex is the inverse of Index.
func HalfYearFromIndex(i int) HalfYear {
	return HalfYear{Year: i / 2, Half: Half(i%2 + 1)}
}

// ParseHalfYear parses the "YYYY.0" / "YYYY.5" notation used by data files and reports.
func ParseHalfYear(s string) (HalfYear, error) {
	s = strings.TrimSpace(s)
	yearPart, fracPart, found := strings.Cut(s, ".")
	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return HalfYear{}, fmt.Errorf("invalid half-year %q: %w", s, err)
	}
	if !found {
		return HalfYear{Year: year, Half: H1}, nil
	}
	switch strings.TrimRight(fracPart, "0") {
	case "":
		return HalfYear{Year: year, Half: H1}, nil
	case "5":
		return HalfYear{Year: year, Half: H2}, nil
	default:
		return HalfYear{}, fmt.Errorf("invalid half-year %q: fraction must be .0 or .5", s)
	}
}

// Index returns a dense ordinal: consecutive half-years differ by one.
func (h HalfYear) Index() int {
	return h.Year*2 + int(h.Half) - 1
}

func (h HalfYear) Next() HalfYear { return HalfYearFromIndex(h.Index() + 1) }

func (h HalfYear) Prev() HalfYear { return HalfYearFromIndex(h.Index() - 1) }

// Add moves n half-years forward (or backward for negative n).
func (h HalfYear) Add(n int) HalfYear { return HalfYearFromIndex(h.Index() + n) }

// Sub returns the number of half-years from o to h.
func (h HalfYear) Sub(o HalfYear) int { return h.Index() - o.Index() }

// Compare returns -1, 0 or +1.
func (h HalfYear) Compare(o HalfYear) int {
	switch d := h.Index() - o.Index(); {
	case d < 0:
		return -1
	case d > 0:
		return 1
	default:
		return 0
	}
}

func (h HalfYear) Before(o HalfYear) bool { return h.Index() < o.Index() }

func (h HalfYear) After(o HalfYear) bool { return h.Index() > o.Index() }

// IsMidYear reports whether the period starts on 1 July.
func (h HalfYear) IsMidYear() bool { return h.Half == H2 }

// FirstMonth returns the first calendar month of the period.
func (h HalfYear) FirstMonth() YearMonth {
	if h.Half == H2 {
		return YearMonth{Year: h.Year, Month: time.July}
	}
	return YearMonth{Year: h.Year, Month: time.January}
}

// Months returns the six calendar months of the period in order.
func (h HalfYear) Months() []YearMonth {
	months := make([]YearMonth, 0, 6)
	for m := h.FirstMonth(); len(months) < 6; m = m.Next() {
		months = append(months, m)
	}
	return months
}

// Float returns the legacy numeric key: integer.0 for H1, integer.5 for H2.
func (h HalfYear) Float() float64 {
	if h.Half == H2 {
		return float64(h.Year) + 0.5
	}
	return float64(h.Year)
}

func (h HalfYear) String() string {
	if h.Half == H2 {
		return fmt.Sprintf("%d.5", h.Year)
	}
	return fmt.Sprintf("%d.0", h.Year)
}

func (h HalfYear) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *HalfYear) UnmarshalText(text []byte) error {
	parsed, err := ParseHalfYear(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// YearMonth is a calendar month key for the monthly salary and contribution series.
type YearMonth struct {
	Year  int
	Month time.Month
}

// YearMonthOf returns the calendar month containing t.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// Index returns a dense ordinal: consecutive months differ by one.
func (m YearMonth) Index() int {
	return m.Year*12 + int(m.Month) - 1
}

func (m YearMonth) Next() YearMonth {
	i := m.Index() + 1
	return YearMonth{Year: i / 12, Month: time.Month(i%12 + 1)}
}

func (m YearMonth) Before(o YearMonth) bool { return m.Index() < o.Index() }

func (m YearMonth) After(o YearMonth) bool { return m.Index() > o.Index() }

// HalfYear returns the half-year the month belongs to.
func (m YearMonth) HalfYear() HalfYear {
	if m.Month > time.June {
		return HalfYear{Year: m.Year, Half: H2}
	}
	return HalfYear{Year: m.Year, Half: H1}
}

// Start returns midnight UTC on the first day of the month.
func (m YearMonth) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns midnight UTC on the last day of the month.
func (m YearMonth) End() time.Time {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC)
}

func (m YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m YearMonth) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
