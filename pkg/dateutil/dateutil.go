package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnsupportedDate is returned when a date string matches none of the accepted layouts.
var ErrUnsupportedDate = errors.New("unsupported date format")

// StatutoryRetirementAge is the age at which service ends unless an early retirement date is given.
const StatutoryRetirementAge = 60

// Accepted layouts, day first. Four-digit years are tried before two-digit ones so
// "9/10/2024" never parses as year 20.
var dateLayouts = []string{
	"2006-01-02",
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2 1 2006",
	"2-Jan-2006",
	"2 Jan 2006",
	"2-January-2006",
	"2 January 2006",
	"2/1/06",
	"2-1-06",
	"2.1.06",
	"2 1 06",
	"2-Jan-06",
	"2 Jan 06",
}

// ParseDate parses a day-first date string. Anything that does not match one of the
// accepted layouts is rejected rather than guessed.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty string", ErrUnsupportedDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnsupportedDate, s)
}

// FormatDate renders a date in the canonical DD/MM/YYYY form used in configuration files.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// Age calculates the age at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// RetirementDate returns the last day of the month in which the given age is reached.
func RetirementDate(birthDate time.Time, retirementAge int) time.Time {
	return LastDayOfMonth(birthDate.AddDate(retirementAge, 0, 0).Year(), birthDate.Month(), birthDate.Location())
}

// LastDayOfMonth returns midnight on the last day of the month.
func LastDayOfMonth(year int, month time.Month, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
}

// DaysInMonth returns the number of days in a calendar month.
func DaysInMonth(year int, month time.Month) int {
	return LastDayOfMonth(year, month, time.UTC).Day()
}

// MonthsBetween returns the number of whole months from start to end (negative if end precedes start).
func MonthsBetween(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()-start.Month())
	if months > 0 && end.Day() < start.Day() {
		months--
	} else if months < 0 && end.Day() > start.Day() {
		months++
	}
	return months
}

// SixMonthPeriods counts the six-month periods between two dates, counting the starting period.
func SixMonthPeriods(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()-start.Month())
	return months/6 + 1
}
