package core

import (
	"errors"
	"time"
)

// DateLayout is the calendar-day layout used on the wire and in exports.
const DateLayout = "2006-01-02"

type (
	// Date is a calendar day at UTC midnight.
	Date struct {
		time.Time
	}

	// TimeEntry is a raw time-tracking record as returned by an entry source.
	// Stop is nil while the entry is still running.
	TimeEntry struct {
		Start     time.Time
		Stop      *time.Time
		ProjectID int64
		Duration  int64 // seconds
	}

	// Entry is a completed TimeEntry whose start has been moved into the
	// dashboard timezone. Only Normalize produces it.
	Entry struct {
		Start     time.Time
		Date      Date
		ProjectID int64
		Duration  int64
	}

	// DayValue is one cell of a YearFrame. Present is false for days without
	// any matching entry, which is not the same as a zero-second total.
	DayValue struct {
		Seconds int64
		Present bool
	}
)

var (
	ErrInvalidYear          = errors.New("invalid year")
	ErrInvalidYearSelection = errors.New("invalid year selection")
	ErrEmptyCategoryKey     = errors.New("empty category key")
	ErrInvalidProjectID     = errors.New("invalid project id")
	ErrDuplicateCategory    = errors.New("duplicate category")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool {
	return d.Time.Before(o.Time)
}

// After reports whether d is strictly after o.
func (d Date) After(o Date) bool {
	return d.Time.After(o.Time)
}

// Running reports whether the entry has no stop time yet.
func (e TimeEntry) Running() bool {
	return e.Stop == nil
}

// ValidateYear checks that year is something a calendar can render.
func ValidateYear(year int) error {
	if year < 1970 || year > 9999 {
		return ErrInvalidYear
	}
	return nil
}
