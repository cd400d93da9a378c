package core

import (
	"strconv"
	"strings"
	"time"
)

// YearSelection is the 3-way year toggle: how many years before the current one to show.
type YearSelection int

const (
	ThisYear YearSelection = iota
	OneYearAgo
	TwoYearsAgo
)

// YearSelections returns the toggle options in display order.
func YearSelections() []YearSelection {
	return []YearSelection{ThisYear, OneYearAgo, TwoYearsAgo}
}

// ParseYearSelection accepts "0", "1" or "2".
func ParseYearSelection(s string) (YearSelection, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return ThisYear, ErrInvalidYearSelection
	}
	sel := YearSelection(n)
	if !sel.IsValid() {
		return ThisYear, ErrInvalidYearSelection
	}
	return sel, nil
}

// IsValid returns true for the three supported offsets.
func (s YearSelection) IsValid() bool {
	return s >= ThisYear && s <= TwoYearsAgo
}

// Year resolves the selection against the current time in loc.
func (s YearSelection) Year(now time.Time, loc *time.Location) int {
	return now.In(loc).Year() - int(s)
}

// Label is the text shown on the toggle.
func (s YearSelection) Label() string {
	switch s {
	case OneYearAgo:
		return "1 year ago"
	case TwoYearsAgo:
		return "2 years ago"
	default:
		return "this year"
	}
}
