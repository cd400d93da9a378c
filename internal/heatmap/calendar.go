// Package heatmap lays out a category series as a calendar heatmap: one
// column per week, Monday on the top row, each day bucketed onto a
// five-step green scale with a neutral cell for days without entries.
package heatmap

import (
	"fmt"
	"math"
	"time"

	"asakatsu/internal/core"
)

// Levels is the number of colour steps for present days.
const Levels = 5

// Absent is the level of a day with no entries.
const Absent = -1

var (
	// Greens is the five-class ColorBrewer Greens scale, lightest first.
	Greens = [Levels]string{"#edf8e9", "#bae4b3", "#74c476", "#31a354", "#006d2c"}
	// AbsentColor fills days that have no value.
	AbsentColor = "#f5f5f5"
)

// Geometry of the SVG grid, in user units.
const (
	CellSize   = 11
	CellGap    = 2
	LeftMargin = 28
	TopMargin  = 16
)

type (
	// Cell is one day of the calendar.
	Cell struct {
		Date    core.Date
		Week    int
		Weekday int // 0 = Monday
		Value   core.DayValue
		Level   int
	}

	// MonthLabel marks the first week column of a month.
	MonthLabel struct {
		Name string
		Week int
	}

	// Calendar is the laid out heatmap of one category and year.
	Calendar struct {
		Year       int
		Category   core.Category
		Weeks      int
		Cells      []Cell
		Months     []MonthLabel
		Max        int64
		Total      int64
		ActiveDays int
	}
)

// Weekday returns the Monday-first row index of d.
func Weekday(d core.Date) int {
	return (int(d.Weekday()) + 6) % 7
}

// Week returns the column of d within its year. Column 0 holds Jan 1.
func Week(d core.Date) int {
	jan1 := core.NewDate(d.Year(), 1, 1)
	return (d.YearDay() - 1 + Weekday(jan1)) / 7
}

// Level buckets v against the series maximum. Present zeros map to the
// lightest step, so they stay distinguishable from absent days.
func Level(v core.DayValue, max int64) int {
	if !v.Present {
		return Absent
	}
	if v.Seconds <= 0 || max <= 0 {
		return 0
	}
	l := int(math.Ceil(float64(v.Seconds) / float64(max) * float64(Levels-1)))
	if l < 1 {
		l = 1
	}
	if l > Levels-1 {
		l = Levels - 1
	}
	return l
}

// Color returns the fill for a level.
func Color(level int) string {
	if level < 0 || level >= Levels {
		return AbsentColor
	}
	return Greens[level]
}

// Layout places every day of the frame's year for the category key.
func Layout(frame core.YearFrame, key string) (Calendar, error) {
	series, ok := frame.Column(key)
	if !ok {
		return Calendar{}, fmt.Errorf("no series for category %q", key)
	}
	return LayoutSeries(frame.Year, frame.Dates, series), nil
}

// LayoutSeries is Layout for an already selected series.
func LayoutSeries(year int, dates []core.Date, series core.Series) Calendar {
	cal := Calendar{
		Year:       year,
		Category:   series.Category,
		Cells:      make([]Cell, 0, len(dates)),
		Max:        series.Max(),
		Total:      series.Total(),
		ActiveDays: series.ActiveDays(),
	}
	for i, d := range dates {
		v := series.At(i)
		c := Cell{
			Date:    d,
			Week:    Week(d),
			Weekday: Weekday(d),
			Value:   v,
			Level:   Level(v, cal.Max),
		}
		if c.Week+1 > cal.Weeks {
			cal.Weeks = c.Week + 1
		}
		if d.Day() == 1 {
			cal.Months = append(cal.Months, MonthLabel{
				Name: time.Month(d.Month()).String()[:3],
				Week: c.Week,
			})
		}
		cal.Cells = append(cal.Cells, c)
	}
	return cal
}

// X is the left edge of the cell in the SVG grid.
func (c Cell) X() int { return LeftMargin + c.Week*(CellSize+CellGap) }

// Y is the top edge of the cell in the SVG grid.
func (c Cell) Y() int { return TopMargin + c.Weekday*(CellSize+CellGap) }

// Color is the fill of the cell.
func (c Cell) Color() string { return Color(c.Level) }

// Title is the hover text of the cell.
func (c Cell) Title() string {
	if !c.Value.Present {
		return c.Date.String() + ": no entries"
	}
	return c.Date.String() + ": " + core.FormatSeconds(c.Value.Seconds)
}

// X is the left edge of the label.
func (m MonthLabel) X() int { return LeftMargin + m.Week*(CellSize+CellGap) }

// Width of the SVG viewport.
func (c Calendar) Width() int { return LeftMargin + c.Weeks*(CellSize+CellGap) }

// Height of the SVG viewport.
func (c Calendar) Height() int { return TopMargin + 7*(CellSize+CellGap) }

// RowLabel names a weekday row.
type RowLabel struct {
	Name string
	Y    int
}

// DayLabels returns the labels of every other row.
func (c Calendar) DayLabels() []RowLabel {
	names := []string{"Mon", "", "Wed", "", "Fri", "", "Sun"}
	out := make([]RowLabel, 0, 4)
	for i, n := range names {
		if n == "" {
			continue
		}
		out = append(out, RowLabel{Name: n, Y: TopMargin + i*(CellSize+CellGap) + CellSize - 2})
	}
	return out
}

// Legend lists the scale from absent to the darkest step.
func Legend() []string {
	out := []string{AbsentColor}
	return append(out, Greens[:]...)
}
