package core

import (
	"sort"
	"time"
)

// Normalize drops running entries and moves every start into loc.
//
// The date key is the calendar day of the zoned start. Conversion goes through
// the location, so normalizing timestamps that are already in loc is a no-op.
func Normalize(raw []TimeEntry, loc *time.Location) []Entry {
	if loc == nil {
		loc = time.UTC
	}
	out := make([]Entry, 0, len(raw))
	for _, e := range raw {
		if e.Running() {
			continue
		}
		start := e.Start.In(loc)
		out = append(out, Entry{
			Start:     start,
			Date:      DateOf(start),
			ProjectID: e.ProjectID,
			Duration:  e.Duration,
		})
	}
	return out
}

// FilterYear keeps entries dated Jan 1 through Dec 31 of year.
func FilterYear(entries []Entry, year int) []Entry {
	first := NewDate(year, 1, 1)
	last := NewDate(year, 12, 31)
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Date.Before(first) || e.Date.After(last) {
			continue
		}
		out = append(out, e)
	}
	return out
}

type dayProject struct {
	date      Date
	projectID int64
}

// Aggregate sums Duration per (date, project id). Only durations are summed.
// The result is ordered by date, then project id.
func Aggregate(entries []Entry) []ProjectDayTotal {
	sums := make(map[dayProject]int64)
	for _, e := range entries {
		sums[dayProject{date: e.Date, projectID: e.ProjectID}] += e.Duration
	}
	out := make([]ProjectDayTotal, 0, len(sums))
	for k, v := range sums {
		out = append(out, ProjectDayTotal{Date: k.date, ProjectID: k.projectID, Seconds: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ProjectID < out[j].ProjectID
	})
	return out
}

// CategoryTotals renames project totals to category keys and drops
// projects that are not in the map.
func (m CategoryMap) CategoryTotals(totals []ProjectDayTotal) []DailyCategoryTotal {
	out := make([]DailyCategoryTotal, 0, len(totals))
	for _, t := range totals {
		c, ok := m.Lookup(t.ProjectID)
		if !ok {
			continue
		}
		out = append(out, DailyCategoryTotal{Date: t.Date, Category: c.Key, Seconds: t.Seconds})
	}
	return out
}

// BuildYearView is the whole aggregation: filter to year, sum per day and
// project, pivot the mapped projects into one series each and align every
// series on the full date range of the year.
func BuildYearView(entries []Entry, year int, categories CategoryMap) YearFrame {
	dates := YearDates(year)
	frame := YearFrame{
		Year:   year,
		Dates:  dates,
		Series: make([]Series, len(categories)),
	}
	column := make(map[string]int, len(categories))
	for i, c := range categories {
		frame.Series[i] = Series{Category: c, Values: make([]DayValue, len(dates))}
		column[c.Key] = i
	}

	totals := categories.CategoryTotals(Aggregate(FilterYear(entries, year)))
	for _, t := range totals {
		i, ok := column[t.Category]
		if !ok {
			continue
		}
		row := frame.index(t.Date)
		if row < 0 || row >= len(dates) {
			continue
		}
		frame.Series[i].Values[row] = DayValue{Seconds: t.Seconds, Present: true}
	}
	return frame
}
