package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"asakatsu/internal/core"
	"asakatsu/internal/heatmap"
	"asakatsu/internal/sources"
)

// DashboardOptions configures how entries are bucketed into days.
type DashboardOptions struct {
	Categories    core.CategoryMap
	Location      *time.Location
	TrackingStart core.Date
	IncludeToday  bool
	Now           func() time.Time
}

// DashboardService runs the fetch, normalize and aggregate pipeline for one
// year on every call. Nothing is kept between calls.
type DashboardService struct {
	source        sources.EntryFetcher
	categories    core.CategoryMap
	loc           *time.Location
	trackingStart core.Date
	includeToday  bool
	now           func() time.Time
}

// YearView is everything the presentation layer needs for one year.
type YearView struct {
	Selection core.YearSelection
	Year      int
	Range     sources.DateRange
	Source    string
	Entries   int
	Frame     core.YearFrame
	Calendars []heatmap.Calendar
}

func NewDashboardService(source sources.EntryFetcher, opts DashboardOptions) (*DashboardService, error) {
	if source == nil {
		return nil, errors.New("entry source is required")
	}
	if err := opts.Categories.Validate(); err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	if opts.TrackingStart.IsZero() {
		return nil, errors.New("tracking start is required")
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &DashboardService{
		source:        source,
		categories:    opts.Categories,
		loc:           loc,
		trackingStart: opts.TrackingStart,
		includeToday:  opts.IncludeToday,
		now:           now,
	}, nil
}

// Categories returns the configured categories in panel order.
func (s *DashboardService) Categories() core.CategoryMap {
	return s.categories
}

// FetchRange is tracking start through today (or yesterday) in the target zone.
func (s *DashboardService) FetchRange() sources.DateRange {
	end := core.DateOf(s.now().In(s.loc))
	if !s.includeToday {
		end = end.AddDays(-1)
	}
	return sources.DateRange{Start: s.trackingStart, End: end}
}

// YearView fetches every entry since tracking start and builds the year the
// selection points at.
func (s *DashboardService) YearView(ctx context.Context, sel core.YearSelection) (*YearView, error) {
	if !sel.IsValid() {
		return nil, core.ErrInvalidYearSelection
	}
	year := sel.Year(s.now(), s.loc)
	if err := core.ValidateYear(year); err != nil {
		return nil, err
	}

	view := &YearView{
		Selection: sel,
		Year:      year,
		Range:     s.FetchRange(),
		Source:    sourceName(s.source),
	}

	var entries []core.Entry
	yearStart, yearEnd := core.NewDate(year, 1, 1), core.NewDate(year, 12, 31)
	switch {
	case !view.Range.Valid():
		slog.WarnContext(ctx, "Tracking start is in the future, nothing to fetch",
			"range", view.Range.String())
	case yearEnd.Before(view.Range.Start) || yearStart.After(view.Range.End):
		slog.DebugContext(ctx, "Year lies outside the tracked range, nothing to fetch",
			"year", year,
			"range", view.Range.String())
	default:
		raw, err := s.source.FetchEntries(ctx, view.Range)
		if err != nil {
			return nil, fmt.Errorf("fetch entries from %s: %w", view.Source, err)
		}
		entries = core.Normalize(raw, s.loc)
		slog.DebugContext(ctx, "Fetched time entries",
			"source", view.Source,
			"range", view.Range.String(),
			"raw", len(raw),
			"complete", len(entries))
	}

	view.Frame = core.BuildYearView(entries, year, s.categories)
	view.Entries = len(core.FilterYear(entries, year))
	view.Calendars = make([]heatmap.Calendar, 0, len(view.Frame.Series))
	for _, key := range s.categories.Keys() {
		cal, err := heatmap.Layout(view.Frame, key)
		if err != nil {
			return nil, fmt.Errorf("lay out %s: %w", key, err)
		}
		view.Calendars = append(view.Calendars, cal)
	}
	return view, nil
}

func sourceName(src sources.EntryFetcher) string {
	if n, ok := src.(sources.Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", src)
}
