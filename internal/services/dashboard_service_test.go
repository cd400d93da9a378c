package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"asakatsu/internal/core"
	"asakatsu/internal/sources"
	"asakatsu/internal/sources/memory"
)

var jst = time.FixedZone("JST", 9*3600)

type failingSource struct{ calls int }

func (f *failingSource) FetchEntries(context.Context, sources.DateRange) ([]core.TimeEntry, error) {
	f.calls++
	return nil, errors.New("upstream down")
}

type recordingSource struct {
	*memory.Store
	got []sources.DateRange
}

func (r *recordingSource) FetchEntries(ctx context.Context, dr sources.DateRange) ([]core.TimeEntry, error) {
	r.got = append(r.got, dr)
	return r.Store.FetchEntries(ctx, dr)
}

func stopped(start string, projectID, duration int64) core.TimeEntry {
	st, err := time.Parse(time.RFC3339, start)
	if err != nil {
		panic(err)
	}
	stop := st.Add(time.Duration(duration) * time.Second)
	return core.TimeEntry{Start: st, Stop: &stop, ProjectID: projectID, Duration: duration}
}

func fixedNow(s string) func() time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func newService(t *testing.T, src sources.EntryFetcher, includeToday bool) *DashboardService {
	t.Helper()
	svc, err := NewDashboardService(src, DashboardOptions{
		Categories:    core.DefaultCategoryMap(),
		Location:      jst,
		TrackingStart: core.NewDate(2022, 12, 1),
		IncludeToday:  includeToday,
		Now:           fixedNow("2023-06-10T20:00:00Z"), // 2023-06-11 in JST
	})
	if err != nil {
		t.Fatalf("NewDashboardService: %v", err)
	}
	return svc
}

func TestDashboardService_FetchRange(t *testing.T) {
	src := memory.New()

	r := newService(t, src, false).FetchRange()
	if r.Start.String() != "2022-12-01" || r.End.String() != "2023-06-10" {
		t.Errorf("exclusive today range = %s", r)
	}

	r = newService(t, src, true).FetchRange()
	if r.End.String() != "2023-06-11" {
		t.Errorf("inclusive today range = %s", r)
	}
}

func TestDashboardService_YearView(t *testing.T) {
	running := stopped("2023-01-05T00:00:00Z", 187670676, -1)
	running.Stop = nil
	src := &recordingSource{Store: memory.New(
		// 21:30Z on Jan 4 is Jan 5 in JST.
		stopped("2023-01-04T21:30:00Z", 187670676, 1800),
		stopped("2023-01-05T08:00:00+09:00", 187670676, 600),
		running,
		stopped("2022-12-20T07:00:00+09:00", 187670687, 900),
	)}

	view, err := newService(t, src, false).YearView(context.Background(), core.ThisYear)
	if err != nil {
		t.Fatalf("YearView: %v", err)
	}
	if view.Year != 2023 {
		t.Fatalf("year = %d, want 2023", view.Year)
	}
	if len(src.got) != 1 || src.got[0].Start.String() != "2022-12-01" {
		t.Fatalf("fetch ranges = %v", src.got)
	}
	if got := view.Frame.Value("training", core.NewDate(2023, 1, 5)); !got.Present || got.Seconds != 2400 {
		t.Errorf("training on 2023-01-05 = %+v, want 2400", got)
	}
	if view.Entries != 2 {
		t.Errorf("entries in year = %d, want 2", view.Entries)
	}
	if view.Source != "file" {
		t.Errorf("source = %q, want file", view.Source)
	}
	if len(view.Calendars) != 4 || view.Calendars[0].Category.Key != "training" || view.Calendars[1].Category.Key != "books" {
		t.Errorf("unexpected calendars order")
	}

	prev, err := newService(t, src, false).YearView(context.Background(), core.OneYearAgo)
	if err != nil {
		t.Fatalf("YearView(1): %v", err)
	}
	if prev.Year != 2022 || prev.Frame.Len() != 365 {
		t.Fatalf("previous year view = %d / %d rows", prev.Year, prev.Frame.Len())
	}
	if got := prev.Frame.Value("books", core.NewDate(2022, 12, 20)); got.Seconds != 900 {
		t.Errorf("books on 2022-12-20 = %+v", got)
	}
}

func TestDashboardService_InvalidSelection(t *testing.T) {
	_, err := newService(t, memory.New(), false).YearView(context.Background(), core.YearSelection(5))
	if !errors.Is(err, core.ErrInvalidYearSelection) {
		t.Fatalf("err = %v, want ErrInvalidYearSelection", err)
	}
}

func TestDashboardService_SourceError(t *testing.T) {
	src := &failingSource{}
	_, err := newService(t, src, false).YearView(context.Background(), core.ThisYear)
	if err == nil {
		t.Fatal("expected error")
	}
	if src.calls != 1 {
		t.Errorf("calls = %d, want 1 (no retries)", src.calls)
	}
}

func TestDashboardService_FutureTrackingStart(t *testing.T) {
	src := &failingSource{}
	svc, err := NewDashboardService(src, DashboardOptions{
		Categories:    core.DefaultCategoryMap(),
		Location:      jst,
		TrackingStart: core.NewDate(2030, 1, 1),
		Now:           fixedNow("2023-06-10T20:00:00Z"),
	})
	if err != nil {
		t.Fatal(err)
	}
	view, err := svc.YearView(context.Background(), core.ThisYear)
	if err != nil {
		t.Fatalf("YearView: %v", err)
	}
	if src.calls != 0 {
		t.Errorf("source should not be called for an empty range")
	}
	if view.Frame.Len() != 365 {
		t.Errorf("rows = %d, want 365", view.Frame.Len())
	}
}

func TestDashboardService_YearBeforeTrackingStart(t *testing.T) {
	src := &failingSource{}
	svc := newService(t, src, false)

	view, err := svc.YearView(context.Background(), core.TwoYearsAgo)
	if err != nil {
		t.Fatalf("YearView(2021): %v", err)
	}
	if src.calls != 0 {
		t.Errorf("source called %d times for a year before tracking start", src.calls)
	}
	if view.Year != 2021 || view.Frame.Len() != 365 {
		t.Errorf("year=%d rows=%d", view.Year, view.Frame.Len())
	}
	for _, s := range view.Frame.Series {
		if s.ActiveDays() != 0 {
			t.Errorf("%s has %d active days, want none", s.Category.Key, s.ActiveDays())
		}
	}

	// the tracked year still reaches the source
	if _, err := svc.YearView(context.Background(), core.OneYearAgo); err == nil || src.calls != 1 {
		t.Errorf("2022 overlaps tracking: err=%v calls=%d", err, src.calls)
	}
}

func TestNewDashboardService_Validation(t *testing.T) {
	if _, err := NewDashboardService(nil, DashboardOptions{}); err == nil {
		t.Error("expected error without source")
	}
	if _, err := NewDashboardService(memory.New(), DashboardOptions{}); err == nil {
		t.Error("expected error without categories")
	}
	if _, err := NewDashboardService(memory.New(), DashboardOptions{Categories: core.DefaultCategoryMap()}); err == nil {
		t.Error("expected error without tracking start")
	}
}
