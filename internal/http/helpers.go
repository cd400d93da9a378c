package http

import (
	"context"
	"net/http"
	"strings"

	"asakatsu/internal/core"
	"asakatsu/internal/heatmap"
	"asakatsu/internal/log"
	"asakatsu/internal/middleware/trace"
	"asakatsu/internal/services"
)

// parseSelection reads ?ago=N. Invalid values fall back to this year.
func parseSelection(r *http.Request) core.YearSelection {
	raw := strings.TrimSpace(r.URL.Query().Get("ago"))
	if raw == "" {
		return core.ThisYear
	}
	sel, err := core.ParseYearSelection(raw)
	if err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Invalid year selection",
			"ago", raw, "corrected_to", int(core.ThisYear))
	}
	return sel
}

type selectionOption struct {
	Value  int
	Label  string
	Active bool
}

type yearData struct {
	Selections []selectionOption
	Year       int
	Entries    int
	Source     string
	Calendars  []heatmap.Calendar
	Error      string
	RequestID  string
}

func newYearData(ctx context.Context, sel core.YearSelection, view *services.YearView, err error) yearData {
	d := yearData{}
	for _, opt := range core.YearSelections() {
		d.Selections = append(d.Selections, selectionOption{
			Value:  int(opt),
			Label:  opt.Label(),
			Active: opt == sel,
		})
	}
	if err != nil {
		d.Error = "Could not load time entries. Try again later."
		d.RequestID = trace.GetRequestID(ctx)
		return d
	}
	d.Year = view.Year
	d.Entries = view.Entries
	d.Source = view.Source
	d.Calendars = view.Calendars
	return d
}

func isGetOrHead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	w.WriteHeader(http.StatusMethodNotAllowed)
	return false
}
