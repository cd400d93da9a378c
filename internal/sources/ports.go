package sources

import (
	"context"

	"asakatsu/internal/core"
)

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start core.Date
	End   core.Date
}

// Ports for inbound entry sources.
type (
	// EntryFetcher returns the raw time entries recorded within a date range.
	EntryFetcher interface {
		FetchEntries(ctx context.Context, r DateRange) ([]core.TimeEntry, error)
	}

	// Named is implemented by sources that can describe themselves in logs.
	Named interface {
		Name() string
	}
)

// Contains reports whether d lies within the range.
func (r DateRange) Contains(d core.Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Valid reports whether the range is non-empty.
func (r DateRange) Valid() bool {
	return !r.Start.IsZero() && !r.End.IsZero() && !r.End.Before(r.Start)
}

func (r DateRange) String() string {
	return r.Start.String() + ".." + r.End.String()
}
