package memory

import (
	"context"
	"fmt"
	"os"
	"sync"

	"asakatsu/internal/core"
	"asakatsu/internal/sources"
	"asakatsu/internal/sources/toggl"
)

// Store serves time entries held in memory, optionally loaded from a Toggl JSON export.
type Store struct {
	mu    sync.Mutex
	items []core.TimeEntry
}

var (
	_ sources.EntryFetcher = (*Store)(nil)
	_ sources.Named        = (*Store)(nil)
)

func New(entries ...core.TimeEntry) *Store {
	return &Store{items: append([]core.TimeEntry(nil), entries...)}
}

// NewFromFile loads a JSON array in the Toggl time-entries format.
// A missing file yields an empty store.
func NewFromFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read entries file: %w", err)
	}
	entries, err := toggl.DecodeEntries(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return New(entries...), nil
}

// Add appends entries to the store.
func (s *Store) Add(entries ...core.TimeEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, entries...)
}

// Len reports how many entries the store holds.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Name implements sources.Named.
func (s *Store) Name() string { return "file" }

// FetchEntries returns copies of the entries whose start day is within r.
func (s *Store) FetchEntries(_ context.Context, r sources.DateRange) ([]core.TimeEntry, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid date range %s", r)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.TimeEntry, 0, len(s.items))
	for _, e := range s.items {
		if !r.Contains(core.DateOf(e.Start)) {
			continue
		}
		if e.Stop != nil {
			stop := *e.Stop
			e.Stop = &stop
		}
		out = append(out, e)
	}
	return out, nil
}
