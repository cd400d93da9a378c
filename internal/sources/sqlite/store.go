// Package sqlite reads time entries from a local tracker database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"asakatsu/internal/core"
	"asakatsu/internal/sources"

	_ "modernc.org/sqlite"
)

// Store is a read-only view over the time_entries table.
type Store struct {
	db *sql.DB
}

var (
	_ sources.EntryFetcher = (*Store)(nil)
	_ sources.Named        = (*Store)(nil)
)

// Open opens (or creates) the database at dbPath and ensures the schema exists.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Name implements sources.Named.
func (s *Store) Name() string { return "sqlite" }

// FetchEntries returns entries whose start_time falls within r. Timestamps are
// stored as RFC 3339 text, so the range is compared lexically against the day
// boundaries.
func (s *Store) FetchEntries(ctx context.Context, r sources.DateRange) ([]core.TimeEntry, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid date range %s", r)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT project_id, start_time, end_time, duration
		 FROM time_entries
		 WHERE start_time >= ? AND start_time < ?
		 ORDER BY start_time`,
		r.Start.String(), r.End.AddDays(1).String())
	if err != nil {
		return nil, fmt.Errorf("query time entries: %w", err)
	}
	defer rows.Close()

	var out []core.TimeEntry
	for rows.Next() {
		var (
			projectID sql.NullInt64
			startStr  string
			endStr    sql.NullString
			duration  int64
		)
		if err := rows.Scan(&projectID, &startStr, &endStr, &duration); err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		start, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			return nil, fmt.Errorf("parse start_time %q: %w", startStr, err)
		}
		e := core.TimeEntry{Start: start, ProjectID: projectID.Int64, Duration: duration}
		if endStr.Valid && endStr.String != "" {
			stop, err := time.Parse(time.RFC3339, endStr.String)
			if err != nil {
				return nil, fmt.Errorf("parse end_time %q: %w", endStr.String, err)
			}
			e.Stop = &stop
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate time entries: %w", err)
	}

	slog.DebugContext(ctx, "Read time entries from SQLite", "range", r.String(), "count", len(out))
	return out, nil
}
