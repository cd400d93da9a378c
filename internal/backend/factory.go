package backend

import (
	"context"
	"fmt"
	"log/slog"

	"asakatsu/internal/sources/google"
	"asakatsu/internal/sources/memory"
	"asakatsu/internal/sources/sqlite"
	"asakatsu/internal/sources/toggl"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case TogglBackend:
		return f.createTogglBackend(config)
	case FileBackend:
		return f.createFileBackend(config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createTogglBackend(config Config) (*BackendResult, error) {
	cli, err := toggl.New(toggl.Config{
		BaseURL: config.TogglBaseURL,
		Token:   config.TogglToken,
		Timeout: config.TogglTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Toggl client: %w", err)
	}

	f.logger.Info("Initialized Toggl backend", "base_url", config.TogglBaseURL, "timeout", config.TogglTimeout)

	return &BackendResult{Backend: cli}, nil
}

func (f *DefaultFactory) createFileBackend(config Config) (*BackendResult, error) {
	store, err := memory.NewFromFile(config.EntriesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries file: %w", err)
	}

	f.logger.Info("Initialized file backend", "entries_file", config.EntriesFile, "entries", store.Len())

	return &BackendResult{Backend: store}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	store, err := sqlite.Open(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Backend: store,
		Cleanup: store.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	cli, err := google.New(ctx, google.Config{
		SpreadsheetID:      config.GoogleSpreadsheetID,
		SheetName:          config.GoogleSheetName,
		ServiceAccountJSON: config.GoogleServiceAccountJSON,
		ServiceAccountFile: config.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend", "spreadsheet_id", config.GoogleSpreadsheetID, "sheet", config.GoogleSheetName)

	return &BackendResult{Backend: cli}, nil
}
