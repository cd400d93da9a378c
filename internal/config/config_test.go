package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:            "8081",
		LogLevel:        "info",
		EntrySource:     "toggl",
		TogglAPIToken:   "secret",
		TogglBaseURL:    "https://api.track.toggl.com",
		TogglTimeout:    30 * time.Second,
		TrackingStart:   "2022-12-01",
		TimezoneOffset:  9 * time.Hour,
		WorldGeoJSONURL: defaultWorldGeoJSON,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid toggl config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
		{
			name:        "invalid entry source",
			mutate:      func(c *Config) { c.EntrySource = "csv" },
			wantErr:     true,
			errorString: "invalid entry source 'csv': must be one of [toggl file sqlite sheets]",
		},
		{
			name:        "toggl source without token",
			mutate:      func(c *Config) { c.TogglAPIToken = "" },
			wantErr:     true,
			errorString: "Toggl API token is required",
		},
		{
			name:        "toggl source with bad base URL",
			mutate:      func(c *Config) { c.TogglBaseURL = "ftp://toggl" },
			wantErr:     true,
			errorString: "invalid Toggl base URL",
		},
		{
			name: "file source needs no token",
			mutate: func(c *Config) {
				c.EntrySource = "file"
				c.TogglAPIToken = ""
				c.EntriesFile = "./data/time_entries.json"
			},
			wantErr: false,
		},
		{
			name: "file source missing path",
			mutate: func(c *Config) {
				c.EntrySource = "file"
				c.EntriesFile = ""
			},
			wantErr:     true,
			errorString: "entries file path cannot be empty",
		},
		{
			name: "sqlite source missing database path",
			mutate: func(c *Config) {
				c.EntrySource = "sqlite"
				c.SQLiteDBPath = ""
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty when using sqlite source",
		},
		{
			name: "sheets source missing spreadsheet ID",
			mutate: func(c *Config) {
				c.EntrySource = "sheets"
				c.GoogleSheetName = "Entries"
			},
			wantErr:     true,
			errorString: "Google Spreadsheet ID is required when using sheets source",
		},
		{
			name: "sheets source with missing credentials file",
			mutate: func(c *Config) {
				c.EntrySource = "sheets"
				c.GoogleSpreadsheetID = "123456789"
				c.GoogleSheetName = "Entries"
				c.GoogleServiceAccountFile = "/non/existent/file.json"
			},
			wantErr:     true,
			errorString: "Google service account file does not exist",
		},
		{
			name:        "timeout too short",
			mutate:      func(c *Config) { c.TogglTimeout = 500 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid Toggl timeout 500ms: must be at least 1 second",
		},
		{
			name:        "bad tracking start",
			mutate:      func(c *Config) { c.TrackingStart = "01/12/2022" },
			wantErr:     true,
			errorString: "invalid tracking start '01/12/2022'",
		},
		{
			name:        "timezone offset out of range",
			mutate:      func(c *Config) { c.TimezoneOffset = 15 * time.Hour },
			wantErr:     true,
			errorString: "invalid timezone offset",
		},
		{
			name:        "bad category map",
			mutate:      func(c *Config) { c.CategoryMap = "training:abc" },
			wantErr:     true,
			errorString: "invalid category map",
		},
		{
			name:        "bad profile link",
			mutate:      func(c *Config) { c.ProfileLinks = "Twitter" },
			wantErr:     true,
			errorString: "invalid profile link",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.TogglAPIToken = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invalid port") || !strings.Contains(err.Error(), "Toggl API token") {
		t.Errorf("want both problems reported, got %v", err)
	}
}

func TestConfig_ValidateWithFiles(t *testing.T) {
	tmpDir := t.TempDir()
	saFile := filepath.Join(tmpDir, "sa.json")
	if err := os.WriteFile(saFile, []byte(`{"type":"service_account"}`), 0644); err != nil {
		t.Fatalf("Failed to create test credentials file: %v", err)
	}

	cfg := validConfig()
	cfg.EntrySource = "sheets"
	cfg.GoogleSpreadsheetID = "123456789"
	cfg.GoogleSheetName = "Entries"
	cfg.GoogleServiceAccountFile = saFile
	if err := cfg.Validate(); err != nil {
		t.Errorf("Config.Validate() error = %v", err)
	}

	cfg = validConfig()
	cfg.EntrySource = "sqlite"
	cfg.SQLiteDBPath = filepath.Join(tmpDir, "nested", "asakatsu.db")
	if err := cfg.Validate(); err != nil {
		t.Errorf("Config.Validate() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "nested")); err != nil {
		t.Errorf("expected sqlite directory to be created: %v", err)
	}
}

func TestLoad(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENTRY_SOURCE", "TOGGL_API_TOKEN", "API_KEY", "TOGGL_TIMEOUT",
		"TIMEZONE_OFFSET", "INCLUDE_TODAY", "TRACKING_START", "CATEGORY_MAP",
	} {
		t.Setenv(key, "")
	}

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "8081" {
			t.Errorf("Load() Port = %v, want 8081", cfg.Port)
		}
		if cfg.EntrySource != "toggl" {
			t.Errorf("Load() EntrySource = %v, want toggl", cfg.EntrySource)
		}
		if cfg.TrackingStart != "2022-12-01" {
			t.Errorf("Load() TrackingStart = %v, want 2022-12-01", cfg.TrackingStart)
		}
		if cfg.TimezoneOffset != 9*time.Hour {
			t.Errorf("Load() TimezoneOffset = %v, want 9h", cfg.TimezoneOffset)
		}
		if cfg.IncludeToday {
			t.Errorf("Load() IncludeToday = true, want false")
		}
		if cfg.TogglTimeout != 30*time.Second {
			t.Errorf("Load() TogglTimeout = %v, want 30s", cfg.TogglTimeout)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("ENTRY_SOURCE", "file")
		t.Setenv("TOGGL_TIMEOUT", "5s")
		t.Setenv("TIMEZONE_OFFSET", "-5h30m")
		t.Setenv("INCLUDE_TODAY", "true")

		cfg := Load()

		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.EntrySource != "file" {
			t.Errorf("Load() EntrySource = %v, want file", cfg.EntrySource)
		}
		if cfg.TogglTimeout != 5*time.Second {
			t.Errorf("Load() TogglTimeout = %v, want 5s", cfg.TogglTimeout)
		}
		if !cfg.IncludeToday {
			t.Errorf("Load() IncludeToday = false, want true")
		}
		if name, off := time.Date(2023, 1, 1, 0, 0, 0, 0, cfg.Location()).Zone(); name != "UTC-05:30" || off != -(5*3600+1800) {
			t.Errorf("Location() = %s %d", name, off)
		}
	})

	t.Run("API_KEY fallback", func(t *testing.T) {
		t.Setenv("API_KEY", "legacy")
		if got := Load().TogglAPIToken; got != "legacy" {
			t.Errorf("Load() TogglAPIToken = %q, want legacy", got)
		}
		t.Setenv("TOGGL_API_TOKEN", "preferred")
		if got := Load().TogglAPIToken; got != "preferred" {
			t.Errorf("Load() TogglAPIToken = %q, want preferred", got)
		}
	})
}

func TestConfig_Categories(t *testing.T) {
	cfg := validConfig()
	cats, err := cfg.Categories()
	if err != nil {
		t.Fatalf("Categories() error = %v", err)
	}
	if len(cats) != 4 {
		t.Errorf("default categories = %d, want 4", len(cats))
	}

	cfg.CategoryMap = "run:42:Running"
	cats, err = cfg.Categories()
	if err != nil || len(cats) != 1 || cats[0].ProjectID != 42 {
		t.Errorf("Categories() = %+v, %v", cats, err)
	}
}

func TestConfig_Links(t *testing.T) {
	cfg := validConfig()
	cfg.ProfileLinks = "Twitter|https://twitter.com/x, Booklog|https://booklog.jp/users/y"
	links, err := cfg.Links()
	if err != nil {
		t.Fatalf("Links() error = %v", err)
	}
	if len(links) != 2 || links[1].Label != "Booklog" || links[1].URL != "https://booklog.jp/users/y" {
		t.Errorf("Links() = %+v", links)
	}
}
