package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"asakatsu/internal/core"
)

const (
	defaultTrackingStart = "2022-12-01"
	defaultWorldGeoJSON  = "https://raw.githubusercontent.com/johan/world.geo.json/master/countries.geo.json"
)

type Config struct {
	// HTTP Server
	Port string

	// Logging
	LogLevel string
	LogFile  string

	// Entry source selection
	EntrySource string

	// Toggl
	TogglAPIToken string
	TogglBaseURL  string
	TogglTimeout  time.Duration

	// Aggregation
	TrackingStart  string
	TimezoneOffset time.Duration
	IncludeToday   bool
	CategoryMap    string

	// File source
	EntriesFile string

	// SQLite source
	SQLiteDBPath string

	// Google Sheets source
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Choropleth
	CountriesFile   string
	WorldGeoJSONURL string

	// Page
	PageTitle      string
	ProfileImage   string
	ProfileCaption string
	ProfileLinks   string
	ProfileFile    string
}

// Link is a labelled profile link shown in the sidebar.
type Link struct {
	Label string
	URL   string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		EntrySource: getEnv("ENTRY_SOURCE", "toggl"),

		TogglAPIToken: getEnv("TOGGL_API_TOKEN", os.Getenv("API_KEY")),
		TogglBaseURL:  getEnv("TOGGL_BASE_URL", "https://api.track.toggl.com"),
		TogglTimeout:  getEnvDuration("TOGGL_TIMEOUT", 30*time.Second),

		TrackingStart:  getEnv("TRACKING_START", defaultTrackingStart),
		TimezoneOffset: getEnvDuration("TIMEZONE_OFFSET", 9*time.Hour),
		IncludeToday:   getEnvBool("INCLUDE_TODAY", false),
		CategoryMap:    getEnv("CATEGORY_MAP", ""),

		EntriesFile: getEnv("ENTRIES_FILE", "./data/time_entries.json"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/asakatsu.db"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", "Entries"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		CountriesFile:   getEnv("COUNTRIES_FILE", "./data/countries.csv"),
		WorldGeoJSONURL: getEnv("WORLD_GEOJSON_URL", defaultWorldGeoJSON),

		PageTitle:      getEnv("PAGE_TITLE", "朝活記録"),
		ProfileImage:   getEnv("PROFILE_IMAGE", ""),
		ProfileCaption: getEnv("PROFILE_CAPTION", ""),
		ProfileLinks:   getEnv("PROFILE_LINKS", ""),
		ProfileFile:    getEnv("PROFILE_FILE", "./data/profile.json"),
	}

	return cfg
}

// Location returns the fixed zone entries are bucketed in.
func (c *Config) Location() *time.Location {
	secs := int(c.TimezoneOffset / time.Second)
	sign := "+"
	off := c.TimezoneOffset
	if off < 0 {
		sign = "-"
		off = -off
	}
	h := int(off / time.Hour)
	m := int(off%time.Hour) / int(time.Minute)
	return time.FixedZone(fmt.Sprintf("UTC%s%02d:%02d", sign, h, m), secs)
}

// Categories returns the configured category map, or the default profile.
func (c *Config) Categories() (core.CategoryMap, error) {
	if strings.TrimSpace(c.CategoryMap) == "" {
		return core.DefaultCategoryMap(), nil
	}
	return core.ParseCategoryMap(c.CategoryMap)
}

// TrackingStartDate parses TRACKING_START.
func (c *Config) TrackingStartDate() (core.Date, error) {
	return core.ParseDate(c.TrackingStart)
}

// Links parses PROFILE_LINKS, a comma separated list of "Label|URL" pairs.
func (c *Config) Links() ([]Link, error) {
	var out []Link
	for _, part := range strings.Split(c.ProfileLinks, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		label, rawURL, ok := strings.Cut(part, "|")
		if !ok || strings.TrimSpace(label) == "" {
			return nil, fmt.Errorf("invalid profile link %q: want Label|URL", part)
		}
		u, err := url.Parse(strings.TrimSpace(rawURL))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return nil, fmt.Errorf("invalid profile link url %q", rawURL)
		}
		out = append(out, Link{Label: strings.TrimSpace(label), URL: u.String()})
	}
	return out, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	// Validate entry source
	validSources := []string{"toggl", "file", "sqlite", "sheets"}
	isValidSource := false
	for _, source := range validSources {
		if c.EntrySource == source {
			isValidSource = true
			break
		}
	}
	if !isValidSource {
		errors = append(errors, fmt.Sprintf("invalid entry source '%s': must be one of %v", c.EntrySource, validSources))
	}

	switch c.EntrySource {
	case "toggl":
		if c.TogglAPIToken == "" {
			errors = append(errors, "Toggl API token is required when using toggl source (set TOGGL_API_TOKEN or run 'asakatsu token set')")
		}
		if u, err := url.Parse(c.TogglBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errors = append(errors, fmt.Sprintf("invalid Toggl base URL '%s'", c.TogglBaseURL))
		}
	case "file":
		if c.EntriesFile == "" {
			errors = append(errors, "entries file path cannot be empty when using file source")
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite source")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	case "sheets":
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets source")
		}
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when using sheets source")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if c.TogglTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid Toggl timeout %v: must be at least 1 second", c.TogglTimeout))
	} else if c.TogglTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid Toggl timeout %v: must be at most 5 minutes", c.TogglTimeout))
	}

	if _, err := c.TrackingStartDate(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid tracking start '%s': want YYYY-MM-DD", c.TrackingStart))
	}

	if c.TimezoneOffset < -14*time.Hour || c.TimezoneOffset > 14*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid timezone offset %v: must be within ±14h", c.TimezoneOffset))
	}

	if _, err := c.Categories(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid category map: %v", err))
	}

	if _, err := c.Links(); err != nil {
		errors = append(errors, err.Error())
	}

	if c.WorldGeoJSONURL != "" {
		if u, err := url.Parse(c.WorldGeoJSONURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errors = append(errors, fmt.Sprintf("invalid world GeoJSON URL '%s'", c.WorldGeoJSONURL))
		}
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
