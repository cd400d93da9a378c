// Package cli wires configuration, logging, entry sources and the HTTP
// server behind the asakatsu commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"asakatsu/internal/backend"
	"asakatsu/internal/config"
	"asakatsu/internal/credentials"
	"asakatsu/internal/geo"
	"asakatsu/internal/log"
	"asakatsu/internal/profile"
	"asakatsu/internal/services"
)

// now is swapped in tests.
var now = time.Now

// SetupLogger builds the logger from LOG_LEVEL and LOG_FILE and sets it as
// the default logger. It falls back to info on stdout when the file cannot
// be opened.
func SetupLogger(cfg *config.Config) (*log.Logger, io.Closer) {
	logger, closer, err := log.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		logger, closer, _ = log.Setup("info", "")
		logger.Warn("Falling back to stdout logging", log.FieldError, err)
	}
	log.SetDefault(logger)
	return logger, closer
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration, fills the Toggl token from the
// OS keyring when the environment has none, and validates the result.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if cfg.EntrySource == string(backend.TogglBackend) {
		tok, _ := credentials.Resolve(cfg.TogglAPIToken)
		cfg.TogglAPIToken = tok
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewDashboard opens the configured entry source and builds the dashboard
// service over it. The returned result must be closed by the caller.
func NewDashboard(ctx context.Context, cfg *config.Config, logger *log.Logger) (*services.DashboardService, *backend.BackendResult, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	res, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s backend: %w", bcfg.Type, err)
	}

	cats, err := cfg.Categories()
	if err != nil {
		_ = res.Close()
		return nil, nil, err
	}
	start, err := cfg.TrackingStartDate()
	if err != nil {
		_ = res.Close()
		return nil, nil, err
	}
	svc, err := services.NewDashboardService(res.Backend, services.DashboardOptions{
		Categories:    cats,
		Location:      cfg.Location(),
		TrackingStart: start,
		IncludeToday:  cfg.IncludeToday,
		Now:           now,
	})
	if err != nil {
		_ = res.Close()
		return nil, nil, err
	}
	return svc, res, nil
}

// NewChoropleth builds the map service from the countries file and world URL.
func NewChoropleth(cfg *config.Config) *geo.Service {
	return &geo.Service{
		CountriesFile: cfg.CountriesFile,
		World:         &geo.HTTPWorld{URL: cfg.WorldGeoJSONURL, Timeout: cfg.TogglTimeout},
	}
}

// LoadProfile reads PROFILE_FILE and puts PROFILE_LINKS in front as a
// "Links" section. PROFILE_CAPTION overrides the file caption.
func LoadProfile(cfg *config.Config) (profile.Profile, error) {
	prof, err := profile.Load(cfg.ProfileFile)
	if err != nil {
		return profile.Profile{}, err
	}
	if cfg.ProfileCaption != "" {
		prof.Caption = cfg.ProfileCaption
	}
	links, err := cfg.Links()
	if err != nil {
		return profile.Profile{}, err
	}
	flat := make([]profile.Link, 0, len(links))
	for _, l := range links {
		flat = append(flat, profile.Link{Label: l.Label, URL: l.URL})
	}
	return prof.WithLinks("Links", flat), nil
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM. When
// that happens shutdown runs with the given timeout and done is closed once
// it returns.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, shutdown func(context.Context) error) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String(), log.FieldOperation, log.OpShutdown)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if shutdown != nil {
			if err := shutdown(shutdownCtx); err != nil {
				logger.Error("Shutdown error", log.FieldError, err)
			}
		}
		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		} else {
			logger.Info("Shutdown complete")
		}
		cancel()
		close(done)
	}()

	return ctx, done
}
