package cli

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apphttp "asakatsu/internal/http"
	"asakatsu/internal/log"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		return err
	}
	logger, closer := SetupLogger(cfg)
	defer closer.Close()

	svc, res, err := NewDashboard(cmd.Context(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize entry source", log.FieldError, err, log.FieldSource, cfg.EntrySource)
		return err
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Warn("Failed to close entry source", log.FieldError, err)
		}
	}()

	prof, err := LoadProfile(cfg)
	if err != nil {
		logger.Error("Failed to load profile", log.FieldError, err, log.FieldPath, cfg.ProfileFile)
		return err
	}
	srv := apphttp.NewServer(":"+cfg.Port, svc, NewChoropleth(cfg), apphttp.Options{
		Title:        cfg.PageTitle,
		ProfileImage: cfg.ProfileImage,
		Profile:      prof,
		Logger:       logger,
	})

	// Configure server timeouts and limits. Every render waits on the
	// upstream fetch, so writes get the fetch timeout plus headroom.
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = cfg.TogglTimeout + 15*time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	_, done := GracefulShutdown(logger, shutdownTimeout, srv.Shutdown)

	logger.Info("Starting asakatsu server",
		"port", cfg.Port,
		log.FieldSource, res.Backend.Name(),
		"tracking_start", cfg.TrackingStart,
		"timezone", cfg.Location().String(),
		"categories", strings.Join(svc.Categories().Keys(), ","),
		log.FieldOperation, log.OpStartup)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		return err
	}

	<-done
	logger.Info("Server stopped gracefully")
	return nil
}
