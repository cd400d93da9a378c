package http

import (
	"bytes"
	"net/http"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"golang.org/x/sync/errgroup"

	"asakatsu/internal/geo"
	"asakatsu/internal/log"
	"asakatsu/internal/middleware/trace"
	"asakatsu/internal/profile"
	"asakatsu/internal/services"
)

type indexData struct {
	Title     string
	Profile   profile.Profile
	Year      yearData
	Map       *geo.Choropleth
	MapError  string
	RequestID string
}

// handleIndex renders the whole page. The year view and the choropleth load
// concurrently; each failure only blanks its own panel.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !isGetOrHead(w, r) {
		return
	}
	ctx := r.Context()
	logger := log.FromContext(ctx)
	if s.templates == nil {
		logger.ErrorContext(ctx, "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	sel := parseSelection(r)
	var (
		view    *services.YearView
		viewErr error
		ch      *geo.Choropleth
		mapErr  error
		g       errgroup.Group
	)
	g.Go(func() error {
		view, viewErr = s.years.YearView(ctx, sel)
		return viewErr
	})
	g.Go(func() error {
		ch, mapErr = s.maps.Build(ctx)
		return mapErr
	})
	_ = g.Wait()

	status := http.StatusOK
	sl := log.NewStructuredLogger(logger)
	if viewErr != nil {
		sl.LogError(ctx, "Year view failed", viewErr, log.ComponentPipeline, log.OpBuild, nil)
		status = http.StatusBadGateway
	} else {
		sl.LogYearBuilt(ctx, view.Source, view.Year, view.Entries)
	}
	data := indexData{
		Title:   s.opts.Title,
		Profile: s.opts.Profile,
		Year:    newYearData(ctx, sel, view, viewErr),
		Map:     ch,
	}
	if mapErr != nil {
		sl.LogError(ctx, "Choropleth failed", mapErr, log.ComponentGeo, log.OpLoad, nil)
		data.MapError = "Could not load the world map."
		data.RequestID = trace.GetRequestID(ctx)
		data.Map = nil
		status = http.StatusBadGateway
	}

	s.render(w, r, status, "index.html", data)
}

// handleYearPartial renders the panels for ?ago=N (htmx swap target).
func (s *Server) handleYearPartial(w http.ResponseWriter, r *http.Request) {
	if !isGetOrHead(w, r) {
		return
	}
	ctx := r.Context()
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	sel := parseSelection(r)
	view, err := s.years.YearView(ctx, sel)
	status := http.StatusOK
	sl := log.NewStructuredLogger(log.FromContext(ctx))
	if err != nil {
		sl.LogError(ctx, "Year view failed", err, log.ComponentPipeline, log.OpBuild, nil)
		status = http.StatusBadGateway
	} else {
		sl.LogYearBuilt(ctx, view.Source, view.Year, view.Entries)
	}
	s.render(w, r, status, "year", newYearData(ctx, sel, view, err))
}

// handleMapGeoJSON serves the marked world boundaries.
func (s *Server) handleMapGeoJSON(w http.ResponseWriter, r *http.Request) {
	if !isGetOrHead(w, r) {
		return
	}
	ctx := r.Context()
	ch, err := s.maps.Build(ctx)
	if err != nil {
		log.NewStructuredLogger(log.FromContext(ctx)).LogError(ctx, "Choropleth failed", err, log.ComponentGeo, log.OpLoad, nil)
		http.Error(w, "world map unavailable", http.StatusBadGateway)
		return
	}
	body, err := ch.GeoJSON()
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Encode GeoJSON failed", log.FieldError, err)
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// handleProfileImage serves PROFILE_IMAGE, or the embedded icon.
func (s *Server) handleProfileImage(w http.ResponseWriter, r *http.Request) {
	if !isGetOrHead(w, r) {
		return
	}
	if p := s.opts.ProfileImage; p != "" {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			http.ServeFile(w, r, p)
			return
		}
		log.FromContext(r.Context()).WarnContext(r.Context(), "Profile image not found, using default", log.FieldPath, p)
	}
	if s.static == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeFileFS(w, r, s.static, "icon.svg")
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady reports whether templates and data sources are wired.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]string{}

	check := func(name string, ok bool, failure string) {
		if ok {
			checks[name] = "ok"
			return
		}
		checks[name] = failure
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	}
	check("templates", s.templates != nil, "failed: templates not loaded")
	check("entries", s.years != nil, "not_configured")
	check("choropleth", s.maps != nil, "not_configured")

	m := s.trace.GetMetrics()
	s.writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
		"requests":  m.TotalRequests,
		"probes":    s.detector.Probes(),
	})
}

// render executes a template into a buffer so a failure never leaves a
// half written page behind.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			log.FieldError, err, "template", name)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigStd.NewEncoder(w).Encode(v)
}
