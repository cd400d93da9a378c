package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"asakatsu/internal/core"
	"asakatsu/internal/geo"
	"asakatsu/internal/heatmap"
	"asakatsu/internal/log"
	"asakatsu/internal/middleware/security"
	"asakatsu/internal/middleware/trace"
	"asakatsu/internal/profile"
	"asakatsu/internal/services"
	appweb "asakatsu/web"
)

// YearViewer builds the heatmap data of one selected year.
type YearViewer interface {
	YearView(ctx context.Context, sel core.YearSelection) (*services.YearView, error)
}

// ChoroplethBuilder builds the countries choropleth.
type ChoroplethBuilder interface {
	Build(ctx context.Context) (*geo.Choropleth, error)
}

// Options holds the page furniture and logger.
type Options struct {
	Title        string
	ProfileImage string // optional file path; the embedded icon is used otherwise
	Profile      profile.Profile
	Logger       *log.Logger
}

type Server struct {
	http.Server
	templates *template.Template
	static    fs.FS
	years     YearViewer
	maps      ChoroplethBuilder
	opts      Options
	logger    *log.Logger
	trace     *trace.Middleware
	detector  *security.Detector
	started   time.Time

	shutdownOnce sync.Once
}

var templateFuncs = template.FuncMap{
	"duration": core.FormatSeconds,
	"legend":   heatmap.Legend,
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, years YearViewer, maps ChoroplethBuilder, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if opts.Title == "" {
		opts.Title = "朝活記録"
	}

	mux := http.NewServeMux()
	s := &Server{
		years:   years,
		maps:    maps,
		opts:    opts,
		logger:  logger.WithComponent(log.ComponentHTTP),
		started: time.Now(),
	}

	// Parse embedded templates at startup.
	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", log.FieldError, err)
	} else {
		s.templates = t
	}

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		s.static = sub
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ui/year", s.handleYearPartial)
	mux.HandleFunc("/map.geojson", s.handleMapGeoJSON)
	mux.HandleFunc("/profile-image", s.handleProfileImage)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	s.detector = security.NewDetector()
	s.trace = trace.NewMiddleware(logger, s.detector.ClientIP)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Server = http.Server{
		Addr:    addr,
		Handler: s.trace.Middleware(s.detector.Middleware(headers.Middleware(mux))),
	}
	return s
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
