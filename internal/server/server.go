// Package server hosts the local web console. Every form posts to a route
// that runs one copilot action and redirects back to the active tab.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dharsanguruparan/CareerCopilot/internal/config"
	"github.com/dharsanguruparan/CareerCopilot/internal/copilot"
	"github.com/dharsanguruparan/CareerCopilot/internal/export"
	"github.com/dharsanguruparan/CareerCopilot/internal/presenter"
	"github.com/dharsanguruparan/CareerCopilot/internal/signing"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"humanize": presenter.Humanize,
}

// Opener is a sink that can stream a stored artifact back.
type Opener interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Presigner is a sink that can hand out its own download URLs.
type Presigner interface {
	PresignURL(ctx context.Context, key, fileName string, ttl time.Duration) (string, error)
}

// Server serves the console for a single App.
type Server struct {
	cfg      *config.Config
	app      *copilot.App
	exports  *export.Service
	signer   *signing.Signer
	gatherer prometheus.Gatherer
	tmpl     *template.Template
	server   *http.Server
	once     sync.Once
}

// New constructs a Server. exports may be nil when PDF export is disabled;
// gatherer may be nil to serve the default registry.
func New(cfg *config.Config, app *copilot.App, exports *export.Service, signer *signing.Signer, gatherer prometheus.Gatherer) (*Server, error) {
	tmpl, err := template.New("console").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Server{
		cfg:      cfg,
		app:      app,
		exports:  exports,
		signer:   signer,
		gatherer: gatherer,
		tmpl:     tmpl,
	}, nil
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.once.Do(func() {
		s.server = &http.Server{
			Addr:              s.cfg.Address,
			Handler:           s.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
	})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()
	log.Printf("console listening on http://%s", s.cfg.Address)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler returns the console routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /tab/{name}", s.handleTab)
	mux.HandleFunc("POST /signup", s.handleSignup)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("POST /interview", s.handleInterview)
	mux.HandleFunc("POST /resume", s.handleResume)
	mux.HandleFunc("POST /resume/text", s.handleResumeText)
	mux.HandleFunc("POST /resume/export", s.handleExport)
	mux.HandleFunc("POST /documents", s.handleAddDocument)
	mux.HandleFunc("POST /documents/{index}/delete", s.handleRemoveDocument)
	mux.HandleFunc("POST /verify", s.handleVerify)
	mux.HandleFunc("GET /artifacts/{id}", s.handleArtifact)
	mux.HandleFunc("POST /artifacts/{id}/link", s.handleArtifactLink)
	mux.HandleFunc("GET /download", s.handleDownload)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return loggingMiddleware(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	})
}
