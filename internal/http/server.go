package httpserver

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mlens/ratings-dashboard/internal/charts"
	"github.com/mlens/ratings-dashboard/internal/config"
	"github.com/mlens/ratings-dashboard/internal/dataset"
)

//go:embed templates/dashboard.html
var templatesFS embed.FS

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg     config.Config
	data    *dataset.Dataset
	charts  *charts.Renderer
	logger  *log.Logger
	router  chi.Router
	httpSrv *http.Server
	metrics *metrics
	tmpl    *template.Template
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, data *dataset.Dataset, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		cfg:     cfg,
		data:    data,
		charts:  charts.New(cfg.ChartWidth, cfg.ChartHeight),
		logger:  logger,
		metrics: newMetrics(data.Stats()),
		tmpl:    template.Must(template.ParseFS(templatesFS, "templates/dashboard.html")),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.instrument)

	s.router = r
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/", s.handleDashboard)
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.handler())
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)
		r.Get("/genres/breakdown", s.handleGenreBreakdown)
		r.Get("/genres/satisfaction", s.handleGenreSatisfaction)
		r.Get("/years/trend", s.handleYearTrend)
		r.Get("/movies/top", s.handleTopMovies)
	})
	s.router.Route("/charts", func(r chi.Router) {
		r.Get("/genres.png", s.handleGenreBreakdownChart)
		r.Get("/satisfaction.png", s.handleGenreSatisfactionChart)
		r.Get("/trend.png", s.handleYearTrendChart)
	})
}

// Start boots the HTTP server asynchronously.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.data == nil || s.data.Len() == 0 {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
