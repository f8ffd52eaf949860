package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mlens/ratings-dashboard/internal/dataset"
)

// metrics owns a per-server registry so tests can construct servers freely.
type metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	recompute *prometheus.HistogramVec
}

func newMetrics(stats dataset.Stats) *metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &metrics{
		registry: registry,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "HTTP requests served, by route pattern, method, and status.",
		}, []string{"route", "method", "status"}),
		recompute: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_recompute_seconds",
			Help:    "Duration of per-interaction filter and aggregation recomputation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	ratings := factory.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_dataset_ratings",
		Help: "Ratings loaded into the in-memory table.",
	})
	movies := factory.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_dataset_movies",
		Help: "Distinct movies in the loaded dataset.",
	})
	users := factory.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_dataset_users",
		Help: "Distinct users in the loaded dataset.",
	})
	ratings.Set(float64(stats.Ratings))
	movies.Set(float64(stats.Movies))
	users.Set(float64(stats.Users))

	return m
}

func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
	})
}

func (m *metrics) observeRecompute(operation string, elapsed time.Duration) {
	m.recompute.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
