package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ecatprep/internal/middleware"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecatprep_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "code"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ecatprep_http_request_duration_seconds",
			Help:    "Time taken to serve HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	Reloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecatprep_reloads_total",
			Help: "Debug-mode application reloads triggered by file changes",
		},
		[]string{"result"},
	)

	Running = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ecatprep_listener_running",
			Help: "1 while the HTTP listener is accepting connections",
		},
	)
)

// Handler — эндпоинт для скрейпа.
func Handler() http.Handler { return promhttp.Handler() }

// Instrument — mux-middleware; route берётся из шаблона маршрута, чтобы не плодить метки.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unmatched"
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		sw := middleware.WrapStatus(w)
		start := time.Now()
		next.ServeHTTP(sw, r)
		HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(sw.Status())).Inc()
	})
}
