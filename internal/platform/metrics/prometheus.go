package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	coverageChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coverage_checks_total",
			Help: "Total number of coverage checks by outcome",
		},
		[]string{"status"},
	)

	geocodeCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocode_cache_lookups_total",
			Help: "Total number of geocode cache lookups",
		},
		[]string{"result"},
	)

	zoneDatasetLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zone_dataset_loads_total",
			Help: "Total number of zone dataset load attempts",
		},
		[]string{"result"},
	)

	ordersComposed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_composed_total",
			Help: "Total number of order payloads composed",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latencies per route.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// normalizePath collapses per-cart paths to a route template so the
// cart ID does not blow up label cardinality.
func normalizePath(path string) string {
	if rest, ok := strings.CutPrefix(path, "/carts/"); ok && rest != "" {
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			return "/carts/{cartID}" + rest[i:]
		}
		return "/carts/{cartID}"
	}
	return path
}

// RecordCoverageCheck records one coverage check outcome.
func RecordCoverageCheck(status string) {
	coverageChecks.WithLabelValues(status).Inc()
}

// RecordGeocodeCacheLookup records a cache hit or miss.
func RecordGeocodeCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	geocodeCacheLookups.WithLabelValues(result).Inc()
}

// RecordZoneDatasetLoad records a dataset load attempt outcome.
func RecordZoneDatasetLoad(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	zoneDatasetLoads.WithLabelValues(result).Inc()
}

// RecordOrderComposed records a successfully composed order payload.
func RecordOrderComposed() {
	ordersComposed.Inc()
}
