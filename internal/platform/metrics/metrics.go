package metrics

import (
	"errors"
	"net/http"
	"solution_share/internal/common"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	unitOfWorkOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solution_share",
			Subsystem: "storage",
			Name:      "unit_of_work_total",
			Help:      "Finished units of work by outcome.",
		},
		[]string{"outcome"},
	)

	useCaseResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solution_share",
			Subsystem: "usecase",
			Name:      "invocations_total",
			Help:      "Use case invocations by result kind.",
		},
		[]string{"usecase", "result"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "solution_share",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "solution_share",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)
)

func init() {
	Registry.MustRegister(
		unitOfWorkOutcomes,
		useCaseResults,
		httpRequests,
		httpDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordUnitOfWork counts a finished unit of work. It matches the observer
// signature expected by the transaction manager.
func RecordUnitOfWork(outcome string) {
	unitOfWorkOutcomes.WithLabelValues(outcome).Inc()
}

// RecordUseCase counts one use case invocation labelled by its error kind.
func RecordUseCase(name string, err error) {
	useCaseResults.WithLabelValues(name, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var de *common.DomainError
	if errors.As(err, &de) {
		return strings.ReplaceAll(de.Kind.String(), " ", "_")
	}
	return "error"
}

// InstrumentHandler wraps the provided handler with HTTP metrics collection.
// Requests are labelled by chi route pattern to keep cardinality bounded.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		method := strings.ToUpper(r.Method)
		httpRequests.WithLabelValues(method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
