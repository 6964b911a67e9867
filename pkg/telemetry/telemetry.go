// Package telemetry holds the server's Prometheus collectors and the HTTP
// middleware that feeds them. Everything is registered on the default
// registry and exposed through promhttp on /metrics.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "elele_messages_created_total",
		Help: "Solidarity messages admitted to the feed.",
	})
	MessagesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "elele_messages_deleted_total",
		Help: "Solidarity messages removed from the feed.",
	})
	PersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "elele_persist_failures_total",
		Help: "Best-effort substrate writes that failed.",
	})
	AssistFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "elele_assist_failures_total",
		Help: "Text service calls that fell back to the fixed reply.",
	}, []string{"op"})

	feedSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "elele_feed_size",
		Help: "Messages currently in the feed.",
	})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "elele_http_request_duration_seconds",
		Help:    "HTTP request latency by method and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})
)

// SetFeedSize records the current feed length.
func SetFeedSize(n int) {
	feedSize.Set(float64(n))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Middleware records request durations and statuses.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(srw, r)
		requestDuration.
			WithLabelValues(r.Method, strconv.Itoa(srw.status)).
			Observe(time.Since(start).Seconds())
	})
}
