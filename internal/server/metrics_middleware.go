package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dmaguire/streaks/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streaks_http_requests_total",
			Help: "Total number of HTTP requests by endpoint, method, and status",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "streaks_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	authEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streaks_auth_events_total",
			Help: "Total authentication events by type and result",
		},
		[]string{"event_type", "result", "provider"},
	)

	activeHabitsPerUser = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "streaks_active_habits_per_user",
			Help: "Number of active habits per user",
		},
		[]string{"user_id"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.URL.Path, r.Method, statusCode).Inc()
		httpRequestDuration.WithLabelValues(r.URL.Path, r.Method, statusCode).Observe(duration)
	})
}

func RecordAuthEvent(eventType, result, provider string) {
	authEventsTotal.WithLabelValues(eventType, result, provider).Inc()
	logger.Debug("Recorded auth event", "type", eventType, "result", result, "provider", provider)
}

func (s *Server) updateActiveHabitsMetric(userID string) {
	habits, err := s.store.ListHabits(userID)
	if err != nil {
		logger.Warn("Failed to update active habits metric", "user_id", userID, "error", err)
		return
	}
	activeHabitsPerUser.WithLabelValues(userID).Set(float64(len(habits)))
}
