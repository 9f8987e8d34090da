package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// IdempotencyKeyHeader lets clients retry a booking without creating a second appointment
const IdempotencyKeyHeader = "Idempotency-Key"

type HTTPObserver interface {
	ObserveHTTPRequest(method, route, statusCode string, seconds float64)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

type RequestMiddleware struct {
	observer HTTPObserver
	log      *logrus.Logger
}

func NewRequestMiddleware(observer HTTPObserver, log *logrus.Logger) *RequestMiddleware {
	return &RequestMiddleware{
		observer: observer,
		log:      log,
	}
}

// Handle records a metric and a log line for every routed request
func (m *RequestMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		route := routeTemplate(r)
		if m.observer != nil {
			m.observer.ObserveHTTPRequest(r.Method, route, strconv.Itoa(rec.status), elapsed.Seconds())
		}

		entry := m.log.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"route":       route,
			"status":      rec.status,
			"duration_ms": elapsed.Milliseconds(),
			"remote_addr": r.RemoteAddr,
		})
		if rec.status >= http.StatusInternalServerError {
			entry.Warn("Request failed")
			return
		}
		entry.Info("Request handled")
	})
}

// routeTemplate keeps metric cardinality bounded by labelling with the mux pattern
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
