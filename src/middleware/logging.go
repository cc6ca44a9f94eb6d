package middleware

import (
	"net/http"
	"time"

	"github.com/go-logr/logr"
)

// LoggingMiddleware logs every HTTP request through an injected
// logr.Logger, the same wrap-the-handler shape the teacher's
// LoggingMiddleware used with the stdlib logger.
type LoggingMiddleware struct {
	log logr.Logger
}

// NewLoggingMiddleware creates a new logging middleware.
func NewLoggingMiddleware(log logr.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{log: log}
}

// LogRequest logs the HTTP request.
func (m *LoggingMiddleware) LogRequest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next(wrapper, r)

		m.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"remote_addr", r.RemoteAddr,
			"duration", time.Since(start).String(),
		)
	}
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code.
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code.
func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
