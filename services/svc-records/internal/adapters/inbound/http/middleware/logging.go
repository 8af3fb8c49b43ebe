package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/architeacher/records/pkg/logger"
)

var healthEndpoints = []string{
	"/health",
	"/healthz",
	"/liveness",
	"/readiness",
}

// AccessLogger writes one structured entry per request. Health probes are
// skipped unless logHealthChecks is set.
func AccessLogger(log logger.Logger, logHealthChecks bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !logHealthChecks && IsHealthEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)

				return
			}

			start := time.Now()
			recorder := newStatusRecorder(w)

			next.ServeHTTP(recorder, r)

			reqLogger := log.WithContext(r.Context()).
				With().
				Str("component", "http").
				Logger()

			event := reqLogger.Info()
			if recorder.statusCode >= http.StatusInternalServerError {
				event = reqLogger.Error()
			} else if recorder.statusCode >= http.StatusBadRequest {
				event = reqLogger.Warn()
			}

			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("query", r.URL.RawQuery).
				Str("remote_addr", r.RemoteAddr).
				Str("user_agent", r.UserAgent()).
				Int("status", recorder.statusCode).
				Int("bytes", recorder.bytesWritten).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Send()
		})
	}
}

// IsHealthEndpoint reports whether path is one of the probe endpoints.
func IsHealthEndpoint(path string) bool {
	normalized := strings.TrimSuffix(path, "/")

	for _, endpoint := range healthEndpoints {
		if normalized == endpoint {
			return true
		}
	}

	return false
}
