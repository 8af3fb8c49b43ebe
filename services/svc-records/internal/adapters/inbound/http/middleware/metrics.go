package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/architeacher/records/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
)

const (
	httpRequestTotal    = "http_requests_total"
	httpRequestDuration = "http_request_duration_ms"
)

// Metrics counts requests and observes their latency, labelled by route pattern
// so entity names and ids do not explode cardinality.
func Metrics(client metrics.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := newStatusRecorder(w)

			next.ServeHTTP(recorder, r)

			route := r.URL.Path
			if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil && routeCtx.RoutePattern() != "" {
				route = routeCtx.RoutePattern()
			}

			attrs := []attribute.KeyValue{
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.String("http.status_code", strconv.Itoa(recorder.statusCode)),
			}

			client.Inc(r.Context(), httpRequestTotal, 1, attrs...)
			client.Observe(r.Context(), httpRequestDuration, float64(time.Since(start).Milliseconds()), attrs...)
		})
	}
}
