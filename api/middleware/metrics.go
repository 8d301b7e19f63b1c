package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/discswap-backend/pkg/metrics"
)

// Metrics records request counts and latency per chi route pattern.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)
			m.Observe(r.Method, routeLabel(r), rec.code(), time.Since(start))
		})
	}
}

// routeLabel avoids one series per listing id by only trusting chi patterns.
func routeLabel(r *http.Request) string {
	pattern := routePattern(r)
	if pattern == r.URL.Path && !isStaticRoute(pattern) {
		return "unmatched"
	}
	return pattern
}

func isStaticRoute(path string) bool {
	switch path {
	case "/health/live", "/health/ready", "/metrics", "/api/v1/listings", "/api/v1/search":
		return true
	}
	return false
}

// routePattern is only complete once the router has matched, so callers read
// it after next has run.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
