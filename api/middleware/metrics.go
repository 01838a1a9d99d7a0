package middleware

import (
	"net/http"
	"time"

	"github.com/vitrineturbo/vitrineturbo-backend/pkg/metrics"
)

// Metrics observes every request against the route pattern so storefront
// listings with different seller ids collapse into one series.
func Metrics(httpMetrics *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if httpMetrics == nil {
				next.ServeHTTP(w, r)
				return
			}

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			httpMetrics.ObserveRequest(r.Method, routePattern(r), rec.status, time.Since(start))
		})
	}
}
