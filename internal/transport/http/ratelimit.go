package http

import (
	"net/http"

	"golang.org/x/time/rate"

	apierrors "crystalball/internal/errors"
)

// RateLimit returns a middleware enforcing a global request rate.
// A single limiter covers all clients; the service is expected to sit
// behind its own ingress, not the public internet.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				renderError(w, r, apierrors.ErrRateLimitExceeded)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
