package middleware

import (
	"net/http"
	"time"

	"go-doctor-appointment/pkg/response"

	"github.com/go-chi/httprate"
)

// LoginRateLimit limits login attempts per client IP
func LoginRateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			response.TooManyRequests(w, "Too many login attempts, try again later")
		}),
	)
}
