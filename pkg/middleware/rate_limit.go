package middleware

import (
	"net/http"
	"time"

	"material-market/pkg/utils"

	"github.com/go-chi/httprate"
)

// RateLimit limits each client IP to perMinute requests.
func RateLimit(perMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(
		perMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			utils.ResponseTooManyRequests(w, "Too many requests, slow down")
		}),
	)
}

// LimitWrites applies limit to state-changing requests only. GET, HEAD and
// OPTIONS pass straight through to next.
func LimitWrites(limit func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := limit(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
			default:
				limited.ServeHTTP(w, r)
			}
		})
	}
}
