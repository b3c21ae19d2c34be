package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"

	pkgerrors "storeadmin/pkg/errors"
	"storeadmin/pkg/ratelimit"

	"go.uber.org/zap"
)

// RateLimit rejects callers over their budget with 429. Callers are keyed
// by the ?id= user when present, otherwise by client address. A limiter
// error lets the request through.
func RateLimit(limiter ratelimit.Limiter, errs *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := callerKey(r)
			allowed, retryAfter, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("Rate limiter failed, admitting request", zap.String("key", key), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				seconds := int(math.Ceil(retryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				errs.Handle(w, r, pkgerrors.NewRateLimitError(seconds))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func callerKey(r *http.Request) string {
	if id := r.URL.Query().Get("id"); id != "" {
		return "user:" + id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
