package middleware

import (
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Logger emits one structured entry per request.
func Logger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := NewResponseRecorder(w)
			next.ServeHTTP(rw, r)

			ev := logger.Info()
			if rw.Status() >= http.StatusInternalServerError {
				ev = logger.Error()
			}
			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.Status()).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Str("remote_ip", clientIP(r)).
				Str("request_id", chimw.GetReqID(r.Context())).
				Str("page", PageIDFromContext(r.Context())).
				Bool("htmx", IsHTMXRequest(r.Context())).
				Msg("request")
		})
	}
}

func clientIP(r *http.Request) string {
	// RealIP has already folded X-Forwarded-For into RemoteAddr when present.
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i != -1 {
		return host[:i]
	}
	return host
}
