package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const (
	htmxContextKey   contextKey = "htmx.info"
	pageIDContextKey contextKey = "page.id"
)

// HTMXInfo captures request metadata from HX-* headers.
type HTMXInfo struct {
	IsHTMX      bool
	CurrentURL  string
	Target      string
	TriggerID   string
	TriggerName string
}

// HTMX returns middleware that inspects HX-* headers and annotates the context.
func HTMX() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := HTMXInfo{
				IsHTMX:      strings.EqualFold(r.Header.Get("HX-Request"), "true"),
				CurrentURL:  r.Header.Get("HX-Current-URL"),
				Target:      r.Header.Get("HX-Target"),
				TriggerID:   r.Header.Get("HX-Trigger"),
				TriggerName: r.Header.Get("HX-Trigger-Name"),
			}
			if info.IsHTMX {
				w.Header().Add("Vary", "HX-Request")
			}
			ctx := context.WithValue(r.Context(), htmxContextKey, info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// HTMXInfoFromContext retrieves HTMX metadata; returns zero value if absent.
func HTMXInfoFromContext(ctx context.Context) HTMXInfo {
	val, ok := ctx.Value(htmxContextKey).(HTMXInfo)
	if !ok {
		return HTMXInfo{}
	}
	return val
}

// IsHTMXRequest returns true when the current request was initiated by htmx.
func IsHTMXRequest(ctx context.Context) bool {
	return HTMXInfoFromContext(ctx).IsHTMX
}
