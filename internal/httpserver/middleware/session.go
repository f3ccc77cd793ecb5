package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
)

// PageCookieName holds the signed id of the visitor's page.
const PageCookieName = "PASADIAS_PAGE"

// PageSessionConfig configures the page cookie.
type PageSessionConfig struct {
	// SigningKey signs cookie values. Empty means a random per-process key.
	SigningKey []byte
	Secure     bool
	MaxAge     time.Duration
}

// PageSession assigns every visitor a page id kept in a signed cookie and
// stores it in the request context.
func PageSession(cfg PageSessionConfig) func(http.Handler) http.Handler {
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	codec := newPageCodec(cfg.SigningKey, maxAge)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := readPageCookie(r, codec)
			if !ok {
				id = uuid.NewString()
				encoded, err := codec.Encode(PageCookieName, id)
				if err != nil {
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     PageCookieName,
					Value:    encoded,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   int(maxAge.Seconds()),
				})
			}
			ctx := context.WithValue(r.Context(), pageIDContextKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PageIDFromContext returns the visitor's page id.
func PageIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(pageIDContextKey).(string)
	return id
}

func newPageCodec(key []byte, maxAge time.Duration) *securecookie.SecureCookie {
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
	}
	codec := securecookie.New(key, nil)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(int(maxAge.Seconds()))
	return codec
}

func readPageCookie(r *http.Request, codec *securecookie.SecureCookie) (string, bool) {
	c, err := r.Cookie(PageCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	var id string
	if err := codec.Decode(PageCookieName, c.Value, &id); err != nil {
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}
