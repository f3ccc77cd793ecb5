package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/http/cookiejar"
	"testing"

	"stiventours.com/pasadias/internal/httpserver"
	"stiventours.com/pasadias/internal/page"
)

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithSource overrides the catalog source used by new pages.
func WithSource(src page.Source) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Source = src
	}
}

// WithPageStore wires a custom page store.
func WithPageStore(store *httpserver.PageStore) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Pages = store
	}
}

// WithPageOptions overrides the page options.
func WithPageOptions(opts page.Options) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.PageOptions = opts
	}
}

// NewServer constructs an httptest server running the site's HTTP stack with sensible defaults.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	cfg := httpserver.Config{
		Address:     ":0",
		Source:      SampleSource(t),
		PageOptions: page.DefaultOptions(),
		SessionKey:  []byte("test-session-key"),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	srv := httpserver.New(cfg)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

// NewClient returns a client that keeps cookies and does not follow redirects.
func NewClient(t testing.TB) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
