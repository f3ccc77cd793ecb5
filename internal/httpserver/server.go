package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	custommw "stiventours.com/pasadias/internal/httpserver/middleware"
	"stiventours.com/pasadias/internal/metrics"
	"stiventours.com/pasadias/internal/page"
	"stiventours.com/pasadias/public"
)

// Config holds runtime options for the catalog HTTP server.
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Source fetches the catalog for each new page.
	Source      page.Source
	PageOptions page.Options
	// Pages overrides the page store; nil builds one from Source.
	Pages    *PageStore
	IdleTTL  time.Duration
	MaxPages int

	SessionKey   []byte
	SecureCookie bool
	Logger       zerolog.Logger
}

// New constructs the HTTP server with its middleware stack and routes.
func New(cfg Config) *http.Server {
	logger := cfg.Logger
	opts := cfg.PageOptions
	if opts.EventsPath == "" {
		opts.EventsPath = page.DefaultOptions().EventsPath
	}
	store := cfg.Pages
	if store == nil {
		store = NewPageStore(DefaultPageFactory(cfg.Source, opts), cfg.IdleTTL, cfg.MaxPages)
	}

	staticContent, err := public.StaticFS()
	if err != nil {
		logger.Fatal().Err(err).Msg("embed static")
	}
	assetsContent, err := public.AssetsFS()
	if err != nil {
		logger.Fatal().Err(err).Msg("embed assets")
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP.
	router.Use(chimw.RealIP)
	router.Use(custommw.HTMX())
	router.Use(custommw.Metrics)
	router.Use(chimw.Recoverer)
	router.Use(chimw.Compress(5))
	router.Use(chimw.Timeout(30 * time.Second))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	router.Handle("/assets/*", http.StripPrefix("/assets", custommw.AssetsWithCache(assetsContent)))
	router.Get("/data.json", catalogDocument(staticContent))

	h := &handlers{store: store, logger: logger}
	router.Group(func(r chi.Router) {
		r.Use(custommw.PageSession(custommw.PageSessionConfig{
			SigningKey: cfg.SessionKey,
			Secure:     cfg.SecureCookie,
		}))
		r.Use(custommw.Logger(logger))
		r.Get("/", h.home)
		r.Post(opts.EventsPath, h.click)
	})

	return &http.Server{
		Addr:              cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       firstPositive(cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      firstPositive(cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       60 * time.Second,
	}
}

// DefaultPageFactory builds pages that load their catalog from src.
func DefaultPageFactory(src page.Source, opts page.Options) PageFactory {
	return func(ctx context.Context, id string) (*page.Page, error) {
		p, err := page.New(id, src, opts)
		if err != nil {
			return nil, err
		}
		if err := p.Load(ctx); err != nil {
			return nil, err
		}
		return p, nil
	}
}

func firstPositive(values ...time.Duration) time.Duration {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
