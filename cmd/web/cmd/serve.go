package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"stiventours.com/pasadias/internal/catalog"
	"stiventours.com/pasadias/internal/config"
	"stiventours.com/pasadias/internal/httpserver"
)

var serverAddr string

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the catalog HTTP server",
		Long: `Start the catalog HTTP server.

The server will:
- Load configuration from defaults, --config, .env and PASADIAS_* variables
- Build one page per visitor and load the catalog into it
- Sweep idle pages in the background
- Handle graceful shutdown on SIGINT/SIGTERM

Examples:
  # Start with the bundled sample catalog
  pasadias serve

  # Point at a published catalog
  PASADIAS_CATALOG_URL=https://stiventours.com/data.json pasadias serve

  # Start with debug logging on another address
  pasadias serve --addr 127.0.0.1:9090 --log-level debug --log-format console`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&serverAddr, "addr", "", "listen address (default: :8080)")
	return cmd
}

// serveConfig loads the configuration and applies the serve flags.
func serveConfig() (config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return config.Config{}, err
	}
	if serverAddr != "" {
		cfg.HTTP.Addr = serverAddr
	}
	return cfg, nil
}

func runServer(parent context.Context) error {
	cfg, err := serveConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if parent == nil {
		parent = context.Background()
	}

	logger := config.NewLogger(cfg.Logging)
	logger.Info().
		Str("addr", cfg.HTTP.Addr).
		Str("catalog", cfg.CatalogURL()).
		Str("version", Version).
		Msg("starting pasadias server")

	opts := cfg.PageOptions()
	opts.Logger = logger
	source := catalog.NewFetcher(cfg.CatalogURL(), &http.Client{Timeout: cfg.Catalog.Timeout})
	store := httpserver.NewPageStore(
		httpserver.DefaultPageFactory(source, opts),
		cfg.Pages.IdleTTL,
		cfg.Pages.MaxPages,
	)

	srv := httpserver.New(httpserver.Config{
		Address:      cfg.HTTP.Addr,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		Source:       source,
		PageOptions:  opts,
		Pages:        store,
		SessionKey:   []byte(cfg.HTTP.SessionKey),
		SecureCookie: cfg.HTTP.SecureCookie,
		Logger:       logger,
	})

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return store.Run(gctx, cfg.Pages.SweepInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown error")
			return err
		}
		return nil
	})

	return g.Wait()
}
