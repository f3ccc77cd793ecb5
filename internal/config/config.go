// Package config loads runtime settings from defaults, an optional YAML file,
// an optional .env file and PASADIAS_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"stiventours.com/pasadias/internal/catalog"
	"stiventours.com/pasadias/internal/page"
)

// Config is the full runtime configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Catalog CatalogConfig `yaml:"catalog"`
	Site    SiteConfig    `yaml:"site"`
	Pages   PagesConfig   `yaml:"pages"`
	Logging LoggingConfig `yaml:"logging"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
	// SessionKey signs the page cookie. Empty means a per-process random key.
	SessionKey   string `yaml:"session_key"`
	SecureCookie bool   `yaml:"secure_cookie"`
}

type CatalogConfig struct {
	// URL of the catalog document. Empty means the bundled sample served at
	// /data.json on the server's own address; see Config.CatalogURL.
	URL     string        `yaml:"url" validate:"omitempty,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

type SiteConfig struct {
	Name           string `yaml:"name" validate:"required"`
	TitleSuffix    string `yaml:"title_suffix" validate:"required"`
	FallbackPhone  string `yaml:"fallback_phone" validate:"required,numeric"`
	BookingBaseURL string `yaml:"booking_base_url" validate:"required,url"`
	BookingMessage string `yaml:"booking_message" validate:"required"`
	HTMXSrc        string `yaml:"htmx_src"`
}

type PagesConfig struct {
	IdleTTL       time.Duration `yaml:"idle_ttl" validate:"gt=0"`
	SweepInterval time.Duration `yaml:"sweep_interval" validate:"gt=0"`
	MaxPages      int           `yaml:"max_pages" validate:"gt=0"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=json console"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Catalog: CatalogConfig{
			Timeout: 5 * time.Second,
		},
		Site: SiteConfig{
			Name:           "Stiventours",
			TitleSuffix:    "Agencia de Turismo",
			FallbackPhone:  catalog.DefaultPhone,
			BookingBaseURL: page.DefaultBookingBaseURL,
			BookingMessage: page.DefaultBookingMessage,
			HTMXSrc:        "https://unpkg.com/htmx.org@1.9.12",
		},
		Pages: PagesConfig{
			IdleTTL:       30 * time.Minute,
			SweepInterval: time.Minute,
			MaxPages:      10000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration. path may be empty; a missing .env is fine.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}
	applyEnv(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks the struct-tag constraints.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	// Cloud Run style PORT is the fallback for the listen address.
	if port := os.Getenv("PORT"); port != "" {
		cfg.HTTP.Addr = ":" + port
	}
	cfg.HTTP.Addr = getEnv("PASADIAS_HTTP_ADDR", cfg.HTTP.Addr)
	cfg.HTTP.SessionKey = getEnv("PASADIAS_SESSION_KEY", cfg.HTTP.SessionKey)
	cfg.HTTP.SecureCookie = getEnvBool("PASADIAS_SECURE_COOKIE", cfg.HTTP.SecureCookie)
	cfg.Catalog.URL = getEnv("PASADIAS_CATALOG_URL", cfg.Catalog.URL)
	cfg.Catalog.Timeout = getEnvDuration("PASADIAS_CATALOG_TIMEOUT", cfg.Catalog.Timeout)
	cfg.Site.Name = getEnv("PASADIAS_SITE_NAME", cfg.Site.Name)
	cfg.Site.FallbackPhone = getEnv("PASADIAS_FALLBACK_PHONE", cfg.Site.FallbackPhone)
	cfg.Pages.IdleTTL = getEnvDuration("PASADIAS_PAGE_IDLE_TTL", cfg.Pages.IdleTTL)
	cfg.Logging.Level = getEnv("PASADIAS_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("PASADIAS_LOG_FORMAT", cfg.Logging.Format)
}

// CatalogURL returns the configured catalog URL, or the bundled sample on
// the listen address when none is set.
func (c Config) CatalogURL() string {
	if c.Catalog.URL != "" {
		return c.Catalog.URL
	}
	host, port, err := net.SplitHostPort(c.HTTP.Addr)
	if err != nil {
		host, port = c.HTTP.Addr, "80"
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/data.json"
}

// PageOptions maps the site settings onto page options.
func (c Config) PageOptions() page.Options {
	opts := page.DefaultOptions()
	opts.SiteName = c.Site.Name
	opts.TitleSuffix = c.Site.TitleSuffix
	opts.FallbackPhone = c.Site.FallbackPhone
	opts.BookingBaseURL = c.Site.BookingBaseURL
	opts.BookingMessage = c.Site.BookingMessage
	opts.HTMXSrc = c.Site.HTMXSrc
	return opts
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
