package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxDocumentBytes = 4 << 20

// ErrFileScheme is returned when the catalog URL points at the local
// filesystem instead of a network origin.
var ErrFileScheme = errors.New("catalog: file:// URLs are not supported")

// StatusError reports a non-success HTTP response for the catalog document.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog: GET %s: HTTP %d", e.URL, e.StatusCode)
}

// Fetcher retrieves the catalog document over HTTP.
type Fetcher struct {
	url    string
	http   *http.Client
	tracer trace.Tracer
}

// NewFetcher returns a Fetcher for rawURL. A nil client gets a default one
// with a short timeout.
func NewFetcher(rawURL string, client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &Fetcher{
		url:    strings.TrimSpace(rawURL),
		http:   client,
		tracer: otel.Tracer("stiventours.com/pasadias/internal/catalog"),
	}
}

// URL returns the configured document location.
func (f *Fetcher) URL() string { return f.url }

// Fetch downloads and parses the catalog document inside a client span.
func (f *Fetcher) Fetch(ctx context.Context) (Payload, error) {
	ctx, span := f.tracer.Start(ctx, "catalog.fetch", trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("http.request.method", http.MethodGet),
		attribute.String("url.full", f.url),
	)
	defer span.End()

	p, status, err := f.fetch(ctx)
	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Payload{}, err
	}
	span.SetAttributes(attribute.Int("catalog.candidates", candidateCount(p)))
	return p, nil
}

func (f *Fetcher) fetch(ctx context.Context) (Payload, int, error) {
	u, err := url.Parse(f.url)
	if err != nil {
		return Payload{}, 0, fmt.Errorf("catalog: invalid url %q: %w", f.url, err)
	}
	if strings.EqualFold(u.Scheme, "file") {
		return Payload{}, 0, ErrFileScheme
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Payload{}, 0, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := f.http.Do(req)
	if err != nil {
		return Payload{}, 0, fmt.Errorf("catalog: fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Payload{}, resp.StatusCode, &StatusError{URL: f.url, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return Payload{}, resp.StatusCode, fmt.Errorf("catalog: read body: %w", err)
	}
	p, err := Parse(body)
	return p, resp.StatusCode, err
}

func candidateCount(p Payload) int {
	list, _ := p.Pasadias.([]any)
	return len(list)
}
