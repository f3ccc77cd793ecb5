package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordingFetcher(t *testing.T, rawURL string, client *http.Client) (*Fetcher, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	f := NewFetcher(rawURL, client)
	f.tracer = provider.Tracer("test")
	return f, rec
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestFetchRecordsSpan(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"pasadias":[{"id":"a"},{"id":"b"}]}`))
	}))
	t.Cleanup(ts.Close)

	f, rec := recordingFetcher(t, ts.URL+"/data.json", ts.Client())
	_, err := f.Fetch(context.Background())
	require.NoError(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "catalog.fetch", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	status, ok := spanAttr(spans[0], "http.response.status_code")
	require.True(t, ok)
	assert.EqualValues(t, http.StatusOK, status.AsInt64())
	candidates, ok := spanAttr(spans[0], "catalog.candidates")
	require.True(t, ok)
	assert.EqualValues(t, 2, candidates.AsInt64())
}

func TestFetchSpanMarksFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(ts.Close)

	f, rec := recordingFetcher(t, ts.URL+"/data.json", ts.Client())
	_, err := f.Fetch(context.Background())
	require.Error(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	status, ok := spanAttr(spans[0], "http.response.status_code")
	require.True(t, ok)
	assert.EqualValues(t, http.StatusNotFound, status.AsInt64())
}

func TestFetchParsesDocument(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"siteName":"Stiven","contact":{"phone":"+57 300 123"},"pasadias":[]}`))
	}))
	t.Cleanup(ts.Close)

	p, err := NewFetcher(ts.URL, ts.Client()).Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Stiven", p.SiteName.String())
	assert.Equal(t, "+57 300 123", p.Phone.String())
}

func TestFetchNonSuccessStatus(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(ts.Close)

	_, err := NewFetcher(ts.URL+"/data.json", ts.Client()).Fetch(context.Background())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestFetchMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"pasadias":[`))
	}))
	t.Cleanup(ts.Close)

	_, err := NewFetcher(ts.URL, ts.Client()).Fetch(context.Background())

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func TestFetchRejectsFileScheme(t *testing.T) {
	_, err := NewFetcher("file:///srv/site/data.json", nil).Fetch(context.Background())
	require.ErrorIs(t, err, ErrFileScheme)
}

func TestFetchTransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := NewFetcher(url, nil).Fetch(context.Background())
	require.Error(t, err)
}

func TestContactPhone(t *testing.T) {
	assert.Equal(t, DefaultPhone, ContactPhone(nil, DefaultPhone))
	assert.Equal(t, DefaultPhone, ContactPhone(&Payload{}, DefaultPhone))

	p := Payload{Phone: NewValue("+57 (300) 765-4321")}
	assert.Equal(t, "573007654321", ContactPhone(&p, DefaultPhone))

	numeric := Payload{Phone: NewValue(float64(573001112233))}
	assert.Equal(t, "573001112233", ContactPhone(&numeric, DefaultPhone))
}
