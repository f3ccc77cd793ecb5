package testutil

import (
	"context"
	"io/fs"
	"sync/atomic"
	"testing"

	"stiventours.com/pasadias/internal/catalog"
	"stiventours.com/pasadias/public"
)

// StaticSource serves one parsed catalog document and counts fetches.
type StaticSource struct {
	payload catalog.Payload
	err     error
	calls   atomic.Int64
}

// NewStaticSource parses doc and serves it on every fetch.
func NewStaticSource(t testing.TB, doc string) *StaticSource {
	t.Helper()

	p, err := catalog.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse catalog: %v", err)
	}
	return &StaticSource{payload: p}
}

// FailingSource returns a source whose every fetch fails with err.
func FailingSource(err error) *StaticSource {
	return &StaticSource{err: err}
}

// SampleSource serves the bundled data.json.
func SampleSource(t testing.TB) *StaticSource {
	t.Helper()

	static, err := public.StaticFS()
	if err != nil {
		t.Fatalf("open static fs: %v", err)
	}
	data, err := fs.ReadFile(static, "data.json")
	if err != nil {
		t.Fatalf("read sample catalog: %v", err)
	}
	return NewStaticSource(t, string(data))
}

// Fetch implements page.Source.
func (s *StaticSource) Fetch(context.Context) (catalog.Payload, error) {
	s.calls.Add(1)
	return s.payload, s.err
}

// Calls reports how many fetches were made.
func (s *StaticSource) Calls() int {
	return int(s.calls.Load())
}
