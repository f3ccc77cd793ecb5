package httpserver

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"stiventours.com/pasadias/internal/metrics"
	"stiventours.com/pasadias/internal/page"
)

// PageFactory builds and loads the page for a new visitor.
type PageFactory func(ctx context.Context, id string) (*page.Page, error)

// PageStore keeps one page per visitor in memory until it goes idle.
type PageStore struct {
	newPage PageFactory
	idleTTL time.Duration
	max     int

	mu    sync.RWMutex
	pages map[string]*page.Page
	group singleflight.Group
}

// NewPageStore returns an empty store. A non-positive max means unbounded.
func NewPageStore(factory PageFactory, idleTTL time.Duration, max int) *PageStore {
	return &PageStore{
		newPage: factory,
		idleTTL: idleTTL,
		max:     max,
		pages:   map[string]*page.Page{},
	}
}

// Lookup returns the page for id if it exists.
func (s *PageStore) Lookup(id string) (*page.Page, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pages[id]
	return p, ok
}

// Get returns the page for id, creating and loading it on first use.
// Concurrent first requests for one id share a single load.
func (s *PageStore) Get(ctx context.Context, id string) (*page.Page, error) {
	if p, ok := s.Lookup(id); ok {
		return p, nil
	}
	v, err, _ := s.group.Do(id, func() (any, error) {
		if p, ok := s.Lookup(id); ok {
			return p, nil
		}
		// the load outlives a cancelled request; the fetch has its own timeout
		p, err := s.newPage(context.WithoutCancel(ctx), id)
		if err != nil {
			return nil, err
		}
		s.put(id, p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*page.Page), nil
}

func (s *PageStore) put(id string, p *page.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.max > 0 && len(s.pages) >= s.max {
		s.evictOldestLocked()
	}
	s.pages[id] = p
	metrics.Pages.Set(float64(len(s.pages)))
}

func (s *PageStore) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, p := range s.pages {
		if seen := p.LastSeen(); oldestID == "" || seen.Before(oldest) {
			oldestID, oldest = id, seen
		}
	}
	delete(s.pages, oldestID)
}

// Len returns the number of live pages.
func (s *PageStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages)
}

// Sweep drops pages idle since before now minus the idle TTL and returns how
// many were removed.
func (s *PageStore) Sweep(now time.Time) int {
	if s.idleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-s.idleTTL)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, p := range s.pages {
		if p.LastSeen().Before(cutoff) {
			delete(s.pages, id)
			removed++
		}
	}
	metrics.Pages.Set(float64(len(s.pages)))
	return removed
}

// Run sweeps idle pages every interval until ctx is done.
func (s *PageStore) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			s.Sweep(now)
		}
	}
}
