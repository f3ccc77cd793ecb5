package page

import (
	"errors"

	"stiventours.com/pasadias/internal/catalog"
)

// ErrAlreadyLoaded is returned by a second Load on the same page.
var ErrAlreadyLoaded = errors.New("page: catalog already loaded")

// AppState is what a page knows about its catalog. The Loader writes it; the
// dialog reads the contact phone from it when building booking links.
type AppState struct {
	// Payload is the last successfully loaded document, nil until then.
	Payload *catalog.Payload
	Result  catalog.Result
	LoadErr error
}

// ContactPhone derives the booking phone from the latest loaded payload.
func ContactPhone(s *AppState, fallback string) string {
	if s == nil {
		return fallback
	}
	return catalog.ContactPhone(s.Payload, fallback)
}
