package page

import (
	"github.com/rs/zerolog"

	"stiventours.com/pasadias/internal/catalog"
)

// Options configures how a page renders its catalog.
type Options struct {
	// SiteName is used in the title when the catalog has no siteName.
	SiteName       string
	TitleSuffix    string
	FallbackPhone  string
	BookingBaseURL string
	BookingMessage string
	// EventsPath is where the browser posts click events.
	EventsPath string
	AssetsPath string
	HTMXSrc    string
	Logger     zerolog.Logger
}

// DefaultOptions returns the options the site ships with.
func DefaultOptions() Options {
	return Options{
		SiteName:       "Stiventours",
		TitleSuffix:    "Agencia de Turismo",
		FallbackPhone:  catalog.DefaultPhone,
		BookingBaseURL: DefaultBookingBaseURL,
		BookingMessage: DefaultBookingMessage,
		EventsPath:     "/events/click",
		AssetsPath:     "/assets",
		HTMXSrc:        "https://unpkg.com/htmx.org@1.9.12",
		Logger:         zerolog.Nop(),
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.SiteName == "" {
		o.SiteName = def.SiteName
	}
	if o.TitleSuffix == "" {
		o.TitleSuffix = def.TitleSuffix
	}
	if o.FallbackPhone == "" {
		o.FallbackPhone = def.FallbackPhone
	}
	if o.BookingBaseURL == "" {
		o.BookingBaseURL = def.BookingBaseURL
	}
	if o.BookingMessage == "" {
		o.BookingMessage = def.BookingMessage
	}
	if o.EventsPath == "" {
		o.EventsPath = def.EventsPath
	}
	if o.AssetsPath == "" {
		o.AssetsPath = def.AssetsPath
	}
	return o
}
