package page

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/net/html"

	"stiventours.com/pasadias/internal/catalog"
	"stiventours.com/pasadias/internal/dom"
	"stiventours.com/pasadias/internal/metrics"
	"stiventours.com/pasadias/internal/sanitize"
)

// User-facing load failure messages.
const (
	LoadErrorMessage = "No se pudo cargar la lista de pasadías. Verifica que estés sirviendo el sitio " +
		"desde un servidor (no file://) y que `data.json` exista."
	FileSchemeMessage = "No se puede cargar `data.json` directamente desde el sistema de archivos (file://). " +
		"Sirve el sitio desde un servidor HTTP."
)

// CSS classes of the elements the loader inserts.
const (
	WarningClass = "validation-warning"
	ErrorClass   = "load-error"
)

// Source provides the catalog document.
type Source interface {
	Fetch(ctx context.Context) (catalog.Payload, error)
}

// Loader fetches the catalog once and drives either the card render or the
// error display.
type Loader struct {
	src       Source
	doc       *dom.Document
	state     *AppState
	cards     *CardRenderer
	container *html.Node
	about     *html.Node
	opts      Options
	done      bool
}

// NewLoader wires a loader for one page.
func NewLoader(src Source, doc *dom.Document, state *AppState, cards *CardRenderer, container, about *html.Node, opts Options) *Loader {
	return &Loader{
		src:       src,
		doc:       doc,
		state:     state,
		cards:     cards,
		container: container,
		about:     about,
		opts:      opts,
	}
}

// Load fetches and renders the catalog. Failures are rendered into the page
// and recorded on the state, never returned; the only error is
// ErrAlreadyLoaded.
func (l *Loader) Load(ctx context.Context) error {
	if l.done {
		return ErrAlreadyLoaded
	}
	l.done = true

	payload, err := l.src.Fetch(ctx)
	if err != nil {
		l.fail(err)
		return nil
	}
	l.state.Payload = &payload
	l.doc.SetTitle(l.siteTitle(payload))
	l.renderAbout(payload)

	res := catalog.Validate(payload)
	l.state.Result = res
	if len(res.Rejected) > 0 {
		metrics.RejectedEntries.Add(float64(len(res.Rejected)))
		l.opts.Logger.Warn().
			Strs("ids", res.RejectedIDs()).
			Int("valid", len(res.Valid)).
			Msg("catalog entries failed validation")
		l.showWarning(res.RejectedIDs())
	}
	l.cards.Render(res.Valid)
	metrics.CatalogLoads.WithLabelValues("ok").Inc()
	l.opts.Logger.Debug().Int("cards", len(res.Valid)).Msg("catalog rendered")
	return nil
}

func (l *Loader) siteTitle(p catalog.Payload) string {
	name := l.opts.SiteName
	if p.SiteName.Truthy() {
		name = p.SiteName.String()
	}
	return name + " | " + l.opts.TitleSuffix
}

func (l *Loader) renderAbout(p catalog.Payload) {
	if l.about == nil || !p.About.Truthy() {
		return
	}
	out, err := sanitize.Markdown(p.About.String())
	if err != nil {
		l.opts.Logger.Warn().Err(err).Msg("render about section")
		return
	}
	if err := l.doc.SetInnerHTML(l.about, out); err != nil {
		l.opts.Logger.Warn().Err(err).Msg("insert about section")
	}
}

func (l *Loader) showWarning(ids []string) {
	if l.container == nil || l.container.Parent == nil {
		return
	}
	escaped := make([]string, len(ids))
	for i, id := range ids {
		escaped[i] = sanitize.Escape(id)
	}
	warn := l.doc.CreateElement("div")
	dom.SetAttr(warn, "class", WarningClass+" col-span-3 p-4 bg-yellow-50 border border-yellow-200 rounded-lg text-yellow-800")
	dom.SetAttr(warn, "role", "status")
	markup := `<strong>Aviso:</strong> Se detectaron entradas inválidas en <em>data.json</em>. IDs problemáticos: ` +
		strings.Join(escaped, ", ") + `.`
	if err := l.doc.SetInnerHTML(warn, markup); err != nil {
		l.opts.Logger.Warn().Err(err).Msg("build validation warning")
		return
	}
	l.doc.InsertBefore(l.container.Parent, warn, l.container)
}

func (l *Loader) fail(err error) {
	l.state.LoadErr = err
	metrics.CatalogLoads.WithLabelValues(outcome(err)).Inc()
	l.opts.Logger.Error().Err(err).Msg("catalog load failed")

	if l.container == nil {
		return
	}
	msg := LoadErrorMessage
	if errors.Is(err, catalog.ErrFileScheme) {
		msg = FileSchemeMessage
	}
	markup := `<div class="` + ErrorClass + ` col-span-3 p-6 bg-red-50 border border-red-200 rounded-lg text-red-800" role="alert">` +
		sanitize.Escape(msg) + `</div>`
	if err := l.doc.SetInnerHTML(l.container, markup); err != nil {
		l.doc.SetText(l.container, msg)
	}
}

func outcome(err error) string {
	var statusErr *catalog.StatusError
	var parseErr *catalog.ParseError
	switch {
	case errors.Is(err, catalog.ErrFileScheme):
		return "file_scheme"
	case errors.As(err, &statusErr):
		return "http_status"
	case errors.As(err, &parseErr):
		return "parse"
	default:
		return "transport"
	}
}
