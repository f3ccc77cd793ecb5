// Package page holds one visitor's catalog page: its document, the catalog
// state, the card renderer and the detail dialog.
package page

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"stiventours.com/pasadias/internal/dom"
	"stiventours.com/pasadias/internal/views"
)

// LoadingMessage fills the listing container until the catalog resolves.
const LoadingMessage = "Cargando pasadías…"

// Page is a server-held document. Every operation on it runs under its
// mutex, so handlers for the same page never interleave.
type Page struct {
	id string

	mu       sync.Mutex
	doc      *dom.Document
	state    *AppState
	loader   *Loader
	cards    *CardRenderer
	dialog   *Dialog
	lastSeen time.Time
}

// ClickResult describes what a dispatched click changed.
type ClickResult struct {
	// Changed is false when the click had no visible effect.
	Changed bool
	// Constructed is true when the click built the dialog.
	Constructed bool
	// Fragment is the serialized dialog after the click.
	Fragment string
	Dialog   DialogState
}

// New builds the page shell and wires its components. The catalog is not
// fetched until Load.
func New(id string, src Source, opts Options) (*Page, error) {
	opts = opts.withDefaults()
	var buf bytes.Buffer
	shell := views.Layout(views.LayoutData{
		Title:       opts.SiteName + " | " + opts.TitleSuffix,
		SiteName:    opts.SiteName,
		Placeholder: LoadingMessage,
		AssetsPath:  opts.AssetsPath,
		HTMXSrc:     opts.HTMXSrc,
	})
	if err := shell.Render(context.Background(), &buf); err != nil {
		return nil, err
	}
	doc, err := dom.Parse(&buf)
	if err != nil {
		return nil, err
	}

	opts.Logger = opts.Logger.With().Str("page", id).Logger()
	state := &AppState{}
	container := doc.GetElementByID(views.ListingID)
	dialog := NewDialog(doc, state, opts)
	cards := NewCardRenderer(doc, container, dialog, opts)
	loader := NewLoader(src, doc, state, cards, container, doc.GetElementByID(views.AboutID), opts)

	return &Page{
		id:       id,
		doc:      doc,
		state:    state,
		loader:   loader,
		cards:    cards,
		dialog:   dialog,
		lastSeen: time.Now(),
	}, nil
}

// ID returns the page identifier.
func (p *Page) ID() string { return p.id }

// Load runs the catalog loader. See Loader.Load.
func (p *Page) Load(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loader.Load(ctx)
}

// Render writes the current document.
func (p *Page) Render(w io.Writer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastSeen = time.Now()
	return p.doc.Render(w)
}

// Click dispatches a click on the element with the given event key. Unknown
// or stale keys are ignored.
func (p *Page) Click(key string) (ClickResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastSeen = time.Now()

	before := p.dialog.State()
	rev := p.dialog.Revision()
	if target := p.doc.NodeByKey(key); target != nil {
		p.doc.Dispatch(target, "click")
	}
	res := ClickResult{
		Changed:     p.dialog.Revision() != rev,
		Constructed: before == Uninitialized && p.dialog.State() != Uninitialized,
		Dialog:      p.dialog.State(),
	}
	if !res.Changed || p.dialog.Node() == nil {
		return res, nil
	}
	frag, err := dom.OuterHTML(p.dialog.Node())
	if err != nil {
		return res, err
	}
	res.Fragment = frag
	return res, nil
}

// LastSeen returns when the page last served a request.
func (p *Page) LastSeen() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSeen
}
