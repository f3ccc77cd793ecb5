package page

import (
	"strings"

	"golang.org/x/net/html"

	"stiventours.com/pasadias/internal/catalog"
	"stiventours.com/pasadias/internal/dom"
	"stiventours.com/pasadias/internal/sanitize"
)

// TriggerClass marks the "Ver más" button of a card.
const TriggerClass = "ver-mas"

// CardRenderer turns validated entries into cards inside the listing
// container and binds their triggers to the dialog.
type CardRenderer struct {
	doc       *dom.Document
	container *html.Node
	dialog    *Dialog
	opts      Options
}

// NewCardRenderer returns a renderer writing into container. A nil container
// turns Render into a no-op.
func NewCardRenderer(doc *dom.Document, container *html.Node, dialog *Dialog, opts Options) *CardRenderer {
	return &CardRenderer{doc: doc, container: container, dialog: dialog, opts: opts}
}

// Render replaces the container contents with one card per entry. Previous
// cards and their listeners are dropped together, and each new trigger gets
// exactly one listener bound to this call's entries.
func (r *CardRenderer) Render(entries []catalog.Entry) {
	if r.container == nil {
		return
	}
	var b strings.Builder
	for _, e := range entries {
		writeCard(&b, e)
	}
	if err := r.doc.SetInnerHTML(r.container, b.String()); err != nil {
		r.opts.Logger.Error().Err(err).Msg("render cards")
		r.doc.ClearChildren(r.container)
		return
	}

	for _, btn := range r.doc.QuerySelectorAll("." + TriggerClass) {
		btn := btn // per-iteration copy; go.mod targets go 1.21 loop semantics
		if !isInside(btn, r.container) {
			continue
		}
		bindClick(r.doc, btn, r.opts.EventsPath, "")
		r.doc.AddEventListener(btn, "click", func(*dom.Event) {
			id, _ := dom.Attr(btn, "data-id")
			if e, ok := findEntry(entries, id); ok {
				r.dialog.Show(e)
			}
		})
	}
}

func writeCard(b *strings.Builder, e catalog.Entry) {
	esc := sanitize.EscapeValue
	b.WriteString(`<div class="tour-card group">`)
	b.WriteString(`<div class="relative overflow-hidden">`)
	b.WriteString(`<img loading="lazy" src="` + esc(e.Image) + `" alt="` + esc(e.Title) + `" class="thumb">`)
	b.WriteString(`</div><div class="body">`)
	b.WriteString(`<h3 class="text-2xl font-bold text-blue-900 mb-3">` + esc(e.Title) + `</h3>`)
	b.WriteString(`<p class="text-sm text-gray-600 mb-4">` + esc(e.Short) + `</p>`)
	b.WriteString(`<ul class="text-sm text-gray-600 mb-4">`)
	for _, f := range e.Features {
		b.WriteString(`<li>• ` + esc(f) + `</li>`)
	}
	b.WriteString(`</ul><div class="flex justify-between items-center">`)
	b.WriteString(`<span class="price text-2xl">$` + esc(e.Price) + ` <small class="text-xs text-gray-400">` + esc(e.Currency) + `</small></span>`)
	b.WriteString(`<button type="button" data-id="` + sanitize.Escape(e.ID.String()) + `" class="` + TriggerClass + ` bg-orange-500 text-white px-6 py-2 rounded-lg font-bold">Ver más</button>`)
	b.WriteString(`</div></div></div>`)
}

// findEntry resolves a trigger id against the entries of one render pass.
func findEntry(entries []catalog.Entry, id string) (catalog.Entry, bool) {
	for _, e := range entries {
		if e.ID.String() == id {
			return e, true
		}
	}
	return catalog.Entry{}, false
}

// bindClick gives n an event key and the htmx attributes that post its
// clicks back to the page. An empty vals posts n's own key.
func bindClick(doc *dom.Document, n *html.Node, eventsPath, vals string) string {
	key := doc.Key(n)
	if vals == "" {
		vals = `{"node":"` + key + `"}`
	}
	dom.SetAttr(n, "hx-post", eventsPath)
	dom.SetAttr(n, "hx-vals", vals)
	return key
}

func isInside(n, ancestor *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}
