package page

import (
	"golang.org/x/net/html"

	"stiventours.com/pasadias/internal/catalog"
	"stiventours.com/pasadias/internal/dom"
	"stiventours.com/pasadias/internal/metrics"
	"stiventours.com/pasadias/internal/views"
)

// DialogState is the lifecycle state of the detail dialog.
type DialogState int

const (
	// Uninitialized means the overlay node has not been built yet.
	Uninitialized DialogState = iota
	Closed
	Open
)

func (s DialogState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Closed:
		return "closed"
	case Open:
		return "open"
	default:
		return "unknown"
	}
}

// ModalID is the id of the dialog overlay element.
const ModalID = "st-modal"

const modalMarkup = `<div class="panel">
  <div class="content">
    <button id="st-close" type="button" class="close" aria-label="Cerrar">✕</button>
    <h2 id="st-title" class="text-2xl font-bold mb-2"></h2>
    <img id="st-image" src="" alt="" class="detail-image">
    <p id="st-long" class="text-gray-700"></p>
    <div class="detail-footer">
      <span class="price" id="st-price"></span>
      <a id="st-book" class="bg-orange-500 text-white px-4 py-2 rounded-lg font-bold" href="#" target="_blank" rel="noopener">Reservar</a>
    </div>
  </div>
</div>`

// Dialog is the single detail overlay of a page. It is built on the first
// Show inside the dialog mount point (the body when the document has none)
// and then reused; content is swapped in place.
type Dialog struct {
	doc   *dom.Document
	state *AppState
	opts  Options

	status   DialogState
	revision int
	current  *catalog.Entry

	node     *html.Node
	panel    *html.Node
	title    *html.Node
	image    *html.Node
	long     *html.Node
	price    *html.Node
	book     *html.Node
	closeBtn *html.Node
}

// NewDialog returns an uninitialized dialog bound to doc.
func NewDialog(doc *dom.Document, state *AppState, opts Options) *Dialog {
	return &Dialog{doc: doc, state: state, opts: opts}
}

// State returns the current lifecycle state.
func (d *Dialog) State() DialogState { return d.status }

// Revision increases on every construction, show and close.
func (d *Dialog) Revision() int { return d.revision }

// Node returns the overlay element, nil while uninitialized.
func (d *Dialog) Node() *html.Node { return d.node }

// Current returns the displayed entry while the dialog is open.
func (d *Dialog) Current() (catalog.Entry, bool) {
	if d.status != Open || d.current == nil {
		return catalog.Entry{}, false
	}
	return *d.current, true
}

func (d *Dialog) ensureConstructed() {
	if d.status != Uninitialized {
		return
	}
	mount := d.doc.GetElementByID(views.DialogRootID)
	if mount == nil {
		mount = d.doc.Body()
	}
	if mount == nil {
		return
	}
	modal := d.doc.CreateElement("div")
	dom.SetAttr(modal, "id", ModalID)
	dom.SetAttr(modal, "class", "st-modal")
	if err := d.doc.SetInnerHTML(modal, modalMarkup); err != nil {
		d.opts.Logger.Error().Err(err).Msg("build dialog")
		return
	}
	d.doc.InsertBefore(mount, modal, nil)

	d.node = modal
	d.panel = d.doc.QuerySelector("#" + ModalID + " .panel")
	d.title = d.doc.GetElementByID("st-title")
	d.image = d.doc.GetElementByID("st-image")
	d.long = d.doc.GetElementByID("st-long")
	d.price = d.doc.GetElementByID("st-price")
	d.book = d.doc.GetElementByID("st-book")
	d.closeBtn = d.doc.GetElementByID("st-close")

	// The overlay posts the nearest keyed element under the pointer, so the
	// backdrop and the panel arrive as distinct targets.
	bindClick(d.doc, modal, d.opts.EventsPath, `js:{node: event.target.closest('[`+dom.KeyAttr+`]').getAttribute('`+dom.KeyAttr+`')}`)
	dom.SetAttr(modal, "hx-trigger", "click")
	d.doc.Key(d.panel)
	d.doc.Key(d.closeBtn)

	d.doc.AddEventListener(modal, "click", func(ev *dom.Event) {
		if ev.Target == modal {
			d.Close()
		}
	})
	d.doc.AddEventListener(d.closeBtn, "click", func(*dom.Event) {
		d.Close()
	})

	d.status = Closed
	d.revision++
}

// Show displays e, constructing the overlay on first use.
func (d *Dialog) Show(e catalog.Entry) {
	d.ensureConstructed()
	if d.node == nil {
		return
	}
	title := textOf(e.Title)
	d.doc.SetText(d.title, title)
	dom.SetAttr(d.image, "src", textOf(e.Image))
	dom.SetAttr(d.image, "alt", title)
	dom.SetAttr(d.image, "loading", "lazy")
	d.doc.SetText(d.long, textOf(e.Long))
	d.doc.SetText(d.price, "$"+e.Price.String()+" "+e.Currency.String())

	phone := ContactPhone(d.state, d.opts.FallbackPhone)
	dom.SetAttr(d.book, "href", BookingURL(d.opts.BookingBaseURL, phone, d.opts.BookingMessage, e.Title.String()))

	dom.SetAttr(d.panel, "role", "dialog")
	dom.SetAttr(d.panel, "aria-modal", "true")
	dom.SetAttr(d.panel, "aria-labelledby", "st-title")
	dom.SetAttr(d.panel, "tabindex", "-1")
	dom.SetAttr(d.panel, "autofocus", "")
	d.doc.Focus(d.panel)

	dom.AddClass(d.node, "active")
	entry := e
	d.current = &entry
	d.status = Open
	d.revision++
	metrics.DialogOpens.Inc()
}

// Close hides the dialog. Closing a dialog that is not open does nothing.
func (d *Dialog) Close() {
	if d.status != Open {
		return
	}
	dom.RemoveClass(d.node, "active")
	dom.RemoveAttr(d.panel, "autofocus")
	d.current = nil
	d.status = Closed
	d.revision++
}

// textOf mirrors text-content assignment: null renders as nothing.
func textOf(v catalog.Value) string {
	if v.IsNull() {
		return ""
	}
	return v.String()
}
