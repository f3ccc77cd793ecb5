package page

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stiventours.com/pasadias/internal/catalog"
	"stiventours.com/pasadias/internal/dom"
	"stiventours.com/pasadias/internal/views"
)

const tourA = `{"pasadias":[{"id":"x1","title":"Tour A","price":100,"currency":"USD","image":"a.jpg","short":"s","features":["f1"],"long":"L"}]}`

type stubSource struct {
	payload catalog.Payload
	err     error
	calls   int
}

func (s *stubSource) Fetch(context.Context) (catalog.Payload, error) {
	s.calls++
	return s.payload, s.err
}

func sourceFor(t *testing.T, doc string) *stubSource {
	t.Helper()
	p, err := catalog.Parse([]byte(doc))
	require.NoError(t, err)
	return &stubSource{payload: p}
}

func loadedPage(t *testing.T, src Source) *Page {
	t.Helper()
	p, err := New("test", src, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, p.Load(context.Background()))
	return p
}

func snapshot(t *testing.T, p *Page) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, p.Render(&buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func triggerKey(t *testing.T, doc *goquery.Document, id string) string {
	t.Helper()
	key, ok := doc.Find(`.ver-mas[data-id="` + id + `"]`).Attr(dom.KeyAttr)
	require.True(t, ok, "trigger for %s has no event key", id)
	return key
}

func catalogOf(ids ...string) string {
	var entries []string
	for _, id := range ids {
		entries = append(entries, `{"id":"`+id+`","title":"Tour `+id+`","price":50,"currency":"COP","image":"`+id+`.jpg","short":"s","features":["a","b"],"long":"Largo `+id+`"}`)
	}
	return `{"pasadias":[` + strings.Join(entries, ",") + `]}`
}

func TestScenarioSingleEntryOpensDialog(t *testing.T) {
	p := loadedPage(t, sourceFor(t, tourA))
	doc := snapshot(t, p)

	cards := doc.Find("#pasadias-list .tour-card")
	require.Equal(t, 1, cards.Length())
	require.Equal(t, "Tour A", cards.Find("h3").Text())
	require.Equal(t, "f1", strings.TrimSpace(strings.TrimPrefix(cards.Find("li").Text(), "•")))
	require.Equal(t, 0, doc.Find("#pasadias-list .placeholder").Length())
	require.Equal(t, 0, doc.Find("#"+ModalID).Length())

	res, err := p.Click(triggerKey(t, doc, "x1"))
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.True(t, res.Constructed)
	require.Equal(t, Open, res.Dialog)
	require.Contains(t, res.Fragment, `id="st-modal"`)

	doc = snapshot(t, p)
	require.Equal(t, 1, doc.Find("#"+ModalID).Length())
	require.True(t, doc.Find("#"+ModalID).HasClass("active"))
	require.Equal(t, "Tour A", doc.Find("#st-title").Text())
	require.Equal(t, "$100 USD", doc.Find("#st-price").Text())
	require.Equal(t, "L", doc.Find("#st-long").Text())
	alt, _ := doc.Find("#st-image").Attr("alt")
	require.Equal(t, "Tour A", alt)
	href, _ := doc.Find("#st-book").Attr("href")
	require.Equal(t, "https://wa.me/573001234567?text=Hola%2C%20quiero%20reservar%3A%20Tour%20A", href)

	panel := doc.Find("#" + ModalID + " .panel")
	role, _ := panel.Attr("role")
	require.Equal(t, "dialog", role)
	modal, _ := panel.Attr("aria-modal")
	require.Equal(t, "true", modal)
	labelled, _ := panel.Attr("aria-labelledby")
	require.Equal(t, "st-title", labelled)
	require.Same(t, p.dialog.panel, p.doc.ActiveElement())
	require.Equal(t, 1, doc.Find("#"+views.DialogRootID+" > #"+ModalID).Length())
}

func TestScenarioInvalidEntryShowsWarning(t *testing.T) {
	p := loadedPage(t, sourceFor(t, `{"pasadias":[{"id":"bad"}]}`))
	doc := snapshot(t, p)

	require.Equal(t, 0, doc.Find(".tour-card").Length())
	warn := doc.Find("." + WarningClass)
	require.Equal(t, 1, warn.Length())
	require.Contains(t, warn.Text(), "IDs problemáticos: bad.")
	// the banner sits right before the listing container
	require.Equal(t, "pasadias-list", warn.Next().AttrOr("id", ""))
}

func TestWarningDoesNotBlockValidEntries(t *testing.T) {
	doc := `{"pasadias":[` +
		`{"id":"ok","title":"T","price":1,"currency":"USD","image":"i","short":"s","features":[],"long":"l"},` +
		`{"id":"<img src=x>","title":"T"},` +
		`{"title":"sin id"}]}`
	p := loadedPage(t, sourceFor(t, doc))
	out := snapshot(t, p)

	require.Equal(t, 1, out.Find(".tour-card").Length())
	warn := out.Find("." + WarningClass)
	require.Contains(t, warn.Text(), "<img src=x>, (sin id)")
	require.Equal(t, 0, warn.Find("img").Length())
	require.Len(t, p.state.Result.Rejected, 2)
}

func TestScenarioHTTP404ShowsSingleError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(ts.Close)

	p := loadedPage(t, catalog.NewFetcher(ts.URL+"/data.json", ts.Client()))
	doc := snapshot(t, p)

	list := doc.Find("#pasadias-list")
	require.Equal(t, 1, list.Children().Length())
	require.Equal(t, 1, list.Find("."+ErrorClass).Length())
	require.Equal(t, LoadErrorMessage, list.Find("."+ErrorClass).Text())
	require.Equal(t, 0, doc.Find(".tour-card").Length())
	require.Equal(t, 0, doc.Find("."+WarningClass).Length())

	var statusErr *catalog.StatusError
	require.ErrorAs(t, p.state.LoadErr, &statusErr)
	require.Nil(t, p.state.Payload)
}

func TestFileSchemeShowsGuidance(t *testing.T) {
	p := loadedPage(t, catalog.NewFetcher("file:///var/www/data.json", nil))
	doc := snapshot(t, p)

	require.Equal(t, FileSchemeMessage, doc.Find("#pasadias-list ."+ErrorClass).Text())
}

func TestLoadRunsOnce(t *testing.T) {
	src := sourceFor(t, tourA)
	p := loadedPage(t, src)

	require.ErrorIs(t, p.Load(context.Background()), ErrAlreadyLoaded)
	require.Equal(t, 1, src.calls)
}

func TestTitleAndAboutFromPayload(t *testing.T) {
	p := loadedPage(t, sourceFor(t, `{"siteName":"Tours <Premium> & Co","about":"Somos **locales**<script>x()</script>","pasadias":[]}`))
	doc := snapshot(t, p)

	require.Equal(t, "Tours <Premium> & Co | Agencia de Turismo", doc.Find("title").Text())
	require.Equal(t, "locales", doc.Find("#about-content strong").Text())
	require.Equal(t, 0, doc.Find("#about-content script").Length())

	p = loadedPage(t, sourceFor(t, `{"pasadias":[]}`))
	require.Equal(t, "Stiventours | Agencia de Turismo", snapshot(t, p).Find("title").Text())
}

func TestUntrustedTextIsEscaped(t *testing.T) {
	evil := `<script>alert('x')</script> & "q"`
	doc := `{"pasadias":[{"id":"e1","title":` + jsonString(evil) + `,"price":"<b>9</b>","currency":"USD","image":"\" onerror=\"x","short":` + jsonString(evil) + `,"features":[` + jsonString(evil) + `],"long":` + jsonString(evil) + `}]}`
	p := loadedPage(t, sourceFor(t, doc))

	out := snapshot(t, p)
	_, err := p.Click(triggerKey(t, out, "e1"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, p.Render(&buf))
	raw := buf.String()
	require.NotContains(t, raw, "<script>alert")
	require.NotContains(t, raw, "<b>9</b>")
	require.NotContains(t, raw, `onerror="x"`)

	out = snapshot(t, p)
	require.Equal(t, evil, out.Find(".tour-card h3").Text())
	require.Equal(t, evil, out.Find("#st-title").Text())
	require.Equal(t, evil, out.Find("#st-long").Text())
	require.Equal(t, 0, out.Find("script:not([src])").Length())
}

func TestRerenderKeepsOneListenerPerTrigger(t *testing.T) {
	p := loadedPage(t, sourceFor(t, catalogOf("a", "b", "c")))
	valid := p.state.Result.Valid
	first := snapshot(t, p)
	staleKey := triggerKey(t, first, "b")

	for i := 0; i < 3; i++ {
		p.cards.Render(valid)
	}

	triggers := p.doc.QuerySelectorAll(".ver-mas")
	require.Len(t, triggers, len(valid))
	for _, btn := range triggers {
		require.Equal(t, 1, p.doc.ListenerCount(btn, "click"))
	}
	require.Equal(t, len(valid), p.doc.TotalListeners("click"))

	doc := snapshot(t, p)
	require.Equal(t, len(valid), doc.Find(".tour-card").Length())

	// a key from a replaced card no longer resolves
	res, err := p.Click(staleKey)
	require.NoError(t, err)
	require.False(t, res.Changed)
	require.Equal(t, Uninitialized, p.dialog.State())

	res, err = p.Click(triggerKey(t, doc, "b"))
	require.NoError(t, err)
	require.True(t, res.Changed)
	// one construction plus exactly one show
	require.Equal(t, 2, p.dialog.Revision())
	entry, ok := p.dialog.Current()
	require.True(t, ok)
	require.Equal(t, "b", entry.ID.String())
}

func TestClickWithUnknownIDIsNoop(t *testing.T) {
	p := loadedPage(t, sourceFor(t, catalogOf("a")))
	btn := p.doc.QuerySelector(".ver-mas")
	dom.SetAttr(btn, "data-id", "ghost")

	res, err := p.Click(p.doc.Key(btn))
	require.NoError(t, err)
	require.False(t, res.Changed)
	require.Empty(t, res.Fragment)
	require.Equal(t, Uninitialized, p.dialog.State())

	res, err = p.Click("n9999")
	require.NoError(t, err)
	require.False(t, res.Changed)
}

func TestShowSwapsContentInPlace(t *testing.T) {
	p := loadedPage(t, sourceFor(t, catalogOf("a", "b")))
	doc := snapshot(t, p)

	res, err := p.Click(triggerKey(t, doc, "a"))
	require.NoError(t, err)
	require.True(t, res.Constructed)
	node := p.dialog.Node()

	res, err = p.Click(triggerKey(t, doc, "b"))
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.False(t, res.Constructed)
	require.Same(t, node, p.dialog.Node())

	doc = snapshot(t, p)
	require.Equal(t, 1, doc.Find("#"+ModalID).Length())
	require.Equal(t, "Tour b", doc.Find("#st-title").Text())
	require.Equal(t, "Largo b", doc.Find("#st-long").Text())
	require.Equal(t, "$50 COP", doc.Find("#st-price").Text())
}

func TestBackdropPanelAndCloseButton(t *testing.T) {
	p := loadedPage(t, sourceFor(t, catalogOf("a")))
	open := func() {
		_, err := p.Click(triggerKey(t, snapshot(t, p), "a"))
		require.NoError(t, err)
		require.Equal(t, Open, p.dialog.State())
	}
	open()

	panelKey := p.doc.Key(p.dialog.panel)
	modalKey := p.doc.Key(p.dialog.Node())
	closeKey := p.doc.Key(p.dialog.closeBtn)

	res, err := p.Click(panelKey)
	require.NoError(t, err)
	require.False(t, res.Changed, "clicks inside the panel must not close the dialog")
	require.Equal(t, Open, p.dialog.State())

	res, err = p.Click(modalKey)
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.Equal(t, Closed, res.Dialog)
	require.False(t, snapshot(t, p).Find("#"+ModalID).HasClass("active"))

	open()
	res, err = p.Click(closeKey)
	require.NoError(t, err)
	require.Equal(t, Closed, res.Dialog)

	// the node survives closing
	require.Equal(t, 1, snapshot(t, p).Find("#"+ModalID).Length())
	res, err = p.Click(closeKey)
	require.NoError(t, err)
	require.False(t, res.Changed)
}

func TestBookingUsesCatalogPhone(t *testing.T) {
	doc := `{"contact":{"phone":"+57 (311) 000-1122"},` + strings.TrimPrefix(catalogOf("a"), "{")
	p := loadedPage(t, sourceFor(t, doc))

	_, err := p.Click(triggerKey(t, snapshot(t, p), "a"))
	require.NoError(t, err)

	href, _ := snapshot(t, p).Find("#st-book").Attr("href")
	require.True(t, strings.HasPrefix(href, "https://wa.me/573110001122?text="), href)
}

func TestRenderWithoutContainerIsNoop(t *testing.T) {
	p, err := New("x", sourceFor(t, tourA), DefaultOptions())
	require.NoError(t, err)
	r := NewCardRenderer(p.doc, nil, p.dialog, DefaultOptions())
	r.Render(p.state.Result.Valid)
	assert.Zero(t, p.doc.TotalListeners("click"))
}

func jsonString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
