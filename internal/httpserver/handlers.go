package httpserver

import (
	"bytes"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog"

	custommw "stiventours.com/pasadias/internal/httpserver/middleware"
	"stiventours.com/pasadias/internal/views"
)

type handlers struct {
	store  *PageStore
	logger zerolog.Logger
}

// home renders the visitor's page, creating it on the first visit.
func (h *handlers) home(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Get(r.Context(), custommw.PageIDFromContext(r.Context()))
	if err != nil {
		h.logger.Error().Err(err).Msg("build page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		h.logger.Error().Err(err).Msg("render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// click dispatches a browser click to the page. htmx callers get the dialog
// fragment to place in the dialog mount point; plain form posts are
// redirected home.
func (h *handlers) click(w http.ResponseWriter, r *http.Request) {
	isHTMX := custommw.IsHTMXRequest(r.Context())
	p, ok := h.store.Lookup(custommw.PageIDFromContext(r.Context()))
	if !ok {
		// the page expired or the cookie changed; start over
		if isHTMX {
			w.Header().Set("HX-Refresh", "true")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	res, err := p.Click(r.PostFormValue("node"))
	if err != nil {
		h.logger.Error().Err(err).Str("page", p.ID()).Msg("dispatch click")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if !isHTMX {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if !res.Changed {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	// tabs rendered before the dialog existed still carry the mount point
	w.Header().Set("HX-Retarget", "#"+views.DialogRootID)
	w.Header().Set("HX-Reswap", "innerHTML")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(res.Fragment))
}

// catalogDocument serves the bundled sample catalog.
func catalogDocument(fsys fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := fs.ReadFile(fsys, "data.json")
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write(data)
	}
}
