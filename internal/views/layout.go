// Package views holds the page shell that every visitor's document starts from.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Element ids the page scripts and the Go core agree on.
const (
	ListingID      = "pasadias-list"
	AboutID        = "about-content"
	MainNavID      = "main-nav"
	MobileNavBtnID = "mobile-nav-btn"
	// DialogRootID is the mount point the detail dialog is built into.
	DialogRootID = "dialog-root"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

var tmpl = template.Must(template.New("_root").ParseFS(templateFiles, "templates/*.tmpl"))

// LayoutData feeds the page shell.
type LayoutData struct {
	Title       string
	SiteName    string
	Placeholder string
	AssetsPath  string
	HTMXSrc     string
}

type layoutView struct {
	LayoutData
	ListingID      string
	AboutID        string
	MainNavID      string
	MobileNavBtnID string
	DialogRootID   string
}

// Layout renders the initial document: header with navigation, the catalog
// section holding the listing container, an about slot, the footer and the
// dialog mount point.
func Layout(data LayoutData) templ.Component {
	data.AssetsPath = strings.TrimRight(data.AssetsPath, "/")
	view := layoutView{
		LayoutData:     data,
		ListingID:      ListingID,
		AboutID:        AboutID,
		MainNavID:      MainNavID,
		MobileNavBtnID: MobileNavBtnID,
		DialogRootID:   DialogRootID,
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return tmpl.ExecuteTemplate(w, "base", view)
	})
}
