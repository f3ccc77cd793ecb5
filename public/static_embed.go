// Package public embeds the static files served next to the page.
package public

import (
	"embed"
	"io/fs"
)

//go:embed static
var static embed.FS

// StaticFS returns the embedded static tree rooted at static/.
func StaticFS() (fs.FS, error) {
	return fs.Sub(static, "static")
}

// AssetsFS returns the stylesheet and browser scripts under static/assets.
func AssetsFS() (fs.FS, error) {
	return fs.Sub(static, "static/assets")
}
