package sanitize

import "strings"

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Escape replaces the five markup-significant characters with their entities
// so the result can be placed inside element content or a quoted attribute.
func Escape(s string) string {
	if s == "" {
		return ""
	}
	return escaper.Replace(s)
}

// Scalar is a loosely typed value coming from untrusted catalog data.
type Scalar interface {
	String() string
	Truthy() bool
}

// EscapeValue escapes the string form of v. Falsy values (null, false, 0,
// empty string) escape to the empty string.
func EscapeValue(v Scalar) string {
	if v == nil || !v.Truthy() {
		return ""
	}
	return Escape(v.String())
}
