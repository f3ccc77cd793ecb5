package sanitize

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var (
	// ugcPolicy keeps basic formatting for operator-authored markdown.
	ugcPolicy = bluemonday.UGCPolicy()

	md = goldmark.New()
)

// Markdown renders src as markdown and sanitizes the resulting HTML.
func Markdown(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return string(ugcPolicy.SanitizeBytes(buf.Bytes())), nil
}
