// Package markdown renders user-supplied post and comment bodies to
// sanitized HTML. Rendering happens once, when the body is written or
// edited; the result is stored next to the source so reads never pay for it.
package markdown

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
	)
	policy = bluemonday.UGCPolicy()
)

// Render converts markdown to HTML and strips anything the UGC policy does
// not allow. Untrusted input in, safe-to-embed HTML out.
func Render(body string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return policy.Sanitize(buf.String()), nil
}
