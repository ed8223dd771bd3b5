package markdown

import (
	"strings"
	"testing"
)

func TestRenderBasicMarkdown(t *testing.T) {
	t.Parallel()

	html, err := Render("# Title\n\nSome *emphasis* and a [link](https://example.com).")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"<h1>", "<em>", `<a href="https://example.com"`} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q: %s", want, html)
		}
	}
}

func TestRenderSanitizesHTML(t *testing.T) {
	t.Parallel()

	html, err := Render("hello <script>alert('x')</script> <img src=x onerror=alert(1)>")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "<script") || strings.Contains(html, "onerror") {
		t.Fatalf("unsafe markup survived: %s", html)
	}
}

func TestRenderAutolinks(t *testing.T) {
	t.Parallel()

	html, err := Render("see https://example.com/page")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "<a href=") {
		t.Fatalf("bare URL not linkified: %s", html)
	}
}
