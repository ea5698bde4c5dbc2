package httpserver

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"

	"stay_reviews/internal/domain"
)

var markdown = goldmark.New()

// renderDraftHTML turns the review paragraphs into an HTML fragment. Raw HTML in the
// text is dropped by goldmark's default renderer.
func renderDraftHTML(d domain.Draft) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<article class=\"review\" data-draft=%q>\n<h1>%s</h1>\n",
		html.EscapeString(d.ID), html.EscapeString(d.HotelName))
	if err := markdown.Convert([]byte(d.Review.Text), &buf); err != nil {
		return nil, fmt.Errorf("convert draft %s: %w", d.ID, err)
	}
	buf.WriteString("</article>\n")
	return buf.Bytes(), nil
}

// htmlETag derives a distinct validator for the HTML representation.
func htmlETag(etag string) string {
	if etag == "" {
		return ""
	}
	return strings.TrimSuffix(etag, `"`) + `-html"`
}
