package ingest

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/celerio/scout/schema"
)

// ResolveHomepage fills empty homepage text fields from the raw HTML snapshot.
// Fields that already hold text are left alone.
func ResolveHomepage(h *schema.HomepageSignals) error {
	if h == nil || strings.TrimSpace(h.HTML) == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(h.HTML))
	if err != nil {
		return fmt.Errorf("failed to parse homepage HTML: %w", err)
	}

	if h.H1Text == "" {
		h.H1Text = collapse(doc.Find("h1").First().Text())
	}
	if h.TitleText == "" {
		h.TitleText = collapse(doc.Find("title").First().Text())
	}
	if h.RawCopy == "" {
		body := doc.Find("body")
		body.Find("script, style, noscript, template").Remove()
		h.RawCopy = collapse(body.Text())
	}
	return nil
}

// collapse trims text and squeezes runs of whitespace into single spaces.
func collapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
