package search

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const blockElements = "br, p, div, li, tr, h1, h2, h3, h4, h5, h6"

// PlainText renders an HTML description as single-spaced text. Input that
// fails to parse is returned with whitespace collapsed.
func PlainText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(html), " ")
	}
	doc.Find("script, style").Remove()
	doc.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	return strings.Join(strings.Fields(doc.Text()), " ")
}
