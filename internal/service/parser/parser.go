// Package parser turns raw HTML into a queryable document tree for the
// signal extractors. Parsing is best-effort: malformed or partial markup
// yields a document covering whatever well-formed fragments exist.
package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Parse builds a document from raw HTML. The underlying parser recovers from
// malformed markup, so an error here means the input could not be read at all.
func Parse(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// MetaContent returns the trimmed content attribute of the first meta element
// whose name or property attribute equals key, or "" when absent.
func MetaContent(doc *goquery.Document, key string) string {
	var content string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		if name == "" {
			name, _ = s.Attr("property")
		}
		if name != key {
			return true
		}
		content, _ = s.Attr("content")
		return false
	})
	return strings.TrimSpace(content)
}

// LinkHref returns the trimmed href of the first link element carrying the
// given rel value, or "" when absent.
func LinkHref(doc *goquery.Document, rel string) string {
	href, _ := doc.Find(`link[rel="` + rel + `"]`).First().Attr("href")
	return strings.TrimSpace(href)
}
