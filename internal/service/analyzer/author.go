package analyzer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/chynybekuuludastan/seo_inspector/internal/service/parser"
)

// ExtractAuthor reads page authorship. A rel="author" link or anchor wins
// over the author meta tag.
func ExtractAuthor(doc *goquery.Document) AuthorFacts {
	rel := doc.Find(`a[rel="author"], link[rel="author"]`).First()
	if rel.Length() > 0 {
		name := strings.TrimSpace(rel.Text())
		if name == "" {
			name = strings.TrimSpace(rel.AttrOr("title", ""))
		}
		link := strings.TrimSpace(rel.AttrOr("href", ""))
		if name != "" || link != "" {
			return AuthorFacts{
				Found:  true,
				Name:   name,
				Link:   link,
				Source: "rel=author",
			}
		}
	}

	if name := parser.MetaContent(doc, "author"); name != "" {
		return AuthorFacts{
			Found:  true,
			Name:   name,
			Source: "meta author",
		}
	}

	return AuthorFacts{}
}
