package analyzer

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/chynybekuuludastan/seo_inspector/internal/service/parser"
)

// ExtractOpenGraph reads the Open Graph properties one to one, with no
// fallback chain.
func ExtractOpenGraph(doc *goquery.Document) OpenGraphFacts {
	return OpenGraphFacts{
		Title:       parser.MetaContent(doc, "og:title"),
		Description: parser.MetaContent(doc, "og:description"),
		Image:       parser.MetaContent(doc, "og:image"),
		URL:         parser.MetaContent(doc, "og:url"),
		Type:        parser.MetaContent(doc, "og:type"),
		SiteName:    parser.MetaContent(doc, "og:site_name"),
	}
}

// ExtractTwitterCard reads the Twitter Card properties one to one.
func ExtractTwitterCard(doc *goquery.Document) TwitterCardFacts {
	return TwitterCardFacts{
		Card:        parser.MetaContent(doc, "twitter:card"),
		Title:       parser.MetaContent(doc, "twitter:title"),
		Description: parser.MetaContent(doc, "twitter:description"),
		Image:       parser.MetaContent(doc, "twitter:image"),
		Site:        parser.MetaContent(doc, "twitter:site"),
	}
}
