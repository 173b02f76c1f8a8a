package analyzer

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/chynybekuuludastan/seo_inspector/internal/service/parser"
)

// ExtractMetaTags reads the head-level meta signals of the document. The page
// URL is needed to decide whether the canonical link points back at the page.
func ExtractMetaTags(doc *goquery.Document, pageURL string) MetaTagsFacts {
	facts := MetaTagsFacts{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		Description: parser.MetaContent(doc, "description"),
		Keywords:    parser.MetaContent(doc, "keywords"),
		Canonical:   parser.LinkHref(doc, "canonical"),
		Robots:      parser.MetaContent(doc, "robots"),
		HTMLLang:    strings.TrimSpace(doc.Find("html").First().AttrOr("lang", "")),
	}

	facts.TitleLength = len(facts.Title)
	facts.DescriptionLength = len(facts.Description)
	facts.CanonicalMatches = canonicalMatches(facts.Canonical, pageURL)

	robots := strings.ToLower(facts.Robots)
	facts.RobotsValid = strings.Contains(robots, "index") || strings.Contains(robots, "noindex")
	facts.MaxImagePreview = strings.Contains(robots, "max-image-preview:large")

	return facts
}

// canonicalMatches resolves the canonical href against the page URL and
// compares the absolute forms. A missing or unparseable href never matches.
func canonicalMatches(canonical, pageURL string) bool {
	if canonical == "" {
		return false
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	ref, err := url.Parse(canonical)
	if err != nil {
		return false
	}
	return base.ResolveReference(ref).String() == base.String()
}
