package analyzer

import (
	"github.com/PuerkitoBio/goquery"
)

// altCoverageThreshold is the fraction of images that must carry an alt
// attribute for the page to count as alt-tagged.
const altCoverageThreshold = 0.8

// ExtractAccessibility computes markup-level accessibility heuristics.
// Attribute presence counts even when the alt value is empty. Contrast-ratio
// analysis needs rendering and is not supported.
func ExtractAccessibility(doc *goquery.Document) AccessibilityFacts {
	images := doc.Find("img")
	total := images.Length()

	withAlt := 0
	images.Each(func(_ int, s *goquery.Selection) {
		if _, ok := s.Attr("alt"); ok {
			withAlt++
		}
	})

	hasAlt := total == 0 || float64(withAlt)/float64(total) > altCoverageThreshold

	return AccessibilityFacts{
		HasAltTags:    hasAlt,
		ImagesTotal:   total,
		ImagesWithAlt: withAlt,
		HasHeadings:   doc.Find("h1, h2, h3, h4, h5, h6").Length() > 0,
		ContrastRatio: nil,
	}
}
