package analyzer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/chynybekuuludastan/seo_inspector/internal/service/parser"
)

// ExtractDates reads publication and modification dates. Article meta
// properties win over <time datetime> elements; the Source field records
// which one supplied the values.
func ExtractDates(doc *goquery.Document) DatesFacts {
	published := parser.MetaContent(doc, "article:published_time")
	modified := parser.MetaContent(doc, "article:modified_time")

	if published != "" || modified != "" {
		return DatesFacts{
			Found:     true,
			Published: published,
			Modified:  modified,
			Source:    "meta article:published_time/article:modified_time",
		}
	}

	datetime, _ := doc.Find("time[datetime]").First().Attr("datetime")
	datetime = strings.TrimSpace(datetime)
	if datetime == "" {
		return DatesFacts{}
	}

	return DatesFacts{
		Found:     true,
		Published: datetime,
		Source:    "time element datetime attribute",
	}
}
