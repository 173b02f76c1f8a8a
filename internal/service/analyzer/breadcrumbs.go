package analyzer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractBreadcrumbs looks for a JSON-LD BreadcrumbList first and falls back
// to any element marked up with aria-label="breadcrumb". The fallback sets
// Found without structured items.
func ExtractBreadcrumbs(doc *goquery.Document) BreadcrumbFacts {
	for _, node := range jsonLDNodes(doc) {
		if !hasType(node, "BreadcrumbList") {
			continue
		}
		return BreadcrumbFacts{
			Found:  true,
			Source: "json-ld",
			Items:  breadcrumbItems(node),
		}
	}

	if doc.Find(`[aria-label="breadcrumb"]`).Length() > 0 {
		return BreadcrumbFacts{Found: true, Source: "aria-label"}
	}

	return BreadcrumbFacts{}
}

func hasType(node map[string]interface{}, want string) bool {
	for _, t := range nodeTypes(node) {
		if t == want {
			return true
		}
	}
	return false
}

func breadcrumbItems(node map[string]interface{}) []BreadcrumbItem {
	list, ok := node["itemListElement"].([]interface{})
	if !ok {
		return nil
	}

	var items []BreadcrumbItem
	for i, entry := range list {
		obj, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}

		item := BreadcrumbItem{Position: i + 1}
		if pos, ok := obj["position"].(float64); ok {
			item.Position = int(pos)
		}
		if name, ok := obj["name"].(string); ok {
			item.Name = strings.TrimSpace(name)
		}
		switch target := obj["item"].(type) {
		case string:
			item.URL = target
		case map[string]interface{}:
			if id, ok := target["@id"].(string); ok {
				item.URL = id
			}
			if item.Name == "" {
				if name, ok := target["name"].(string); ok {
					item.Name = strings.TrimSpace(name)
				}
			}
		}
		items = append(items, item)
	}
	return items
}
