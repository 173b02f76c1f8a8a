package analyzer

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// jsonLDNodes decodes every JSON-LD script block of the document into object
// nodes, flattening top-level arrays. Malformed blocks are skipped silently.
func jsonLDNodes(doc *goquery.Document) []map[string]interface{} {
	var nodes []map[string]interface{}
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var decoded interface{}
		if err := json.Unmarshal([]byte(s.Text()), &decoded); err != nil {
			return
		}
		switch v := decoded.(type) {
		case map[string]interface{}:
			nodes = append(nodes, v)
		case []interface{}:
			for _, item := range v {
				if obj, ok := item.(map[string]interface{}); ok {
					nodes = append(nodes, obj)
				}
			}
		}
	})
	return nodes
}

// nodeTypes returns the @type entries of a JSON-LD node, flattening arrays.
func nodeTypes(node map[string]interface{}) []string {
	var types []string
	switch t := node["@type"].(type) {
	case string:
		types = append(types, t)
	case []interface{}:
		for _, entry := range t {
			if s, ok := entry.(string); ok {
				types = append(types, s)
			}
		}
	}
	return types
}

// ExtractSchema collects structured-data declarations: JSON-LD @type entries
// plus microdata itemtype attributes.
func ExtractSchema(doc *goquery.Document) SchemaFacts {
	var entries []SchemaEntry

	for _, node := range jsonLDNodes(doc) {
		for _, t := range nodeTypes(node) {
			entries = append(entries, SchemaEntry{Type: t, Format: "json-ld"})
		}
	}

	doc.Find("[itemtype]").Each(func(_ int, s *goquery.Selection) {
		itemtype := strings.TrimSpace(s.AttrOr("itemtype", ""))
		if itemtype != "" {
			entries = append(entries, SchemaEntry{Type: itemtype, Format: "microdata"})
		}
	})

	return SchemaFacts{
		Found: len(entries) > 0,
		Types: entries,
	}
}
