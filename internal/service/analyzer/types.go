package analyzer

import (
	"time"

	"github.com/chynybekuuludastan/seo_inspector/internal/service/fetcher"
)

// MetaTagsFacts contains the head-level meta signals of a page. Length fields
// are 0 whenever the corresponding text is absent.
type MetaTagsFacts struct {
	Title             string `json:"title"`
	TitleLength       int    `json:"title_length"`
	Description       string `json:"description"`
	DescriptionLength int    `json:"description_length"`
	Keywords          string `json:"keywords"`
	Canonical         string `json:"canonical"`
	CanonicalMatches  bool   `json:"canonical_matches"`
	Robots            string `json:"robots"`
	RobotsValid       bool   `json:"robots_valid"`
	MaxImagePreview   bool   `json:"max_image_preview"`
	HTMLLang          string `json:"html_lang"`
}

// DatesFacts contains publication and modification dates. Source records
// where the winning values came from.
type DatesFacts struct {
	Found     bool   `json:"found"`
	Published string `json:"published"`
	Modified  string `json:"modified"`
	Source    string `json:"source"`
}

// AuthorFacts contains page authorship information.
type AuthorFacts struct {
	Found  bool   `json:"found"`
	Name   string `json:"name"`
	Link   string `json:"link"`
	Source string `json:"source"`
}

// BreadcrumbItem is a single entry of a structured breadcrumb trail.
type BreadcrumbItem struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	URL      string `json:"url"`
}

// BreadcrumbFacts contains breadcrumb navigation signals. Items is populated
// only when a structured BreadcrumbList was present.
type BreadcrumbFacts struct {
	Found  bool             `json:"found"`
	Source string           `json:"source"`
	Items  []BreadcrumbItem `json:"items"`
}

// SchemaEntry is one structured-data type declaration found on the page.
type SchemaEntry struct {
	Type   string `json:"type"`
	Format string `json:"format"` // "json-ld" or "microdata"
}

// SchemaFacts contains structured-data markup signals.
type SchemaFacts struct {
	Found bool          `json:"found"`
	Types []SchemaEntry `json:"types"`
}

// OpenGraphFacts contains Open Graph meta properties, empty when absent.
type OpenGraphFacts struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	URL         string `json:"url"`
	Type        string `json:"type"`
	SiteName    string `json:"site_name"`
}

// TwitterCardFacts contains Twitter Card meta properties, empty when absent.
type TwitterCardFacts struct {
	Card        string `json:"card"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Site        string `json:"site"`
}

// AccessibilityFacts contains markup-level accessibility heuristics.
// ContrastRatio is never computed and stays nil.
type AccessibilityFacts struct {
	HasAltTags    bool     `json:"has_alt_tags"`
	ImagesTotal   int      `json:"images_total"`
	ImagesWithAlt int      `json:"images_with_alt"`
	HasHeadings   bool     `json:"has_headings"`
	ContrastRatio *float64 `json:"contrast_ratio"`
}

// RobotsRule is a single parsed robots.txt directive.
type RobotsRule struct {
	UserAgent string `json:"user_agent"`
	Directive string `json:"directive"`
	Path      string `json:"path"`
}

// RobotsTxtFacts contains the fetched and parsed robots.txt of the page origin.
type RobotsTxtFacts struct {
	Found   bool         `json:"found"`
	Content string       `json:"content"`
	Rules   []RobotsRule `json:"rules"`
}

// BrokenLink is a probed link that failed. Status 0 with a non-empty Error
// marks a transport failure, as opposed to an HTTP error status.
type BrokenLink struct {
	URL    string `json:"url"`
	Text   string `json:"text"`
	Status int    `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ExternalLink is an outbound link found on the page. Checked reports whether
// the link was part of the probed sample; unchecked links carry a placeholder
// success status.
type ExternalLink struct {
	URL      string `json:"url"`
	Text     string `json:"text"`
	NoFollow bool   `json:"no_follow"`
	Status   string `json:"status"`
	Checked  bool   `json:"checked"`
}

// LinkGraphFacts aggregates the page's outgoing link graph.
type LinkGraphFacts struct {
	Total         int            `json:"total"`
	Internal      int            `json:"internal"`
	External      int            `json:"external"`
	Broken        []BrokenLink   `json:"broken"`
	ExternalLinks []ExternalLink `json:"external_links"`
	// Note documents that external statuses beyond the probe sample are
	// reported optimistically rather than verified.
	Note string `json:"note,omitempty"`
}

// ScoreFacts is the weighted scoring summary of one analyzed page.
type ScoreFacts struct {
	Score    int `json:"score"`
	Issues   int `json:"issues"`
	Warnings int `json:"warnings"`
	Passed   int `json:"passed"`
}

// Difference is one category of an AMP vs. regular comparison. Impact is
// recorded relative to the AMP side.
type Difference struct {
	Category     string `json:"category"`
	AmpValue     string `json:"amp_value"`
	RegularValue string `json:"regular_value"`
	Impact       string `json:"impact"` // "positive", "negative" or "neutral"
}

// AmpComparison pairs the scores of an AMP page and its regular counterpart.
type AmpComparison struct {
	AmpScore      int          `json:"amp_score"`
	RegularScore  int          `json:"regular_score"`
	AmpIssues     int          `json:"amp_issues"`
	RegularIssues int          `json:"regular_issues"`
	Differences   []Difference `json:"differences"`
}

// AnalysisResult is the complete outcome of one analysis run. It is assembled
// once by the Service and not mutated after being returned.
type AnalysisResult struct {
	URL         string              `json:"url"`
	AnalyzedAt  time.Time           `json:"analyzed_at"`
	StatusCode  int                 `json:"status_code"`
	Performance fetcher.Performance `json:"performance"`

	MetaTags      MetaTagsFacts      `json:"meta_tags"`
	Dates         DatesFacts         `json:"dates"`
	Author        AuthorFacts        `json:"author"`
	Breadcrumbs   BreadcrumbFacts    `json:"breadcrumbs"`
	Schema        SchemaFacts        `json:"schema"`
	OpenGraph     OpenGraphFacts     `json:"open_graph"`
	TwitterCard   TwitterCardFacts   `json:"twitter_card"`
	Accessibility AccessibilityFacts `json:"accessibility"`
	RobotsTxt     RobotsTxtFacts     `json:"robots_txt"`
	Links         LinkGraphFacts     `json:"links"`
	Score         ScoreFacts         `json:"score"`

	IsAMP         bool           `json:"is_amp"`
	AmpURL        string         `json:"amp_url,omitempty"`
	RegularURL    string         `json:"regular_url,omitempty"`
	AmpComparison *AmpComparison `json:"amp_comparison,omitempty"`
}
