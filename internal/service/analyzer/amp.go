package analyzer

import (
	"context"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/chynybekuuludastan/seo_inspector/internal/service/parser"
)

// AmpFacts is the outcome of pairing a page with its AMP or regular
// counterpart. Unresolved counterparts stay empty.
type AmpFacts struct {
	IsAMP      bool   `json:"is_amp"`
	AmpURL     string `json:"amp_url,omitempty"`
	RegularURL string `json:"regular_url,omitempty"`
}

// ResolveAMP classifies the fetched document as AMP or regular and resolves
// the counterpart URL. For a regular page without an amphtml link, a list of
// candidate URL patterns is probed; the first one answering 200 wins. Probe
// failures count as "candidate does not exist".
func ResolveAMP(ctx context.Context, doc *goquery.Document, fetchedURL string, prober headProber) AmpFacts {
	root := doc.Find("html").First()
	if _, amp := root.Attr("amp"); amp {
		return resolveRegularCounterpart(doc, fetchedURL)
	}
	if _, amp := root.Attr("⚡"); amp {
		return resolveRegularCounterpart(doc, fetchedURL)
	}

	facts := AmpFacts{RegularURL: fetchedURL}

	if href := parser.LinkHref(doc, "amphtml"); href != "" {
		if resolved := resolveAgainst(fetchedURL, href); resolved != "" {
			facts.AmpURL = resolved
			return facts
		}
	}

	for _, candidate := range ampCandidates(fetchedURL) {
		status, err := prober.Head(ctx, candidate)
		if err == nil && status == http.StatusOK {
			facts.AmpURL = candidate
			break
		}
	}

	return facts
}

// resolveRegularCounterpart handles a page that is itself AMP: the regular
// URL comes from the canonical link when present and stays unresolved
// otherwise.
func resolveRegularCounterpart(doc *goquery.Document, fetchedURL string) AmpFacts {
	facts := AmpFacts{IsAMP: true, AmpURL: fetchedURL}
	if href := parser.LinkHref(doc, "canonical"); href != "" {
		facts.RegularURL = resolveAgainst(fetchedURL, href)
	}
	return facts
}

func resolveAgainst(baseURL, href string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// ampCandidates generates the probe list of common AMP URL patterns for a
// regular page URL.
func ampCandidates(pageURL string) []string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return nil
	}

	origin := u.Scheme + "://" + u.Host
	path := u.Path
	query := ""
	if u.RawQuery != "" {
		query = "?" + u.RawQuery
	}

	return []string{
		origin + "/amp" + path,
		origin + path + "/amp/",
		origin + path + "?amp=1",
		origin + "/amp" + path + query,
	}
}
