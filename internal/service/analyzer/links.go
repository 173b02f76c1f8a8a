package analyzer

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

const (
	// maxExternalChecks limits how many external links join the probe list.
	maxExternalChecks = 10
	// maxTotalChecks is the hard ceiling on liveness probes per page.
	maxTotalChecks = 20
	// probeWorkers bounds concurrent probes against the target hosts.
	probeWorkers = 5

	externalLinksNote = "external link statuses beyond the probed sample are reported optimistically, not verified"
)

// headProber issues a single existence probe.
type headProber interface {
	Head(ctx context.Context, targetURL string) (int, error)
}

type pageLink struct {
	url      string
	text     string
	internal bool
	nofollow bool
}

// AnalyzeLinks enumerates the anchors of the document, classifies them
// against the base URL, and liveness-checks a bounded sample: every internal
// link plus the first 10 external ones, capped at 20 probes total. Fragment,
// mailto and tel hrefs are excluded; unresolvable hrefs are dropped silently.
func AnalyzeLinks(ctx context.Context, doc *goquery.Document, baseURL string, prober headProber) LinkGraphFacts {
	facts := LinkGraphFacts{
		Broken:        []BrokenLink{},
		ExternalLinks: []ExternalLink{},
		Note:          externalLinksNote,
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return facts
	}

	links := collectLinks(doc, base)
	facts.Total = len(links)

	var internal, external []pageLink
	for _, l := range links {
		if l.internal {
			internal = append(internal, l)
		} else {
			external = append(external, l)
		}
	}
	facts.Internal = len(internal)
	facts.External = len(external)

	checkList := append([]pageLink{}, internal...)
	checkList = append(checkList, external[:min(len(external), maxExternalChecks)]...)
	if len(checkList) > maxTotalChecks {
		checkList = checkList[:maxTotalChecks]
	}

	broken := probeLinks(ctx, prober, checkList)

	checkedBroken := make(map[string]bool, len(broken))
	for _, b := range broken {
		checkedBroken[b.URL] = true
	}
	checked := make(map[string]bool, len(checkList))
	for _, l := range checkList {
		checked[l.url] = true
	}

	facts.Broken = broken
	for _, l := range external {
		status := "success"
		if checkedBroken[l.url] {
			status = "broken"
		}
		facts.ExternalLinks = append(facts.ExternalLinks, ExternalLink{
			URL:      l.url,
			Text:     l.text,
			NoFollow: l.nofollow,
			Status:   status,
			Checked:  checked[l.url],
		})
	}

	return facts
}

// collectLinks resolves every anchor href against the base URL and classifies
// it. Skipped: fragment-only, mailto: and tel: hrefs plus anything that does
// not resolve.
func collectLinks(doc *goquery.Document, base *url.URL) []pageLink {
	var links []pageLink
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if resolved.Hostname() == "" {
			return
		}

		links = append(links, pageLink{
			url:      resolved.String(),
			text:     strings.TrimSpace(s.Text()),
			internal: resolved.Hostname() == base.Hostname(),
			nofollow: strings.Contains(s.AttrOr("rel", ""), "nofollow"),
		})
	})
	return links
}

// probeLinks runs HEAD probes through a bounded worker pool and returns the
// broken entries in check-list order. An HTTP status >= 400 records the
// status; a transport failure records status 0 with the error message.
func probeLinks(ctx context.Context, prober headProber, checkList []pageLink) []BrokenLink {
	if len(checkList) == 0 {
		return []BrokenLink{}
	}

	results := make([]*BrokenLink, len(checkList))
	jobs := make(chan int, len(checkList))

	var wg sync.WaitGroup
	workers := min(len(checkList), probeWorkers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				link := checkList[i]
				status, err := prober.Head(ctx, link.url)
				switch {
				case err != nil:
					results[i] = &BrokenLink{URL: link.url, Text: link.text, Status: 0, Error: err.Error()}
				case status >= 400:
					results[i] = &BrokenLink{URL: link.url, Text: link.text, Status: status}
				}
			}
		}()
	}

	for i := range checkList {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	broken := []BrokenLink{}
	for _, r := range results {
		if r != nil {
			broken = append(broken, *r)
		}
	}
	return broken
}
