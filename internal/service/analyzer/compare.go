package analyzer

import (
	"context"
	"fmt"

	"github.com/chynybekuuludastan/seo_inspector/internal/service/fetcher"
	"github.com/chynybekuuludastan/seo_inspector/internal/service/parser"
)

// comparisonSide is one half of an AMP/regular comparison: a re-fetched page
// scored without link liveness and robots.txt, which do not differ between
// the two renditions of the same content.
type comparisonSide struct {
	perf   fetcher.Performance
	score  ScoreFacts
	schema SchemaFacts
}

// compareAmpPair re-fetches and re-extracts both sides independently and
// builds the paired comparison. Either side failing abandons the whole
// comparison.
func (s *Service) compareAmpPair(ctx context.Context, ampURL, regularURL string) (*AmpComparison, error) {
	type sideResult struct {
		side *comparisonSide
		err  error
	}

	ampCh := make(chan sideResult, 1)
	regCh := make(chan sideResult, 1)
	go func() {
		side, err := s.analyzeSide(ctx, ampURL)
		ampCh <- sideResult{side, err}
	}()
	go func() {
		side, err := s.analyzeSide(ctx, regularURL)
		regCh <- sideResult{side, err}
	}()

	amp, reg := <-ampCh, <-regCh
	if amp.err != nil {
		return nil, amp.err
	}
	if reg.err != nil {
		return nil, reg.err
	}

	return &AmpComparison{
		AmpScore:      amp.side.score.Score,
		RegularScore:  reg.side.score.Score,
		AmpIssues:     amp.side.score.Issues,
		RegularIssues: reg.side.score.Issues,
		Differences:   compareDifferences(amp.side, reg.side),
	}, nil
}

// analyzeSide runs the pipeline for one comparison side: fetch, extract and
// score, with link liveness and robots.txt zeroed out.
func (s *Service) analyzeSide(ctx context.Context, targetURL string) (*comparisonSide, error) {
	page, err := s.pages.FetchPage(ctx, targetURL)
	if err != nil {
		return nil, err
	}
	doc, err := parser.Parse(page.HTML)
	if err != nil {
		return nil, err
	}

	meta := ExtractMetaTags(doc, targetURL)
	schema := ExtractSchema(doc)
	breadcrumbs := ExtractBreadcrumbs(doc)

	emptyLinks := LinkGraphFacts{Broken: []BrokenLink{}, ExternalLinks: []ExternalLink{}}
	score := Score(meta, schema, RobotsTxtFacts{}, emptyLinks, breadcrumbs)

	return &comparisonSide{
		perf:   page.Performance,
		score:  score,
		schema: schema,
	}, nil
}

// compareDifferences emits the fixed category diffs. Impact is recorded
// relative to the AMP side: the category where AMP does better is positive.
func compareDifferences(amp, reg *comparisonSide) []Difference {
	diffs := []Difference{
		{
			Category:     "load_time",
			AmpValue:     fmt.Sprintf("%d ms", amp.perf.LoadTimeMs),
			RegularValue: fmt.Sprintf("%d ms", reg.perf.LoadTimeMs),
			Impact:       lowerIsBetter(amp.perf.LoadTimeMs, reg.perf.LoadTimeMs),
		},
		{
			Category:     "page_size",
			AmpValue:     fmt.Sprintf("%.1f KB", float64(amp.perf.PageSizeBytes)/1024),
			RegularValue: fmt.Sprintf("%.1f KB", float64(reg.perf.PageSizeBytes)/1024),
			Impact:       lowerIsBetter(int64(amp.perf.PageSizeBytes), int64(reg.perf.PageSizeBytes)),
		},
	}

	structured := Difference{
		Category:     "structured_data",
		AmpValue:     presence(amp.schema.Found),
		RegularValue: presence(reg.schema.Found),
		Impact:       "neutral",
	}
	if amp.schema.Found != reg.schema.Found {
		if amp.schema.Found {
			structured.Impact = "positive"
		} else {
			structured.Impact = "negative"
		}
	}

	return append(diffs, structured)
}

func lowerIsBetter(amp, reg int64) string {
	switch {
	case amp < reg:
		return "positive"
	case amp > reg:
		return "negative"
	default:
		return "neutral"
	}
}

func presence(found bool) string {
	if found {
		return "present"
	}
	return "absent"
}
