// Package analyzer is the analysis engine: it drives the page fetch, runs the
// signal extractors, resolves AMP pairing, scores the page, and assembles the
// final result.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/chynybekuuludastan/seo_inspector/internal/service/fetcher"
	"github.com/chynybekuuludastan/seo_inspector/internal/service/parser"
)

// ErrInvalidURL marks input that is not an absolute http(s) URL.
var ErrInvalidURL = errors.New("invalid url")

// Stage identifies a step of the analysis pipeline, reported through the
// progress callback as the run advances.
type Stage string

const (
	StageFetching     Stage = "fetching"
	StageExtracting   Stage = "extracting"
	StageResolvingAMP Stage = "resolving_amp"
	StageScoring      Stage = "scoring"
	StageComparing    Stage = "comparing_amp"
	StageCompleted    Stage = "completed"
)

// Progress receives stage transitions. A nil Progress is allowed.
type Progress func(stage Stage)

// PageFetcher retrieves a page and its transfer facts.
type PageFetcher interface {
	FetchPage(ctx context.Context, targetURL string) (*fetcher.PageFetch, error)
}

// Probes groups the auxiliary network checks the engine issues: existence
// probes and small text fetches.
type Probes interface {
	headProber
	textFetcher
}

// Service runs complete analyses. Each Analyze call owns its document and
// fact bundles exclusively, so concurrent calls share no mutable state.
type Service struct {
	pages   PageFetcher
	probes  Probes
	timeout time.Duration
}

// NewService returns an analysis service. timeout caps the wall-clock budget
// of one full run; zero disables the cap.
func NewService(pages PageFetcher, probes Probes, timeout time.Duration) *Service {
	return &Service{
		pages:   pages,
		probes:  probes,
		timeout: timeout,
	}
}

// Analyze runs the full pipeline for rawURL. The primary fetch is the only
// fatal step; every auxiliary check degrades to an absent signal instead of
// failing the run.
func (s *Service) Analyze(ctx context.Context, rawURL string, progress Progress) (*AnalysisResult, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	report(progress, StageFetching)
	page, err := s.pages.FetchPage(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	doc, err := parser.Parse(page.HTML)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}

	fetchedURL := page.FinalURL
	if fetchedURL == "" {
		fetchedURL = rawURL
	}

	result := &AnalysisResult{
		URL:         rawURL,
		AnalyzedAt:  time.Now().UTC(),
		StatusCode:  page.StatusCode,
		Performance: page.Performance,
	}

	report(progress, StageExtracting)

	// The extractors are pure reads of the document; robots.txt and link
	// liveness are the only ones touching the network. All of them run
	// concurrently and each writes its own result field.
	var wg sync.WaitGroup
	run := func(f func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}
	run(func() { result.MetaTags = ExtractMetaTags(doc, rawURL) })
	run(func() { result.Dates = ExtractDates(doc) })
	run(func() { result.Author = ExtractAuthor(doc) })
	run(func() { result.Breadcrumbs = ExtractBreadcrumbs(doc) })
	run(func() { result.Schema = ExtractSchema(doc) })
	run(func() { result.OpenGraph = ExtractOpenGraph(doc) })
	run(func() { result.TwitterCard = ExtractTwitterCard(doc) })
	run(func() { result.Accessibility = ExtractAccessibility(doc) })
	run(func() { result.RobotsTxt = FetchRobotsTxt(ctx, s.probes, fetchedURL) })
	run(func() { result.Links = AnalyzeLinks(ctx, doc, fetchedURL, s.probes) })
	wg.Wait()

	report(progress, StageResolvingAMP)
	amp := ResolveAMP(ctx, doc, fetchedURL, s.probes)
	result.IsAMP = amp.IsAMP
	result.AmpURL = amp.AmpURL
	result.RegularURL = amp.RegularURL

	report(progress, StageScoring)
	result.Score = Score(result.MetaTags, result.Schema, result.RobotsTxt, result.Links, result.Breadcrumbs)

	if amp.AmpURL != "" && amp.RegularURL != "" && amp.AmpURL != amp.RegularURL {
		report(progress, StageComparing)
		// Comparison failures are non-fatal; the analysis ships without
		// the comparison section.
		if comparison, err := s.compareAmpPair(ctx, amp.AmpURL, amp.RegularURL); err == nil {
			result.AmpComparison = comparison
		}
	}

	report(progress, StageCompleted)
	return result, nil
}

func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	return nil
}

func report(progress Progress, stage Stage) {
	if progress != nil {
		progress(stage)
	}
}
