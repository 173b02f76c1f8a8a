package analyzer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chynybekuuludastan/seo_inspector/internal/service/fetcher"
)

// fakePages serves canned fetch outcomes keyed by URL.
type fakePages struct {
	mu      sync.Mutex
	pages   map[string]*fetcher.PageFetch
	errs    map[string]error
	fetched []string
}

func (f *fakePages) FetchPage(_ context.Context, targetURL string) (*fetcher.PageFetch, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, targetURL)
	f.mu.Unlock()

	if err, ok := f.errs[targetURL]; ok {
		return nil, err
	}
	if page, ok := f.pages[targetURL]; ok {
		return page, nil
	}
	return nil, &fetcher.FetchError{URL: targetURL, Err: errors.New("no such page")}
}

// fakeProbes records probe traffic and answers from configurable stubs.
type fakeProbes struct {
	mu        sync.Mutex
	headSeen  []string
	textSeen  []string
	headFn    func(url string) (int, error)
	robots    string
	robotsErr error
}

func (f *fakeProbes) Head(_ context.Context, targetURL string) (int, error) {
	f.mu.Lock()
	f.headSeen = append(f.headSeen, targetURL)
	f.mu.Unlock()

	if f.headFn != nil {
		return f.headFn(targetURL)
	}
	return 200, nil
}

func (f *fakeProbes) GetText(_ context.Context, targetURL string) (string, error) {
	f.mu.Lock()
	f.textSeen = append(f.textSeen, targetURL)
	f.mu.Unlock()

	if f.robotsErr != nil {
		return "", f.robotsErr
	}
	return f.robots, nil
}

func (f *fakeProbes) headCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.headSeen...)
}

func (f *fakeProbes) textURLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.textSeen...)
}

func page(html string, status int) *fetcher.PageFetch {
	return &fetcher.PageFetch{
		HTML:       html,
		StatusCode: status,
		Performance: fetcher.Performance{
			LoadTimeMs:    120,
			IsSSL:         true,
			PageSizeBytes: len(html),
		},
	}
}

var fullPageHTML = `<html lang="en"><head>
	<title>A Perfectly Sized Page Title For Search Results Here</title>
	<meta name="description" content="` + descFixture + `">
	<meta name="robots" content="index, follow">
	<link rel="canonical" href="https://site.test/article">
	<script type="application/ld+json">{"@type":"Article"}</script>
</head><body>
	<nav aria-label="breadcrumb"><a href="/">Home</a></nav>
	<a href="/other">other</a>
	<a href="https://elsewhere.test/">away</a>
</body></html>`

func TestAnalyzeFullPipeline(t *testing.T) {
	pages := &fakePages{pages: map[string]*fetcher.PageFetch{
		"https://site.test/article": page(fullPageHTML, 200),
	}}
	probes := &fakeProbes{
		robots: "User-agent: *\nDisallow: /admin",
		// Page links resolve, AMP candidate patterns do not.
		headFn: func(url string) (int, error) {
			if strings.Contains(url, "/amp") || strings.Contains(url, "amp=1") {
				return 404, nil
			}
			return 200, nil
		},
	}

	svc := NewService(pages, probes, 0)

	var stages []Stage
	result, err := svc.Analyze(context.Background(), "https://site.test/article", func(s Stage) {
		stages = append(stages, s)
	})
	require.NoError(t, err)

	assert.Equal(t, "https://site.test/article", result.URL)
	assert.Equal(t, 200, result.StatusCode)
	assert.False(t, result.AnalyzedAt.IsZero())
	assert.True(t, result.Performance.IsSSL)

	assert.True(t, result.Schema.Found)
	assert.True(t, result.Breadcrumbs.Found)
	assert.True(t, result.RobotsTxt.Found)
	assert.Equal(t, 3, result.Links.Total)
	assert.Equal(t, 2, result.Links.Internal)
	assert.Equal(t, 1, result.Links.External)
	assert.Empty(t, result.Links.Broken)

	assert.False(t, result.IsAMP)
	assert.Nil(t, result.AmpComparison)

	assert.Greater(t, result.Score.Score, 80)
	assert.Zero(t, result.Score.Issues)

	assert.Equal(t, []Stage{
		StageFetching, StageExtracting, StageResolvingAMP, StageScoring, StageCompleted,
	}, stages)
}

func TestAnalyzeRejectsInvalidURLs(t *testing.T) {
	svc := NewService(&fakePages{}, &fakeProbes{}, 0)

	for _, raw := range []string{"", "ftp://example.com", "not a url at all", "//missing-scheme.com"} {
		_, err := svc.Analyze(context.Background(), raw, nil)
		assert.ErrorIs(t, err, ErrInvalidURL, "input %q", raw)
	}
}

func TestAnalyzePrimaryFetchFailureIsFatal(t *testing.T) {
	wantErr := &fetcher.FetchError{URL: "https://down.test/", Err: errors.New("connect: refused")}
	pages := &fakePages{errs: map[string]error{"https://down.test/": wantErr}}

	svc := NewService(pages, &fakeProbes{}, 0)
	result, err := svc.Analyze(context.Background(), "https://down.test/", nil)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, wantErr)
}

func TestAnalyzeErrorStatusStillAnalyzes(t *testing.T) {
	html := `<html lang="en"><head><title>Not Found</title></head><body><h1>404</h1></body></html>`
	pages := &fakePages{pages: map[string]*fetcher.PageFetch{
		"https://site.test/missing": page(html, 404),
	}}

	svc := NewService(pages, &fakeProbes{robotsErr: errors.New("404")}, 0)
	result, err := svc.Analyze(context.Background(), "https://site.test/missing", nil)

	require.NoError(t, err)
	assert.Equal(t, 404, result.StatusCode)
	assert.Equal(t, "Not Found", result.MetaTags.Title)
}

func TestAnalyzeAuxiliaryFailuresDegrade(t *testing.T) {
	pages := &fakePages{pages: map[string]*fetcher.PageFetch{
		"https://site.test/": page(`<html><head><title>t</title></head><body><a href="/x">x</a></body></html>`, 200),
	}}
	probes := &fakeProbes{
		robotsErr: errors.New("robots unavailable"),
		headFn:    func(string) (int, error) { return 0, errors.New("probe down") },
	}

	svc := NewService(pages, probes, 0)
	result, err := svc.Analyze(context.Background(), "https://site.test/", nil)

	require.NoError(t, err)
	assert.False(t, result.RobotsTxt.Found)
	require.Len(t, result.Links.Broken, 1)
	assert.Equal(t, 0, result.Links.Broken[0].Status)
	assert.NotEmpty(t, result.Links.Broken[0].Error)
}

func TestAnalyzeAmpComparison(t *testing.T) {
	ampHTML := `<html amp lang="en"><head>
		<title>` + strings.Repeat("a", 55) + `</title>
		<meta name="description" content="` + descFixture + `">
		<link rel="canonical" href="https://site.test/article">
		<script type="application/ld+json">{"@type":"Article"}</script>
	</head><body></body></html>`
	regularHTML := `<html lang="en"><head>
		<title>` + strings.Repeat("a", 55) + `</title>
	</head><body></body></html>`

	ampPage := page(ampHTML, 200)
	ampPage.Performance.LoadTimeMs = 80
	regularPage := page(regularHTML, 200)
	regularPage.Performance.LoadTimeMs = 450

	pages := &fakePages{pages: map[string]*fetcher.PageFetch{
		"https://site.test/amp/article": ampPage,
		"https://site.test/article":     regularPage,
	}}
	probes := &fakeProbes{robotsErr: errors.New("absent")}

	svc := NewService(pages, probes, 0)
	result, err := svc.Analyze(context.Background(), "https://site.test/amp/article", nil)
	require.NoError(t, err)

	assert.True(t, result.IsAMP)
	assert.Equal(t, "https://site.test/amp/article", result.AmpURL)
	assert.Equal(t, "https://site.test/article", result.RegularURL)

	cmp := result.AmpComparison
	require.NotNil(t, cmp)
	assert.Greater(t, cmp.AmpScore, cmp.RegularScore)

	wantCategories := []string{"load_time", "page_size", "structured_data"}
	require.Len(t, cmp.Differences, len(wantCategories))
	for i, d := range cmp.Differences {
		assert.Equal(t, wantCategories[i], d.Category)
	}

	assert.Equal(t, "80 ms", cmp.Differences[0].AmpValue)
	assert.Equal(t, "450 ms", cmp.Differences[0].RegularValue)
	assert.Equal(t, "positive", cmp.Differences[0].Impact)

	assert.Equal(t, "present", cmp.Differences[2].AmpValue)
	assert.Equal(t, "absent", cmp.Differences[2].RegularValue)
	assert.Equal(t, "positive", cmp.Differences[2].Impact)

	// Both sides were re-fetched for the comparison.
	assert.Contains(t, pages.fetched, "https://site.test/article")
}

func TestAnalyzeComparisonFailureIsNonFatal(t *testing.T) {
	ampHTML := `<html amp><head>
		<title>t</title>
		<link rel="canonical" href="https://site.test/article">
	</head></html>`

	pages := &fakePages{
		pages: map[string]*fetcher.PageFetch{
			"https://site.test/amp/article": page(ampHTML, 200),
		},
		errs: map[string]error{
			"https://site.test/article": errors.New("regular side down"),
		},
	}

	svc := NewService(pages, &fakeProbes{robotsErr: errors.New("absent")}, 0)
	result, err := svc.Analyze(context.Background(), "https://site.test/amp/article", nil)

	require.NoError(t, err)
	assert.True(t, result.IsAMP)
	assert.Nil(t, result.AmpComparison)
}

var descFixture = func() string {
	base := "This description fixture is deliberately padded to sit inside the optimal range of one hundred fifty to one hundred sixty characters for scoring."
	for len(base) < 150 {
		base += "!"
	}
	return base
}()

func TestDescFixtureLength(t *testing.T) {
	if len(descFixture) < 150 || len(descFixture) > 160 {
		t.Fatalf("fixture length %d outside [150,160]", len(descFixture))
	}
	if strings.Contains(descFixture, `"`) {
		t.Fatal("fixture must be attribute-safe")
	}
}
