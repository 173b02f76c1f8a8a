package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchPageSuccess(t *testing.T) {
	const body = `<html><head><title>ok</title></head><body>hello</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	client := NewClient(5 * time.Second)
	page, err := client.FetchPage(context.Background(), srv.URL+"/")
	require.NoError(t, err)

	assert.Equal(t, body, page.HTML)
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Equal(t, len(body), page.Performance.PageSizeBytes)
	assert.GreaterOrEqual(t, page.Performance.LoadTimeMs, int64(0))
	assert.GreaterOrEqual(t, page.Performance.ResponseTimeMs, int64(0))
	assert.False(t, page.Performance.IsSSL)
	assert.Equal(t, 0, page.Performance.RedirectCount)
}

func TestFetchPageKeepsErrorStatusBody(t *testing.T) {
	const body = `<html><head><title>Not Found</title></head></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(body))
	}))
	defer srv.Close()

	client := NewClient(5 * time.Second)
	page, err := client.FetchPage(context.Background(), srv.URL+"/missing")
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, page.StatusCode)
	assert.Equal(t, body, page.HTML)
}

func TestFetchPageFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>moved</body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(5 * time.Second)
	page, err := client.FetchPage(context.Background(), srv.URL+"/old")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Equal(t, srv.URL+"/new", page.FinalURL)
	assert.Equal(t, 1, page.Performance.RedirectCount)
}

func TestFetchPageRedirectLoopFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(5 * time.Second)
	_, err := client.FetchPage(context.Background(), srv.URL+"/loop")

	require.Error(t, err)
	var fetchErr *FetchError
	assert.ErrorAs(t, err, &fetchErr)
}

func TestFetchPageTransportFailure(t *testing.T) {
	client := NewClient(2 * time.Second)

	// Closed server: connection refused surfaces as a FetchError.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := client.FetchPage(context.Background(), url)
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, url, fetchErr.URL)
}

func TestFetchPageCancellationAbortsRequest(t *testing.T) {
	handlerDone := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Stall until the client goes away; a cancelled fetch must drop
		// the connection rather than wait out the collector timeout.
		select {
		case <-r.Context().Done():
		case <-time.After(10 * time.Second):
		}
		close(handlerDone)
	}))
	defer srv.Close()

	client := NewClient(30 * time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.FetchPage(ctx, srv.URL)

	require.Error(t, err)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Less(t, time.Since(start), 2*time.Second)

	select {
	case <-handlerDone:
	case <-time.After(2 * time.Second):
		t.Fatal("server handler still blocked; the in-flight request was not aborted")
	}
}

func TestFetchPageSendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	client := NewClient(5 * time.Second)
	_, err := client.FetchPage(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, DefaultUserAgent, gotUA)
}
