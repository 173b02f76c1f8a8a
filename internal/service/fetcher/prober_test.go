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

func TestProberHead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusGone)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	prober := NewProber(2*time.Second, 100)

	status, err := prober.Head(context.Background(), srv.URL+"/here")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)

	status, err = prober.Head(context.Background(), srv.URL+"/gone")
	require.NoError(t, err)
	assert.Equal(t, http.StatusGone, status)
}

func TestProberHeadTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	prober := NewProber(time.Second, 100)
	status, err := prober.Head(context.Background(), url)

	assert.Error(t, err)
	assert.Zero(t, status)
}

func TestProberGetText(t *testing.T) {
	const robots = "User-agent: *\nDisallow: /admin\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(robots))
	}))
	defer srv.Close()

	prober := NewProber(2*time.Second, 100)

	text, err := prober.GetText(context.Background(), srv.URL+"/robots.txt")
	require.NoError(t, err)
	assert.Equal(t, robots, text)

	_, err = prober.GetText(context.Background(), srv.URL+"/nothing")
	assert.Error(t, err)
}

func TestProberRespectsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	prober := NewProber(5*time.Second, 100)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := prober.Head(ctx, srv.URL)
	assert.Error(t, err)
}
