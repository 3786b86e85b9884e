package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/opendata-mcp-go/internal/errors"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewClientValidatesBaseURL(t *testing.T) {
	_, err := NewClient(discard(), "not a url")
	require.Error(t, err)

	_, err = NewClient(discard(), "/relative/path")
	require.ErrorContains(t, err, "scheme and host are required")

	c, err := NewClient(discard(), "https://data.example.org/api/v2.1")
	require.NoError(t, err)
	require.Equal(t, "https://data.example.org/api/v2.1", c.BaseURL())
}

func TestClientGet(t *testing.T) {
	var gotPath, gotQuery, gotUA, gotAccept string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"total_count": 2, "results": [{"title": "a"}, {"title": "b"}]}`)
	}))
	defer srv.Close()

	c, err := NewClient(discard(), srv.URL+"/api/", WithUserAgent("odmcp-test"))
	require.NoError(t, err)

	var out struct {
		TotalCount int `json:"total_count"`
		Results    []struct {
			Title string `json:"title"`
		} `json:"results"`
	}

	query := url.Values{"limit": {"2"}, "where": {""}, "select": {"title"}}
	require.NoError(t, c.Get(context.Background(), "/catalog/datasets/x/records", query, &out))

	require.Equal(t, "/api/catalog/datasets/x/records", gotPath)
	require.Equal(t, "limit=2&select=title", gotQuery)
	require.Equal(t, "odmcp-test", gotUA)
	require.Equal(t, "application/json", gotAccept)
	require.Equal(t, 2, out.TotalCount)
	require.Len(t, out.Results, 2)
}

func TestClientGetNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "dataset unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := NewClient(discard(), srv.URL)
	require.NoError(t, err)

	err = c.Get(context.Background(), "records", nil, &struct{}{})

	var upstream *errors.UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, http.StatusServiceUnavailable, upstream.StatusCode)
	require.Equal(t, "dataset unavailable", upstream.Body)
	require.Contains(t, upstream.URL, "/records")
}

func TestClientGetMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"total_count": `)
	}))
	defer srv.Close()

	c, err := NewClient(discard(), srv.URL)
	require.NoError(t, err)

	err = c.Get(context.Background(), "records", nil, &struct{}{})

	var upstream *errors.UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, http.StatusOK, upstream.StatusCode)
	require.ErrorContains(t, err, "malformed payload")
}

func TestClientGetTimeout(t *testing.T) {
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := NewClient(discard(), srv.URL, WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	err = c.Get(context.Background(), "slow", nil, &struct{}{})

	var upstream *errors.UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Zero(t, upstream.StatusCode)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClientGetConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewClient(discard(), base, WithHTTPClient(&http.Client{Timeout: time.Second}))
	require.NoError(t, err)

	err = c.Get(context.Background(), "x", nil, &struct{}{})

	var upstream *errors.UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Zero(t, upstream.StatusCode)
}
