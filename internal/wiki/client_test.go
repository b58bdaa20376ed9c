package wiki

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"potbs/internal"
	"potbs/internal/config"
	"potbs/internal/storage"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(t *testing.T, transport http.RoundTripper) (*Client, *storage.DB) {
	t.Helper()

	dir := t.TempDir()
	db, err := storage.Open(filepath.Join(dir, "app.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg, _ := config.Load()
	cfg.RawPageDir = filepath.Join(dir, "raw")
	cfg.FetchDelayMs = 1
	cfg.FetchUserAgent = "test-agent"

	client := NewClient(cfg, db)
	client.httpClient = &http.Client{Transport: transport}
	return client, db
}

func TestPageFetchesAndCaches(t *testing.T) {
	hits := 0
	client, db := newTestClient(t, roundTripFunc(func(r *http.Request) (*http.Response, error) {
		hits++
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Fatalf("user agent %q", got)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("<html><body>Iron Mine</body></html>")),
			Header:     make(http.Header),
		}, nil
	}))

	url := "https://example.test/wiki/Iron_Mine"
	blob, cached, err := client.Page(context.Background(), url, internal.PageStructure, "Iron Mine", false)
	if err != nil {
		t.Fatal(err)
	}
	if cached {
		t.Fatalf("first fetch reported cached")
	}
	if !strings.Contains(string(blob), "Iron Mine") {
		t.Fatalf("unexpected body %q", blob)
	}

	row, err := db.GetPageByURL(url)
	if err != nil || row == nil {
		t.Fatalf("page row missing: %v", err)
	}
	if row.Status != "fetched" || row.Hash == "" || row.RawRef == "" {
		t.Fatalf("unexpected row: %+v", row)
	}

	if _, cached, err = client.Page(context.Background(), url, internal.PageStructure, "Iron Mine", false); err != nil {
		t.Fatal(err)
	}
	if !cached {
		t.Fatalf("second fetch did not hit cache")
	}
	if hits != 1 {
		t.Fatalf("transport hit %d times", hits)
	}

	if _, cached, err = client.Page(context.Background(), url, internal.PageStructure, "Iron Mine", true); err != nil {
		t.Fatal(err)
	}
	if cached || hits != 2 {
		t.Fatalf("refresh did not refetch: cached=%v hits=%d", cached, hits)
	}
}

func TestPageRetriesRetryableStatus(t *testing.T) {
	attempt := 0
	client, _ := newTestClient(t, roundTripFunc(func(r *http.Request) (*http.Response, error) {
		attempt++
		if attempt == 1 {
			return &http.Response{
				StatusCode: http.StatusServiceUnavailable,
				Body:       io.NopCloser(strings.NewReader("busy")),
				Header:     make(http.Header),
			}, nil
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("<html>ok</html>")),
			Header:     make(http.Header),
		}, nil
	}))

	_, _, err := client.Page(context.Background(), "https://example.test/wiki/Smelter", internal.PageStructure, "Smelter", false)
	if err != nil {
		t.Fatal(err)
	}
	if attempt != 2 {
		t.Fatalf("attempts=%d", attempt)
	}
}

func TestPageRecordsFailure(t *testing.T) {
	client, db := newTestClient(t, roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader("gone")),
			Header:     make(http.Header),
		}, nil
	}))

	url := "https://example.test/wiki/Missing"
	if _, _, err := client.Page(context.Background(), url, internal.PageRecipe, "Missing", false); err == nil {
		t.Fatalf("expected error")
	}

	row, err := db.GetPageByURL(url)
	if err != nil || row == nil {
		t.Fatalf("failed row missing: %v", err)
	}
	if row.Status != "failed" || row.LastError == "" {
		t.Fatalf("unexpected row: %+v", row)
	}
}

func TestDocumentParses(t *testing.T) {
	client, _ := newTestClient(t, roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`<html><body><h1 id="title">Iron Mine</h1></body></html>`)),
			Header:     make(http.Header),
		}, nil
	}))

	doc, _, err := client.Document(context.Background(), "https://example.test/wiki/Iron_Mine", internal.PageStructure, "Iron Mine", false)
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Find("#title").Text(); got != "Iron Mine" {
		t.Fatalf("got %q", got)
	}
}
