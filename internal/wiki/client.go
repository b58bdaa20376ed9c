package wiki

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/PuerkitoBio/goquery"

	"potbs/internal"
	"potbs/internal/config"
	"potbs/internal/storage"
)

type Client struct {
	cfg        config.Config
	db         *storage.DB
	httpClient *http.Client
	limiter    *RateLimiter
}

func NewClient(cfg config.Config, db *storage.DB) *Client {
	return &Client{
		cfg:        cfg,
		db:         db,
		httpClient: &http.Client{Timeout: time.Duration(cfg.FetchTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(time.Duration(cfg.FetchDelayMs) * time.Millisecond),
	}
}

// Page returns the HTML body for pageURL. Previously fetched pages are served
// from the raw store unless refresh is set; failures are recorded on the page
// row so partial runs stay visible.
func (c *Client) Page(ctx context.Context, pageURL string, kind internal.PageKind, title string, refresh bool) ([]byte, bool, error) {
	if !refresh {
		if row, err := c.db.GetPageByURL(pageURL); err == nil && row != nil && row.Status == "fetched" {
			if blob, readErr := os.ReadFile(row.RawRef); readErr == nil {
				return blob, true, nil
			}
		}
	}

	blob, err := c.fetch(ctx, pageURL)
	if err != nil {
		_, _ = c.db.UpsertPage(pageURL, string(kind), title, "", "", "failed", err.Error())
		return nil, false, err
	}

	rawPath, hash, err := c.storeRaw(blob)
	if err != nil {
		return nil, false, err
	}
	if _, err := c.db.UpsertPage(pageURL, string(kind), title, hash, rawPath, "fetched", ""); err != nil {
		return nil, false, err
	}
	return blob, false, nil
}

// Document is Page plus parsing.
func (c *Client) Document(ctx context.Context, pageURL string, kind internal.PageKind, title string, refresh bool) (*goquery.Document, bool, error) {
	blob, cached, err := c.Page(ctx, pageURL, kind, title, refresh)
	if err != nil {
		return nil, false, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(blob))
	if err != nil {
		return nil, cached, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, cached, nil
}

func (c *Client) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		c.limiter.WaitTurn()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.cfg.FetchUserAgent)
		req.Header.Set("Accept", "text/html")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < 5 {
				backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
				time.Sleep(backoff)
				lastErr = fmt.Errorf("wiki status %d", resp.StatusCode)
				continue
			}
			return nil, fmt.Errorf("wiki fetch error: status=%d url=%s", resp.StatusCode, pageURL)
		}

		return body, nil
	}

	if lastErr == nil {
		lastErr = errors.New("wiki request failed")
	}
	return nil, lastErr
}

func (c *Client) storeRaw(blob []byte) (string, string, error) {
	hashBytes := sha256.Sum256(blob)
	hash := hex.EncodeToString(hashBytes[:])

	if err := os.MkdirAll(c.cfg.RawPageDir, 0o755); err != nil {
		return "", "", err
	}

	rawPath := filepath.Join(c.cfg.RawPageDir, hash+".html")
	if _, err := os.Stat(rawPath); os.IsNotExist(err) {
		if err := os.WriteFile(rawPath, blob, 0o644); err != nil {
			return "", "", err
		}
	}
	return rawPath, hash, nil
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
