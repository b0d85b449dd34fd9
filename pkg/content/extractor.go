// Package content fetches article pages and extracts their readable text and
// images for the pipeline.
package content

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/markusmobius/go-trafilatura"
)

// defaultMaxChars caps extracted article text, long pages are truncated
const defaultMaxChars = 5000

// Extractor pulls readable article text from URLs using trafilatura
type Extractor struct {
	client    *http.Client
	userAgent string
	maxChars  int
}

// NewExtractor creates a content extractor with the given timeout
func NewExtractor(timeout time.Duration, userAgent string, maxChars int) *Extractor {
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	}
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}
	return &Extractor{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		maxChars:  maxChars,
	}
}

// Extract retrieves the page and returns its main text content, truncated to
// the configured cap
func (e *Extractor) Extract(ctx context.Context, urlStr string) (string, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return "", fmt.Errorf("invalid URL: %s", urlStr)
	}

	body, err := e.fetch(ctx, urlStr)
	if err != nil {
		return "", err
	}

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		Deduplicate:     true,
		OriginalURL:     parsedURL,
	}
	result, err := trafilatura.Extract(bytes.NewReader(body), opts)
	if err != nil {
		return "", fmt.Errorf("extract content from %s: %w", urlStr, err)
	}
	if result == nil || result.ContentText == "" {
		return "", fmt.Errorf("no text content extracted from %s", urlStr)
	}

	text := strings.TrimSpace(result.ContentText)
	if len(text) > e.maxChars {
		text = text[:e.maxChars]
	}
	return text, nil
}

// fetch retrieves the raw page body with browser-like headers
func (e *Extractor) fetch(ctx context.Context, urlStr string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL %s: %w", urlStr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d for URL %s", resp.StatusCode, urlStr)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", urlStr, err)
	}
	return body, nil
}
