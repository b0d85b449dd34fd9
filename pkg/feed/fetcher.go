// Package feed fetches RSS/Atom feeds and aggregates their items into a
// single de-duplicated candidate list for the pipeline.
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/repost/pkg/domain"
)

// Fetcher retrieves and parses RSS/Atom feeds over HTTP
type Fetcher struct {
	client     *http.Client
	userAgent  string
	maxWorkers int
}

// NewFetcher creates a feed fetcher with the given timeout and user agent
func NewFetcher(timeout time.Duration, userAgent string, maxWorkers int) *Fetcher {
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	}
	if maxWorkers <= 0 {
		maxWorkers = 5
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent:  userAgent,
		maxWorkers: maxWorkers,
	}
}

// Fetch retrieves one feed and converts its items to candidates
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) ([]domain.Candidate, error) {
	body, err := f.get(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer body.Close()

	parsed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	candidates := make([]domain.Candidate, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Link == "" {
			continue
		}
		candidates = append(candidates, domain.Candidate{
			Title:       item.Title,
			URL:         item.Link,
			FeedURL:     feedURL,
			Description: item.Description,
		})
	}
	return candidates, nil
}

// FetchAll retrieves every feed concurrently with a bounded worker pool.
// Per-feed failures are recorded in the result, never fatal for the run.
func (f *Fetcher) FetchAll(ctx context.Context, feedURLs []string) []domain.FeedResult {
	results := make([]domain.FeedResult, len(feedURLs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.maxWorkers)

	for i, feedURL := range feedURLs {
		g.Go(func() error {
			candidates, err := f.Fetch(ctx, feedURL)
			if err != nil {
				lgr.Printf("[WARN] feed %s failed: %v", feedURL, err)
			}
			results[i] = domain.FeedResult{FeedURL: feedURL, Candidates: candidates, Err: err}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors, failures live in results

	return results
}

func (f *Fetcher) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}
	return resp.Body, nil
}
