package feed

import (
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/repost/pkg/domain"
)

// ProcessedIndex answers whether a candidate URL already reached a terminal
// outcome in a previous run
type ProcessedIndex interface {
	Contains(url string) bool
}

// Aggregator merges per-feed candidate lists into one list with exact-URL
// de-duplication, dropping already processed and blacklisted URLs. Pure
// transformation, no network I/O.
type Aggregator struct {
	Processed ProcessedIndex
	Blacklist []string // substring match against known bad URLs
}

// Aggregate flattens feed results preserving feed order; the first occurrence
// of a URL wins. Failed feeds contribute nothing.
func (a *Aggregator) Aggregate(results []domain.FeedResult) []domain.Candidate {
	seen := map[string]bool{}
	merged := []domain.Candidate{}

	for _, res := range results {
		if res.Err != nil {
			continue
		}
		for _, cand := range res.Candidates {
			if seen[cand.URL] {
				continue
			}
			seen[cand.URL] = true

			if a.Processed != nil && a.Processed.Contains(cand.URL) {
				continue
			}
			if a.blacklisted(cand.URL) {
				lgr.Printf("[DEBUG] blacklisted url dropped: %s", cand.URL)
				continue
			}
			merged = append(merged, cand)
		}
	}
	return merged
}

func (a *Aggregator) blacklisted(url string) bool {
	for _, bad := range a.Blacklist {
		if bad != "" && strings.Contains(url, bad) {
			return true
		}
	}
	return false
}
