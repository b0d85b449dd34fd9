package feed

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/repost/pkg/domain"
)

type processedStub map[string]bool

func (p processedStub) Contains(url string) bool { return p[url] }

func TestAggregator_Aggregate(t *testing.T) {
	results := []domain.FeedResult{
		{FeedURL: "https://a.com/rss", Candidates: []domain.Candidate{
			{Title: "one", URL: "https://a.com/1", FeedURL: "https://a.com/rss"},
			{Title: "two", URL: "https://a.com/2", FeedURL: "https://a.com/rss"},
		}},
		{FeedURL: "https://b.com/rss", Err: errors.New("timeout"), Candidates: []domain.Candidate{
			{Title: "ghost", URL: "https://b.com/1"},
		}},
		{FeedURL: "https://c.com/rss", Candidates: []domain.Candidate{
			{Title: "one again", URL: "https://a.com/1", FeedURL: "https://c.com/rss"}, // cross-feed duplicate
			{Title: "three", URL: "https://c.com/3", FeedURL: "https://c.com/rss"},
		}},
	}

	agg := &Aggregator{}
	merged := agg.Aggregate(results)

	require.Len(t, merged, 3)
	assert.Equal(t, "https://a.com/1", merged[0].URL)
	assert.Equal(t, "https://a.com/rss", merged[0].FeedURL, "first occurrence wins")
	assert.Equal(t, "https://a.com/2", merged[1].URL)
	assert.Equal(t, "https://c.com/3", merged[2].URL)
}

func TestAggregator_Aggregate_ProcessedAndBlacklist(t *testing.T) {
	results := []domain.FeedResult{
		{FeedURL: "https://a.com/rss", Candidates: []domain.Candidate{
			{Title: "seen before", URL: "https://a.com/old"},
			{Title: "spammy", URL: "https://a.com/sponsored/deal"},
			{Title: "fresh", URL: "https://a.com/new"},
		}},
	}

	agg := &Aggregator{
		Processed: processedStub{"https://a.com/old": true},
		Blacklist: []string{"/sponsored/"},
	}
	merged := agg.Aggregate(results)

	require.Len(t, merged, 1)
	assert.Equal(t, "https://a.com/new", merged[0].URL)
}

func TestAggregator_Aggregate_Empty(t *testing.T) {
	agg := &Aggregator{}
	assert.Empty(t, agg.Aggregate(nil))
	assert.Empty(t, agg.Aggregate([]domain.FeedResult{{FeedURL: "https://a.com/rss"}}))
}
