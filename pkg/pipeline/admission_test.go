package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/repost/pkg/domain"
)

func TestAdmission_KeywordRelevance(t *testing.T) {
	adm := &Admission{Keywords: []string{"workout", "fitness", "hiit"}}
	now := time.Now()

	candidates := []domain.Candidate{
		{Title: "Morning HIIT Workout", URL: "https://a.com/1", FeedURL: "https://a.com/rss"},
		{Title: "Stock Market Update", URL: "https://b.com/2", FeedURL: "https://b.com/rss"},
		{Title: "Fitness tips", Description: "a quick workout", URL: "https://c.com/3", FeedURL: "https://c.com/rss"},
	}

	admitted := adm.Admit(candidates, nil, now)
	require.Len(t, admitted, 2)
	assert.Equal(t, "https://a.com/1", admitted[0].URL)
	assert.ElementsMatch(t, []string{"workout", "hiit"}, admitted[0].Keywords)
	assert.Equal(t, "https://c.com/3", admitted[1].URL)
	assert.ElementsMatch(t, []string{"workout", "fitness"}, admitted[1].Keywords)
}

func TestAdmission_MinMatches(t *testing.T) {
	adm := &Admission{Keywords: []string{"workout", "hiit"}, MinMatches: 2}
	candidates := []domain.Candidate{
		{Title: "Morning HIIT Workout", URL: "https://a.com/1"},
		{Title: "Just a workout", URL: "https://a.com/2"},
	}
	admitted := adm.Admit(candidates, nil, time.Now())
	require.Len(t, admitted, 1)
	assert.Equal(t, "https://a.com/1", admitted[0].URL)
}

func TestAdmission_MinMatchesPerSource(t *testing.T) {
	// the noisy feed needs two keyword hits, everyone else passes with one
	adm := &Admission{
		Keywords:     []string{"workout", "hiit"},
		MinMatches:   1,
		PerSourceMin: map[string]int{"https://noisy.com/rss": 2},
	}
	candidates := []domain.Candidate{
		{Title: "Just a workout", URL: "https://noisy.com/1", FeedURL: "https://noisy.com/rss"},
		{Title: "HIIT workout plan", URL: "https://noisy.com/2", FeedURL: "https://noisy.com/rss"},
		{Title: "Just a workout", URL: "https://quiet.com/1", FeedURL: "https://quiet.com/rss"},
	}
	admitted := adm.Admit(candidates, nil, time.Now())
	require.Len(t, admitted, 2)
	assert.Equal(t, "https://noisy.com/2", admitted[0].URL)
	assert.Equal(t, "https://quiet.com/1", admitted[1].URL)
}

func TestAdmission_RotationExcludesRecentSources(t *testing.T) {
	now := time.Now()
	adm := &Admission{Keywords: []string{"workout"}, RotationWindow: 4}

	// last four blog publications used feeds a, b, c, d; feed e is older
	history := []domain.LogRecord{
		{Timestamp: now.Add(-5 * time.Hour), FeedURL: "https://e.com/rss", SourceURL: "https://e.com/p", Blog: true},
		{Timestamp: now.Add(-4 * time.Hour), FeedURL: "https://a.com/rss", SourceURL: "https://a.com/p", Blog: true},
		{Timestamp: now.Add(-3 * time.Hour), FeedURL: "https://b.com/rss", SourceURL: "https://b.com/p", Blog: true},
		{Timestamp: now.Add(-2 * time.Hour), FeedURL: "https://c.com/rss", SourceURL: "https://c.com/p", Blog: true},
		{Timestamp: now.Add(-1 * time.Hour), FeedURL: "https://d.com/rss", SourceURL: "https://d.com/p", Blog: true},
	}

	candidates := []domain.Candidate{
		{Title: "workout 1", URL: "https://a.com/new", FeedURL: "https://a.com/rss"},
		{Title: "workout 2", URL: "https://e.com/new", FeedURL: "https://e.com/rss"},
	}

	admitted := adm.Admit(candidates, history, now)
	require.Len(t, admitted, 1, "only the feed outside the rotation window passes")
	assert.Equal(t, "https://e.com/new", admitted[0].URL)
}

func TestAdmission_RotationIgnoresNonBlogRecords(t *testing.T) {
	now := time.Now()
	adm := &Admission{Keywords: []string{"workout"}, RotationWindow: 2}

	history := []domain.LogRecord{
		{Timestamp: now.Add(-3 * time.Hour), FeedURL: "https://a.com/rss", SourceURL: "https://a.com/p", Blog: true},
		{Timestamp: now.Add(-2 * time.Hour), FeedURL: "https://b.com/rss", SourceURL: "https://b.com/p", Blog: false}, // channel-only
		{Timestamp: now.Add(-1 * time.Hour), FeedURL: "https://c.com/rss", SourceURL: "https://c.com/p", Blog: true},
	}

	candidates := []domain.Candidate{
		{Title: "workout", URL: "https://b.com/new", FeedURL: "https://b.com/rss"},
	}
	admitted := adm.Admit(candidates, history, now)
	assert.Len(t, admitted, 1, "channel-only records don't occupy the rotation window")
}

func TestAdmission_RotationMatchesDomainAcrossFeeds(t *testing.T) {
	now := time.Now()
	adm := &Admission{Keywords: []string{"workout"}, RotationWindow: 4}

	history := []domain.LogRecord{
		{Timestamp: now.Add(-time.Hour), FeedURL: "https://a.com/feed-one", SourceURL: "https://www.a.com/post", Blog: true},
	}
	candidates := []domain.Candidate{
		{Title: "workout", URL: "https://a.com/other-post", FeedURL: "https://a.com/feed-two"},
	}
	admitted := adm.Admit(candidates, history, now)
	assert.Empty(t, admitted, "same domain via a different feed is still in rotation")
}

func TestAdmission_RateLimit(t *testing.T) {
	now := time.Now()
	adm := &Admission{
		Keywords:       []string{"workout"},
		RotationWindow: 1,
		RateRules:      []RateRule{{Domain: "busy.com", MinInterval: 6 * time.Hour}},
	}

	history := []domain.LogRecord{
		{Timestamp: now.Add(-2 * time.Hour), FeedURL: "https://busy.com/rss", SourceURL: "https://busy.com/p1", Blog: true},
		{Timestamp: now.Add(-1 * time.Hour), FeedURL: "https://other.com/rss", SourceURL: "https://other.com/p", Blog: true},
	}

	t.Run("within interval rejected", func(t *testing.T) {
		candidates := []domain.Candidate{{Title: "workout", URL: "https://busy.com/p2", FeedURL: "https://busy.com/rss"}}
		assert.Empty(t, adm.Admit(candidates, history, now))
	})

	t.Run("after interval admitted", func(t *testing.T) {
		candidates := []domain.Candidate{{Title: "workout", URL: "https://busy.com/p2", FeedURL: "https://busy.com/rss"}}
		assert.Len(t, adm.Admit(candidates, history, now.Add(7*time.Hour)), 1)
	})

	t.Run("unlisted domain unaffected", func(t *testing.T) {
		candidates := []domain.Candidate{{Title: "workout", URL: "https://free.com/p", FeedURL: "https://free.com/rss"}}
		assert.Len(t, adm.Admit(candidates, history, now), 1)
	})
}

func TestMatchKeywords(t *testing.T) {
	matched := MatchKeywords("Intense TABATA session for beginners", []string{"tabata", "hiit", "beginners"})
	assert.Equal(t, []string{"tabata", "beginners"}, matched)
	assert.Empty(t, MatchKeywords("nothing relevant", []string{"tabata"}))
}
