package pipeline

import (
	"sort"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/repost/pkg/domain"
)

// defaultBalanceWindow is the rolling window of publication history the
// topic-balance statistics are computed over
const defaultBalanceWindow = 7 * 24 * time.Hour

// Category is a target tag category with its desired share of publications
type Category struct {
	Name     string   `yaml:"name" json:"name" jsonschema:"description=Category tag name"`
	Share    float64  `yaml:"share" json:"share" jsonschema:"description=Target share of publications,minimum=0,maximum=1"`
	Keywords []string `yaml:"keywords" json:"keywords" jsonschema:"description=Keywords that map content to this category"`
}

// TagClassifier infers per-category scores for a piece of text. Pluggable so
// the keyword heuristic can be swapped for a model-based classifier without
// touching the pipeline.
type TagClassifier interface {
	Classify(text string) map[string]float64
}

// KeywordClassifier scores text by counting category keyword hits
type KeywordClassifier struct {
	Categories []Category
}

// Classify returns the keyword-hit count per category name
func (k *KeywordClassifier) Classify(text string) map[string]float64 {
	scores := map[string]float64{}
	for _, cat := range k.Categories {
		if n := len(MatchKeywords(text, cat.Keywords)); n > 0 {
			scores[cat.Name] = float64(n)
		}
	}
	return scores
}

// Balancer reorders admitted candidates so the category furthest under its
// target share is attempted first. It never removes candidates; the full list
// stays available as fallback.
type Balancer struct {
	Categories []Category
	Classifier TagClassifier
	Window     time.Duration // history window, default 7 days
}

// Reorder moves the preferred candidate to the head of the list, keeping the
// rest in input order. With no preference the input order is returned as is.
func (b *Balancer) Reorder(candidates []domain.Candidate, history []domain.LogRecord, now time.Time) []domain.Candidate {
	idx := b.preferredIndex(candidates, history, now)
	if idx <= 0 {
		return candidates
	}
	res := make([]domain.Candidate, 0, len(candidates))
	res = append(res, candidates[idx])
	res = append(res, candidates[:idx]...)
	res = append(res, candidates[idx+1:]...)
	return res
}

// preferredIndex returns the index of the preferred candidate, or -1 when no
// candidate matches any deficient category
func (b *Balancer) preferredIndex(candidates []domain.Candidate, history []domain.LogRecord, now time.Time) int {
	if len(candidates) == 0 || len(b.Categories) == 0 {
		return -1
	}

	actual := b.actualShares(history, now)
	deficits := make([]struct {
		name    string
		deficit float64
	}, 0, len(b.Categories))
	for _, cat := range b.Categories {
		deficits = append(deficits, struct {
			name    string
			deficit float64
		}{cat.Name, cat.Share - actual[cat.Name]})
	}
	// most deficient first; stable keeps configured order on ties
	sort.SliceStable(deficits, func(i, j int) bool { return deficits[i].deficit > deficits[j].deficit })

	classifier := b.Classifier
	if classifier == nil {
		classifier = &KeywordClassifier{Categories: b.Categories}
	}

	for _, d := range deficits {
		if d.deficit <= 0 {
			break
		}
		for i, cand := range candidates {
			scores := classifier.Classify(cand.Title + " " + cand.Description)
			if topCategory(scores) == d.name {
				lgr.Printf("[DEBUG] topic balance prefers %q (category %s, deficit %.0f%%)",
					cand.Title, d.name, d.deficit*100)
				return i
			}
		}
	}
	return -1
}

// actualShares computes the published share per category over the window
func (b *Balancer) actualShares(history []domain.LogRecord, now time.Time) map[string]float64 {
	window := b.Window
	if window <= 0 {
		window = defaultBalanceWindow
	}
	cutoff := now.Add(-window)

	counts := map[string]int{}
	total := 0
	for _, rec := range history {
		if rec.Timestamp.Before(cutoff) || !rec.Blog {
			continue
		}
		for _, tag := range rec.Tags {
			counts[tag]++
		}
		total++
	}

	shares := map[string]float64{}
	if total == 0 {
		return shares
	}
	for tag, n := range counts {
		shares[tag] = float64(n) / float64(total)
	}
	return shares
}

// topCategory returns the highest scoring category, empty when no score
func topCategory(scores map[string]float64) string {
	best, bestScore := "", 0.0
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names) // deterministic tie-break
	for _, name := range names {
		if scores[name] > bestScore {
			best, bestScore = name, scores[name]
		}
	}
	return best
}
