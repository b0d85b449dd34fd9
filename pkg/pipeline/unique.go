package pipeline

import (
	"fmt"

	"github.com/umputun/repost/pkg/domain"
)

// defaultTitleThreshold is the token-overlap ratio above which two titles are
// considered the same article reworded. Tuned empirically, configurable.
const defaultTitleThreshold = 0.6

// Guard performs the uniqueness checks a candidate's final text must pass
// before anything is persisted. Pure function over in-memory library state.
type Guard struct {
	TitleThreshold float64 // near-duplicate title similarity cutoff, default 0.6
}

// Check runs the four uniqueness tests against the content library and
// returns ok with the first failing reason. Two posts with the same text
// hash, near-duplicate titles, an overlapping image set or the same source
// URL must never both reach published state.
func (g *Guard) Check(text string, images []domain.Image, title, sourceURL string, entries []domain.LibraryEntry) (ok bool, reason string) {
	threshold := g.TitleThreshold
	if threshold <= 0 {
		threshold = defaultTitleThreshold
	}

	textHash := HashText(text)
	titleNorm := NormalizeText(title)
	srcNorm := NormalizeURL(sourceURL)

	imageSet := map[string]struct{}{}
	for _, img := range images {
		if norm := NormalizeImageURL(img.URL); norm != "" {
			imageSet[norm] = struct{}{}
		}
	}

	// checks run in order of strictness, each against the whole library, so
	// the reported reason is stable regardless of entry order
	for _, e := range entries {
		if e.TextHash == textHash {
			return false, "duplicate text hash"
		}
	}
	for _, e := range entries {
		if sim := TitleSimilarity(titleNorm, e.TitleNorm); sim >= threshold {
			return false, fmt.Sprintf("similar title (%.2f): %q", sim, e.TitleNorm)
		}
	}
	for _, e := range entries {
		for _, u := range e.ImageURLs {
			if _, found := imageSet[NormalizeImageURL(u)]; found {
				return false, fmt.Sprintf("duplicate image: %s", u)
			}
		}
	}
	for _, e := range entries {
		if srcNorm != "" && NormalizeURL(e.SourceURL) == srcNorm {
			return false, "duplicate source url"
		}
	}
	return true, ""
}
