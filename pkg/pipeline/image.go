package pipeline

import (
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/repost/pkg/domain"
)

// defaultBannedPatterns mark branding and advertisement images that never
// illustrate article content
var defaultBannedPatterns = []string{
	"logo", "banner", "promo", "advert", "sponsor", "avatar", "icon",
	"badge", "button", "pixel", "widget", "placeholder",
}

// ImageSelector picks a guaranteed-unused image for a post. Returning nil is a
// hard failure for the calling candidate: better to skip it than to publish a
// visually duplicated post.
type ImageSelector struct {
	MinWidth       int      // images with known smaller width are rejected, default 200
	MinHeight      int      // same for height, default 200
	BannedPatterns []string // URL/alt substrings marking branding or ads
}

// Pick filters the candidate's images against the used-image index and returns
// the best scoring unused one, or nil when none remain. The index holds
// normalized URLs (see NormalizeImageURL).
func (s *ImageSelector) Pick(images []domain.Image, used map[string]struct{}, title, text string) *domain.Image {
	minWidth, minHeight := s.MinWidth, s.MinHeight
	if minWidth <= 0 {
		minWidth = 200
	}
	if minHeight <= 0 {
		minHeight = 200
	}
	banned := s.BannedPatterns
	if len(banned) == 0 {
		banned = defaultBannedPatterns
	}

	articleTokens := tokenSet(title + " " + text)

	var best *domain.Image
	bestScore := -1.0
	for i := range images {
		img := images[i]
		norm := NormalizeImageURL(img.URL)
		if norm == "" {
			continue
		}
		if _, taken := used[norm]; taken {
			lgr.Printf("[DEBUG] image already used: %s", norm)
			continue
		}
		if s.branded(img, banned) {
			lgr.Printf("[DEBUG] branding/ad image rejected: %s", img.URL)
			continue
		}
		// dimensions are advisory, reject only when both are known and small
		if img.Width > 0 && img.Height > 0 && (img.Width < minWidth || img.Height < minHeight) {
			continue
		}

		score := s.relevance(img, articleTokens)
		if score > bestScore {
			best, bestScore = &images[i], score
		}
	}
	return best
}

// branded reports whether the image URL or alt text matches a banned pattern
func (s *ImageSelector) branded(img domain.Image, banned []string) bool {
	haystack := strings.ToLower(img.URL + " " + img.Alt + " " + img.Title)
	for _, pattern := range banned {
		if pattern != "" && strings.Contains(haystack, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// relevance scores an image by alt/title token overlap with the article, with
// a bonus for the declared lead image
func (s *ImageSelector) relevance(img domain.Image, articleTokens map[string]struct{}) float64 {
	score := 0.0
	if img.Main {
		score += 2
	}
	for tok := range tokenSet(img.Alt + " " + img.Title) {
		if _, ok := articleTokens[tok]; ok {
			score++
		}
	}
	return score
}

// BuildImageIndex rebuilds the used-image index from the post corpus: every
// normalized image URL present in any previously published post. Derived
// state, recomputed each run, never persisted separately.
func BuildImageIndex(posts []domain.Post) map[string]struct{} {
	idx := map[string]struct{}{}
	for _, post := range posts {
		if norm := NormalizeImageURL(post.MainImage); norm != "" {
			idx[norm] = struct{}{}
		}
		for _, u := range post.Images {
			if norm := NormalizeImageURL(u); norm != "" {
				idx[norm] = struct{}{}
			}
		}
	}
	return idx
}
