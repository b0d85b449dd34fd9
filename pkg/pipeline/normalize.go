package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// fingerprint normalization used by the uniqueness guard and the image
// selector. All functions are idempotent: applying them twice yields the same
// result as applying them once.

var (
	// size suffixes embedded in image filenames, e.g. photo-600x400.jpg
	sizeSuffixRe = regexp.MustCompile(`[-_]\d{2,5}x\d{2,5}$`)
	// trailing numeric (timestamp-like) suffixes, e.g. hero-1634567890.jpg
	timestampSuffixRe = regexp.MustCompile(`[-_]\d{8,}$`)
)

// NormalizeText lowercases text and collapses all whitespace runs to single
// spaces, so that formatting differences don't change the content hash.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// HashText returns the hex sha256 of the normalized text. Used as the exact
// content fingerprint; fast, not cryptographically meaningful here.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(NormalizeText(text)))
	return hex.EncodeToString(sum[:])
}

// NormalizeURL reduces a URL to scheme://host/path, dropping query string and
// fragment. Invalid URLs are returned trimmed but otherwise untouched.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Scheme + "://" + strings.ToLower(u.Host) + u.Path
}

// NormalizeImageURL canonicalizes an image URL for anti-repeat matching:
// query string and fragment are dropped, and size or timestamp suffixes baked
// into the filename are stripped, so photo-600x400.jpg and photo.jpg compare
// equal.
func NormalizeImageURL(raw string) string {
	norm := NormalizeURL(raw)
	if norm == "" {
		return ""
	}
	u, err := url.Parse(norm)
	if err != nil || u.Host == "" {
		return norm
	}

	dir, file := path.Split(u.Path)
	ext := path.Ext(file)
	base := strings.TrimSuffix(file, ext)
	// suffixes can stack (photo-600x400-1634567890.jpg), strip until stable
	for {
		next := sizeSuffixRe.ReplaceAllString(base, "")
		next = timestampSuffixRe.ReplaceAllString(next, "")
		if next == base {
			break
		}
		base = next
	}
	u.Path = dir + base + ext

	return u.Scheme + "://" + strings.ToLower(u.Host) + u.Path
}

// Domain extracts the lowercased host from a URL, with the common www prefix
// stripped so that rotation and rate-limit comparisons treat www.a.com and
// a.com as the same source.
func Domain(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}

// tokenSet splits normalized text into a set of unique tokens
func tokenSet(text string) map[string]struct{} {
	res := map[string]struct{}{}
	for _, tok := range strings.Fields(NormalizeText(text)) {
		res[tok] = struct{}{}
	}
	return res
}

// TitleSimilarity returns the token-overlap (Jaccard) ratio between two
// titles, 0 for no shared tokens, 1 for identical token sets.
func TitleSimilarity(a, b string) float64 {
	setA, setB := tokenSet(a), tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	common := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			common++
		}
	}
	union := len(setA) + len(setB) - common
	return float64(common) / float64(union)
}
