package content

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/umputun/repost/pkg/domain"
)

// defaultMaxImages bounds how many in-article images are returned besides the
// lead image
const defaultMaxImages = 3

// ImageFinder scrapes candidate images from an article page: the og:image
// meta tag first, then images inside the article body.
type ImageFinder struct {
	extractor *Extractor
	maxImages int
}

// NewImageFinder creates an image finder sharing the extractor's HTTP setup
func NewImageFinder(extractor *Extractor, maxImages int) *ImageFinder {
	if maxImages <= 0 {
		maxImages = defaultMaxImages
	}
	return &ImageFinder{extractor: extractor, maxImages: maxImages}
}

// Find returns the images discovered on the page, lead image first. Relative
// and protocol-relative URLs are resolved against the page URL.
func (f *ImageFinder) Find(ctx context.Context, pageURL string) ([]domain.Image, error) {
	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid URL: %s", pageURL)
	}

	body, err := f.extractor.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", pageURL, err)
	}

	images := []domain.Image{}
	seen := map[string]bool{}

	// og:image is the page's declared lead image
	if ogImage, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok {
		if resolved := resolveURL(base, ogImage); resolved != "" {
			images = append(images, domain.Image{URL: resolved, Main: true})
			seen[resolved] = true
		}
	}

	// in-article images, with their advisory dimensions when declared
	scope := doc.Find("article, main, .content, .article, .post")
	if scope.Length() == 0 {
		scope = doc.Find("body")
	}
	inline := 0
	scope.Find("img").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		src, ok := sel.Attr("src")
		if !ok || src == "" {
			src, _ = sel.Attr("data-src")
		}
		resolved := resolveURL(base, src)
		if resolved == "" || seen[resolved] {
			return true
		}
		seen[resolved] = true

		images = append(images, domain.Image{
			URL:    resolved,
			Alt:    sel.AttrOr("alt", ""),
			Title:  sel.AttrOr("title", ""),
			Width:  attrInt(sel, "width", "data-width"),
			Height: attrInt(sel, "height", "data-height"),
		})
		inline++
		return inline < f.maxImages
	})

	return images, nil
}

// resolveURL makes an image URL absolute relative to the page
func resolveURL(base *url.URL, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	return abs.String()
}

// attrInt parses the first present integer attribute, 0 when absent or junk
func attrInt(sel *goquery.Selection, names ...string) int {
	for _, name := range names {
		if val, ok := sel.Attr(name); ok {
			if n, err := strconv.Atoi(strings.TrimSuffix(val, "px")); err == nil {
				return n
			}
		}
	}
	return 0
}
