// Package blog implements the static blog sink: per-post HTML pages and the
// local image mirror. Both are best effort, the corpus write in the store is
// the source of truth and pages are regenerable from it.
package blog

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/repost/pkg/domain"
)

// PageGenerator renders a static HTML page per post with the meta tags search
// engines expect
type PageGenerator struct {
	outputDir string
	baseURL   string
	sanitizer *bluemonday.Policy
	tmpl      *template.Template
}

// NewPageGenerator creates a generator writing pages under outputDir/blog
func NewPageGenerator(outputDir, baseURL string) (*PageGenerator, error) {
	tmpl, err := template.New("post").Parse(postPageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse post template: %w", err)
	}
	return &PageGenerator{
		outputDir: outputDir,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		sanitizer: bluemonday.StrictPolicy(),
		tmpl:      tmpl,
	}, nil
}

// pageData is the template payload for one post page
type pageData struct {
	Post        domain.Post
	Description string
	Canonical   string
	Paragraphs  []string
}

// Generate writes the post's HTML page. Failure never affects the corpus.
func (g *PageGenerator) Generate(post domain.Post) error {
	dir := filepath.Join(g.outputDir, "blog")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create blog dir: %w", err)
	}

	slug := Slug(post.Title, post.ID)
	path := filepath.Join(dir, slug+".html")

	data := pageData{
		Post:        post,
		Description: g.metaDescription(post),
		Canonical:   fmt.Sprintf("%s/blog/%s.html", g.baseURL, slug),
		Paragraphs:  splitParagraphs(g.sanitizer.Sanitize(post.LongText)),
	}

	f, err := os.Create(path) //nolint:gosec // path built from sanitized slug
	if err != nil {
		return fmt.Errorf("create page file: %w", err)
	}
	defer f.Close()

	if err := g.tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("render page %s: %w", slug, err)
	}

	lgr.Printf("[INFO] generated page %s", path)
	return nil
}

// metaDescription strips markup and trims the long text for the description
// meta tag
func (g *PageGenerator) metaDescription(post domain.Post) string {
	text := strings.Join(strings.Fields(g.sanitizer.Sanitize(post.LongText)), " ")
	if runes := []rune(text); len(runes) > 200 {
		text = string(runes[:200]) + "…"
	}
	return text
}

// splitParagraphs breaks rewritten text into template paragraphs
func splitParagraphs(text string) []string {
	res := []string{}
	for _, part := range strings.Split(text, "\n\n") {
		if part = strings.TrimSpace(part); part != "" {
			res = append(res, part)
		}
	}
	return res
}

var slugCleanRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slug builds a URL-friendly page name from the title, falling back to the
// post id for untitled or non-latin content
func Slug(title, postID string) string {
	slug := slugCleanRe.ReplaceAllString(strings.ToLower(title), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 50 {
		slug = strings.Trim(slug[:50], "-")
	}
	if slug == "" {
		return postID
	}
	return slug
}

const postPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Post.Title}}</title>
<meta name="description" content="{{.Description}}">
<link rel="canonical" href="{{.Canonical}}">
<meta property="og:type" content="article">
<meta property="og:title" content="{{.Post.Title}}">
<meta property="og:description" content="{{.Description}}">
<meta property="og:image" content="{{.Post.MainImage}}">
<meta property="og:url" content="{{.Canonical}}">
<meta property="article:published_time" content="{{.Post.CreatedAt.Format "2006-01-02T15:04:05Z07:00"}}">
</head>
<body>
<article>
<h1>{{.Post.Title}}</h1>
<img src="{{.Post.MainImage}}" alt="{{.Post.Title}}">
{{range .Paragraphs}}<p>{{.}}</p>
{{end}}
</article>
</body>
</html>
`
