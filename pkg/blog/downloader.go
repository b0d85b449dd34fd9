package blog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
)

// maxImageSize caps a single downloaded image
const maxImageSize = 10 << 20 // 10MB

// Downloader mirrors post images into the site's images directory so pages
// don't hotlink the source
type Downloader struct {
	outputDir string
	client    *http.Client
}

// NewDownloader creates an image downloader writing under outputDir/images/blog
func NewDownloader(outputDir string, timeout time.Duration) *Downloader {
	return &Downloader{
		outputDir: outputDir,
		client:    &http.Client{Timeout: timeout},
	}
}

// Download fetches the image and returns its site-relative URL. The caller
// falls back to the remote URL on failure.
func (d *Downloader) Download(ctx context.Context, imageURL, postID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch image %s: %w", imageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d for image %s", resp.StatusCode, imageURL)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return "", fmt.Errorf("not an image: %s (%s)", imageURL, ct)
	}

	ext := imageExt(imageURL, resp.Header.Get("Content-Type"))
	name := postID + ext
	dir := filepath.Join(d.outputDir, "images", "blog")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create images dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, name)) //nolint:gosec // name built from post id
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return "", fmt.Errorf("write image %s: %w", name, err)
	}

	lgr.Printf("[DEBUG] downloaded image %s (%d bytes)", name, written)
	return "/images/blog/" + name, nil
}

// imageExt picks the file extension from the URL path or the content type
func imageExt(imageURL, contentType string) string {
	if ext := strings.ToLower(path.Ext(strings.SplitN(imageURL, "?", 2)[0])); ext != "" && len(ext) <= 5 {
		return ext
	}
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
