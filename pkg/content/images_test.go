package content

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageFinder_Find(t *testing.T) {
	page := `<!DOCTYPE html>
<html>
<head>
<meta property="og:image" content="https://cdn.site.com/lead.jpg">
</head>
<body>
<header><img src="/logo.png" alt="site logo"></header>
<article>
<img src="/photos/squat.jpg" alt="squat demo" width="800" height="600">
<img src="//cdn.site.com/deadlift.jpg" alt="deadlift" data-width="640px">
<img data-src="/photos/lazy-loaded.jpg" alt="lazy">
</article>
</body>
</html>`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer ts.Close()

	f := NewImageFinder(NewExtractor(5*time.Second, "", 0), 3)
	images, err := f.Find(context.Background(), ts.URL+"/post")
	require.NoError(t, err)

	require.Len(t, images, 4)

	assert.Equal(t, "https://cdn.site.com/lead.jpg", images[0].URL)
	assert.True(t, images[0].Main, "og:image is the lead")

	assert.Equal(t, ts.URL+"/photos/squat.jpg", images[1].URL, "relative src resolved")
	assert.Equal(t, "squat demo", images[1].Alt)
	assert.Equal(t, 800, images[1].Width)
	assert.Equal(t, 600, images[1].Height)

	assert.Equal(t, "http://cdn.site.com/deadlift.jpg", images[2].URL, "protocol-relative resolved")
	assert.Equal(t, 640, images[2].Width, "px suffix and data- prefix handled")

	assert.Equal(t, ts.URL+"/photos/lazy-loaded.jpg", images[3].URL, "data-src fallback")

	for _, img := range images {
		assert.NotContains(t, img.URL, "logo.png", "header images outside the article scope are ignored")
	}
}

func TestImageFinder_Find_NoArticleScope(t *testing.T) {
	page := `<html><body>
<img src="/a.jpg" alt="one">
<img src="/b.jpg" alt="two">
</body></html>`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer ts.Close()

	f := NewImageFinder(NewExtractor(5*time.Second, "", 0), 3)
	images, err := f.Find(context.Background(), ts.URL)
	require.NoError(t, err)
	require.Len(t, images, 2, "falls back to body scan")
}

func TestImageFinder_Find_Limit(t *testing.T) {
	page := `<html><body><article>
<img src="/1.jpg"><img src="/2.jpg"><img src="/3.jpg"><img src="/4.jpg"><img src="/5.jpg">
</article></body></html>`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer ts.Close()

	f := NewImageFinder(NewExtractor(5*time.Second, "", 0), 2)
	images, err := f.Find(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Len(t, images, 2, "in-article limit holds without a lead image")
}

func TestImageFinder_Find_LimitWithLead(t *testing.T) {
	page := `<html><head><meta property="og:image" content="https://cdn.com/lead.jpg"></head>
<body><article>
<img src="/1.jpg"><img src="/2.jpg"><img src="/3.jpg">
</article></body></html>`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer ts.Close()

	f := NewImageFinder(NewExtractor(5*time.Second, "", 0), 2)
	images, err := f.Find(context.Background(), ts.URL)
	require.NoError(t, err)
	require.Len(t, images, 3, "lead slot does not count against the in-article limit")
	assert.True(t, images[0].Main)
}

func TestImageFinder_Find_SkipsJunk(t *testing.T) {
	page := `<html><body><article>
<img src="data:image/gif;base64,R0lGOD">
<img src="">
<img src="/good.jpg" alt="the one">
<img src="/good.jpg" alt="duplicate src">
</article></body></html>`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer ts.Close()

	f := NewImageFinder(NewExtractor(5*time.Second, "", 0), 3)
	images, err := f.Find(context.Background(), ts.URL)
	require.NoError(t, err)

	require.Len(t, images, 1, "data URIs, empty srcs and duplicates dropped")
	assert.Equal(t, ts.URL+"/good.jpg", images[0].URL)
	assert.Equal(t, "the one", images[0].Alt)
}

func TestImageFinder_Find_InvalidURL(t *testing.T) {
	f := NewImageFinder(NewExtractor(time.Second, "", 0), 3)
	_, err := f.Find(context.Background(), "not-a-url")
	require.Error(t, err)
}
