package content

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testArticleHTML = `<!DOCTYPE html>
<html>
<head><title>Kettlebell Swings Explained</title></head>
<body>
<article>
<h1>Kettlebell Swings Explained</h1>
<p>The kettlebell swing is a hip hinge movement that builds posterior chain
strength and conditioning at the same time. Start with the bell a foot in
front of you, hinge at the hips and hike it back between your legs.</p>
<p>Drive the hips forward explosively and let the bell float to chest height.
The arms are ropes, the power comes from the hips. Ten sets of ten swings
with a minute of rest is a classic session for beginners.</p>
<p>Common mistakes include squatting instead of hinging and lifting with the
arms. Keep the spine neutral and the lats engaged throughout the movement.</p>
</article>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		assert.Contains(t, r.Header.Get("Accept"), "text/html")
		fmt.Fprint(w, testArticleHTML)
	}))
	defer ts.Close()

	e := NewExtractor(5*time.Second, "", 0)
	text, err := e.Extract(context.Background(), ts.URL+"/article")
	require.NoError(t, err)

	assert.Contains(t, text, "hip hinge movement")
	assert.Contains(t, text, "power comes from the hips")
}

func TestExtractor_Extract_Truncation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><article><h1>Long</h1><p>")
		for i := 0; i < 100; i++ {
			fmt.Fprintf(w, "Sentence number %d about training and recovery in great detail. ", i)
		}
		fmt.Fprint(w, "</p></article></body></html>")
	}))
	defer ts.Close()

	e := NewExtractor(5*time.Second, "", 500)
	text, err := e.Extract(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(text), 500)
}

func TestExtractor_Extract_Errors(t *testing.T) {
	t.Run("invalid url", func(t *testing.T) {
		e := NewExtractor(time.Second, "", 0)
		_, err := e.Extract(context.Background(), "not-a-url")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid URL")
	})

	t.Run("http error status", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer ts.Close()

		e := NewExtractor(time.Second, "", 0)
		_, err := e.Extract(context.Background(), ts.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status code 403")
	})

	t.Run("no extractable content", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<html><body></body></html>")
		}))
		defer ts.Close()

		e := NewExtractor(time.Second, "", 0)
		_, err := e.Extract(context.Background(), ts.URL)
		require.Error(t, err)
	})

	t.Run("context cancelled", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(time.Second)
		}))
		defer ts.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		e := NewExtractor(5*time.Second, "", 0)
		_, err := e.Extract(ctx, ts.URL)
		require.Error(t, err)
	})
}

func TestExtractor_CustomUserAgent(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, testArticleHTML)
	}))
	defer ts.Close()

	e := NewExtractor(5*time.Second, "custom-agent/1.0", 0)
	_, err := e.Extract(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "custom-agent/1.0", gotUA)

	t.Run("default is browser-like", func(t *testing.T) {
		e := NewExtractor(5*time.Second, "", 0)
		_, err := e.Extract(context.Background(), ts.URL)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(gotUA, "Mozilla/5.0"), "got %q", gotUA)
	})
}
