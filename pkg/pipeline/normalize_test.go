package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"collapses whitespace", "Hello   World\n\tAgain", "hello world again"},
		{"lowercases", "TABATA Workout", "tabata workout"},
		{"empty", "", ""},
		{"only whitespace", "  \n\t ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeText(tt.input))
		})
	}
}

func TestHashText_WhitespaceAndCaseInsensitive(t *testing.T) {
	h1 := HashText("A  Quick\nWorkout")
	h2 := HashText("a quick workout")
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, HashText("a slow workout"))
	assert.Len(t, h1, 64)
}

func TestNormalizeImageURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"strips query", "https://cdn.example.com/photo.jpg?w=600&h=400", "https://cdn.example.com/photo.jpg"},
		{"strips size suffix", "https://cdn.example.com/photo-600x400.jpg", "https://cdn.example.com/photo.jpg"},
		{"strips underscore size suffix", "https://cdn.example.com/photo_1024x768.png", "https://cdn.example.com/photo.png"},
		{"strips timestamp suffix", "https://cdn.example.com/hero-1634567890.jpg", "https://cdn.example.com/hero.jpg"},
		{"lowercases host", "https://CDN.Example.com/photo.jpg", "https://cdn.example.com/photo.jpg"},
		{"keeps short numbers", "https://cdn.example.com/day-5.jpg", "https://cdn.example.com/day-5.jpg"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeImageURL(tt.input))
		})
	}
}

func TestNormalizeImageURL_Idempotent(t *testing.T) {
	urls := []string{
		"https://cdn.example.com/photo-600x400.jpg?v=3",
		"https://cdn.example.com/photo.jpg",
		"https://cdn.example.com/hero-1634567890123.webp",
		"http://a.com/img_300x200-1700000000.png",
	}
	for _, u := range urls {
		once := NormalizeImageURL(u)
		assert.Equal(t, once, NormalizeImageURL(once), "not idempotent for %s", u)
	}
}

func TestNormalizeImageURL_SizeVariantsCollide(t *testing.T) {
	assert.Equal(t, NormalizeImageURL("https://a.com/img.jpg"),
		NormalizeImageURL("https://a.com/img-600x400.jpg"))
}

func TestDomain(t *testing.T) {
	assert.Equal(t, "example.com", Domain("https://www.example.com/path?x=1"))
	assert.Equal(t, "blog.example.com", Domain("http://blog.example.com/"))
	assert.Equal(t, "", Domain("not a url"))
}

func TestTitleSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, TitleSimilarity("quick hiit workout", "Quick HIIT Workout"), 0.001)
	assert.InDelta(t, 0.0, TitleSimilarity("quick hiit workout", "pasta recipes"), 0.001)

	// reworded mirror of the same article keeps most tokens
	sim := TitleSimilarity("10 minute tabata workout for beginners", "tabata workout for beginners in 10 minutes")
	assert.Greater(t, sim, 0.6)

	assert.Zero(t, TitleSimilarity("", "anything"))
}
