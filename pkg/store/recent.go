package store

import (
	"time"
)

// defaultRecentCap bounds the telegram anti-repeat window
const defaultRecentCap = 30

// RecentWindow is the channel-side anti-repeat buffer: the last N
// (text hash, image URL) tuples confirmed sent to telegram. It is independent
// of the content library because the blog corpus keeps history forever while
// the channel only cares about recent repeats.
type RecentWindow struct {
	path string
	cap  int
	data recentFile
}

type recentFile struct {
	Items []RecentItem `json:"items"`
}

// RecentItem is one confirmed channel send
type RecentItem struct {
	TextHash  string    `json:"text_hash"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRecentWindow creates a telegram recent window backed by the given file
func NewRecentWindow(path string) *RecentWindow {
	return &RecentWindow{path: path, cap: defaultRecentCap}
}

// Load reads the window from disk; missing file yields an empty window
func (r *RecentWindow) Load() error {
	r.data = recentFile{}
	return loadJSON(r.path, &r.data)
}

// IsDuplicate reports whether the exact text hash or normalized image URL was
// sent within the window. Empty image URL only matches on text.
func (r *RecentWindow) IsDuplicate(textHash, imageURL string) bool {
	for _, item := range r.data.Items {
		if item.TextHash == textHash {
			return true
		}
		if imageURL != "" && item.ImageURL == imageURL {
			return true
		}
	}
	return false
}

// Record appends a confirmed send, evicting the oldest entries over the cap.
// Must be called only after the channel confirmed delivery.
func (r *RecentWindow) Record(textHash, imageURL string) {
	r.data.Items = append(r.data.Items, RecentItem{
		TextHash:  textHash,
		ImageURL:  imageURL,
		CreatedAt: time.Now(),
	})
	if len(r.data.Items) > r.cap {
		r.data.Items = r.data.Items[len(r.data.Items)-r.cap:]
	}
}

// Len returns the number of recorded sends
func (r *RecentWindow) Len() int { return len(r.data.Items) }

// Save writes the window back to disk wholesale
func (r *RecentWindow) Save() error { return saveJSON(r.path, r.data) }
