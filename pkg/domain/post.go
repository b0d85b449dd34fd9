package domain

import "time"

// Post is the terminal artifact of a successful publication. Created once when
// the coordinator commits, immutable afterward except for corpus-wide
// retention trimming.
type Post struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ShortText    string    `json:"short_text"`
	LongText     string    `json:"long_text"`
	MainImage    string    `json:"main_image"`
	Images       []string  `json:"images,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	Source       string    `json:"source"`
	SourceURL    string    `json:"source_url"`
	FeedURL      string    `json:"rss_feed_url"`
	CreatedAt    time.Time `json:"created_at"`
	CanonicalURL string    `json:"canonical_url,omitempty"`
}

// LibraryEntry is a durable uniqueness record in the content library.
// Never mutated after creation, deleted only by the pruning pass.
type LibraryEntry struct {
	TextHash  string    `json:"text_hash"`
	TitleNorm string    `json:"title_normalized"`
	SourceURL string    `json:"source_url"`
	ImageURLs []string  `json:"image_urls,omitempty"`
	Score     int       `json:"score,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// LogRecord is an append-only publication audit entry, feeding the
// topic-balance statistics and the rotation/rate-limit views.
type LogRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Audience  string    `json:"audience,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	SourceURL string    `json:"source_url"`
	FeedURL   string    `json:"rss_feed_url,omitempty"`
	Blog      bool      `json:"published_to_blog"`
	Channel   bool      `json:"published_to_channel"`
	PostID    string    `json:"post_id,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
}
