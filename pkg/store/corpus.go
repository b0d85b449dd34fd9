package store

import (
	"time"

	"github.com/umputun/repost/pkg/domain"
)

// defaultCorpusCap bounds the blog post corpus, oldest posts trimmed first
const defaultCorpusCap = 500

// Corpus is the blog document store (blog-posts.json): every committed post,
// newest first. The image-usage index is rebuilt from it on each run rather
// than persisted separately.
type Corpus struct {
	path string
	cap  int
	data corpusFile
}

type corpusFile struct {
	UpdatedAt time.Time     `json:"updated_at"`
	Posts     []domain.Post `json:"posts"`
}

// NewCorpus creates a post corpus backed by the given file
func NewCorpus(path string) *Corpus {
	return &Corpus{path: path, cap: defaultCorpusCap}
}

// Load reads the corpus from disk; missing file yields an empty corpus
func (c *Corpus) Load() error {
	c.data = corpusFile{}
	return loadJSON(c.path, &c.data)
}

// Posts returns all posts, newest first
func (c *Corpus) Posts() []domain.Post { return c.data.Posts }

// Add prepends a post and trims the corpus to its retention cap
func (c *Corpus) Add(post domain.Post) {
	c.data.Posts = append([]domain.Post{post}, c.data.Posts...)
	if len(c.data.Posts) > c.cap {
		c.data.Posts = c.data.Posts[:c.cap]
	}
}

// Remove deletes a post by id, used to undo a failed persist
func (c *Corpus) Remove(id string) {
	for i, post := range c.data.Posts {
		if post.ID == id {
			c.data.Posts = append(c.data.Posts[:i], c.data.Posts[i+1:]...)
			return
		}
	}
}

// Len returns the number of stored posts
func (c *Corpus) Len() int { return len(c.data.Posts) }

// Save writes the corpus back to disk wholesale
func (c *Corpus) Save() error {
	c.data.UpdatedAt = time.Now()
	return saveJSON(c.path, c.data)
}
