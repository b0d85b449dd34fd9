package store

import (
	"time"
)

// defaultProcessedCap bounds the processed-URL file, oldest entries evicted
// first
const defaultProcessedCap = 1000

// ProcessedSet records every candidate URL that reached a terminal outcome
// (committed or abandoned), so later runs never reprocess the same dead-end
// article. Deferred candidates are deliberately not recorded.
type ProcessedSet struct {
	path string
	cap  int
	data processedFile
}

type processedFile struct {
	Articles   []string   `json:"articles"`
	LastUpdate *time.Time `json:"last_update"`
}

// NewProcessedSet creates a processed-URL set backed by the given file
func NewProcessedSet(path string) *ProcessedSet {
	return &ProcessedSet{path: path, cap: defaultProcessedCap}
}

// Load reads the set from disk; missing file yields an empty set
func (p *ProcessedSet) Load() error {
	p.data = processedFile{}
	return loadJSON(p.path, &p.data)
}

// Contains reports whether url was already processed
func (p *ProcessedSet) Contains(url string) bool {
	for _, u := range p.data.Articles {
		if u == url {
			return true
		}
	}
	return false
}

// Add records a processed URL, evicting the oldest entries over the cap.
// Adding an already present URL is a no-op.
func (p *ProcessedSet) Add(url string) {
	if p.Contains(url) {
		return
	}
	p.data.Articles = append(p.data.Articles, url)
	if len(p.data.Articles) > p.cap {
		p.data.Articles = p.data.Articles[len(p.data.Articles)-p.cap:]
	}
	now := time.Now()
	p.data.LastUpdate = &now
}

// Len returns the number of recorded URLs
func (p *ProcessedSet) Len() int { return len(p.data.Articles) }

// Save writes the set back to disk wholesale
func (p *ProcessedSet) Save() error { return saveJSON(p.path, p.data) }
