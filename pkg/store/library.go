package store

import (
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/repost/pkg/domain"
)

// Library is the durable content uniqueness index. Every published post adds
// an entry; the uniqueness guard checks new candidates against all of them.
// Entries are only removed by Prune.
type Library struct {
	path string
	data libraryFile
}

type libraryFile struct {
	Version   int                   `json:"version"`
	UpdatedAt time.Time             `json:"updated_at"`
	Items     []domain.LibraryEntry `json:"items"`
}

// NewLibrary creates a content library backed by the given file
func NewLibrary(path string) *Library {
	return &Library{path: path, data: libraryFile{Version: 1}}
}

// Load reads the library from disk; missing file yields an empty library
func (l *Library) Load() error {
	l.data = libraryFile{Version: 1}
	if err := loadJSON(l.path, &l.data); err != nil {
		return err
	}
	if l.data.Version == 0 {
		l.data.Version = 1
	}
	return nil
}

// Entries returns all library entries for uniqueness checks
func (l *Library) Entries() []domain.LibraryEntry { return l.data.Items }

// Add appends a new entry. Entries are immutable after creation.
func (l *Library) Add(e domain.LibraryEntry) {
	l.data.Items = append(l.data.Items, e)
}

// Remove deletes the entry with the given text hash, used to undo a failed
// persist
func (l *Library) Remove(textHash string) {
	for i, e := range l.data.Items {
		if e.TextHash == textHash {
			l.data.Items = append(l.data.Items[:i], l.data.Items[i+1:]...)
			return
		}
	}
}

// PruneOptions controls the retention pass over library entries
type PruneOptions struct {
	MinScore       int      // entries scored below are dropped (0 disables)
	MinImages      int      // entries with fewer recorded images are dropped
	BlockedPhrases []string // entries whose title contains any phrase are dropped
}

// Prune removes low-value entries and returns the number dropped. This is the
// only mutation of existing entries the library supports.
func (l *Library) Prune(opts PruneOptions) int {
	kept := make([]domain.LibraryEntry, 0, len(l.data.Items))
	for _, e := range l.data.Items {
		if opts.MinScore > 0 && e.Score > 0 && e.Score < opts.MinScore {
			continue
		}
		if opts.MinImages > 0 && len(e.ImageURLs) < opts.MinImages {
			continue
		}
		if containsAny(e.TitleNorm, opts.BlockedPhrases) {
			continue
		}
		kept = append(kept, e)
	}
	dropped := len(l.data.Items) - len(kept)
	if dropped > 0 {
		lgr.Printf("[INFO] pruned %d library entries", dropped)
		l.data.Items = kept
	}
	return dropped
}

// Save writes the library back to disk wholesale
func (l *Library) Save() error {
	l.data.UpdatedAt = time.Now()
	return saveJSON(l.path, l.data)
}

func containsAny(s string, phrases []string) bool {
	for _, ph := range phrases {
		if ph != "" && strings.Contains(s, strings.ToLower(ph)) {
			return true
		}
	}
	return false
}
