package store

import (
	"time"

	"github.com/umputun/repost/pkg/domain"
)

// PublicationLog is the append-only audit log of publication attempts that
// reached the blog or the channel. The rotation ledger, the per-domain
// rate-limit view and the topic-balance statistics are all derived from it.
// The on-disk form is a bare JSON array.
type PublicationLog struct {
	path    string
	records []domain.LogRecord
}

// NewPublicationLog creates a publication log backed by the given file
func NewPublicationLog(path string) *PublicationLog {
	return &PublicationLog{path: path}
}

// Load reads the log from disk; missing file yields an empty log
func (p *PublicationLog) Load() error {
	p.records = nil
	return loadJSON(p.path, &p.records)
}

// Append adds a record. The log is append-only.
func (p *PublicationLog) Append(rec domain.LogRecord) {
	p.records = append(p.records, rec)
}

// Records returns all records, oldest first
func (p *PublicationLog) Records() []domain.LogRecord { return p.records }

// Tail returns up to n most recent records, newest last
func (p *PublicationLog) Tail(n int) []domain.LogRecord {
	if n <= 0 || len(p.records) <= n {
		return p.records
	}
	return p.records[len(p.records)-n:]
}

// Since returns records with timestamps at or after cutoff, oldest first
func (p *PublicationLog) Since(cutoff time.Time) []domain.LogRecord {
	res := []domain.LogRecord{}
	for _, rec := range p.records {
		if !rec.Timestamp.Before(cutoff) {
			res = append(res, rec)
		}
	}
	return res
}

// Save writes the log back to disk wholesale
func (p *PublicationLog) Save() error {
	if p.records == nil {
		return saveJSON(p.path, []domain.LogRecord{})
	}
	return saveJSON(p.path, p.records)
}
