package pipeline

import (
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/repost/pkg/domain"
)

// defaultRotationWindow is how many most recent publications a source has to
// stay out of before it is eligible again
const defaultRotationWindow = 4

// RateRule enforces a minimum interval between publications from one domain,
// for high-frequency sources that would otherwise dominate
type RateRule struct {
	Domain      string        `yaml:"domain" json:"domain" jsonschema:"description=Domain the rule applies to"`
	MinInterval time.Duration `yaml:"min_interval" json:"min_interval" jsonschema:"description=Minimum interval between posts from this domain"`
}

// Admission filters aggregated candidates by keyword relevance, source
// rotation and per-domain rate limits. It is read-only over the publication
// history and preserves input order.
type Admission struct {
	Keywords       []string       // relevance vocabulary matched against title+description
	MinMatches     int            // keywords required to keep a candidate, default 1
	PerSourceMin   map[string]int // per-feed overrides of MinMatches, keyed by feed URL
	RotationWindow int            // rotation ledger depth, default 4
	RateRules      []RateRule     // per-domain minimum intervals
}

// Admit returns the candidates that pass all three tests. The rotation ledger
// and the rate-limit view are derived from the publication history, newest
// records last. Matched keywords are recorded on each admitted candidate.
func (a *Admission) Admit(candidates []domain.Candidate, history []domain.LogRecord, now time.Time) []domain.Candidate {
	minMatches := a.MinMatches
	if minMatches <= 0 {
		minMatches = 1
	}

	rotation := a.rotationLedger(history)
	lastByDomain := lastPublishedByDomain(history)

	admitted := make([]domain.Candidate, 0, len(candidates))
	for _, cand := range candidates {
		required := minMatches
		if v, ok := a.PerSourceMin[cand.FeedURL]; ok && v > 0 {
			required = v
		}
		matched := MatchKeywords(cand.Title+" "+cand.Description, a.Keywords)
		if len(matched) < required {
			continue
		}

		dom := Domain(cand.URL)
		if rotation[cand.FeedURL] || (dom != "" && rotation[dom]) {
			lgr.Printf("[DEBUG] rotation excludes %s (%s)", cand.URL, dom)
			continue
		}

		if a.rateLimited(dom, lastByDomain, now) {
			lgr.Printf("[DEBUG] rate limit excludes %s (%s)", cand.URL, dom)
			continue
		}

		cand.Keywords = matched
		admitted = append(admitted, cand)
	}
	return admitted
}

// rotationLedger builds the set of feed URLs and domains used by the last N
// blog publications
func (a *Admission) rotationLedger(history []domain.LogRecord) map[string]bool {
	window := a.RotationWindow
	if window <= 0 {
		window = defaultRotationWindow
	}

	ledger := map[string]bool{}
	count := 0
	for i := len(history) - 1; i >= 0 && count < window; i-- {
		rec := history[i]
		if !rec.Blog {
			continue
		}
		if rec.FeedURL != "" {
			ledger[rec.FeedURL] = true
		}
		if dom := Domain(rec.SourceURL); dom != "" {
			ledger[dom] = true
		}
		count++
	}
	return ledger
}

// rateLimited reports whether the domain's most recent publication is newer
// than a configured minimum interval
func (a *Admission) rateLimited(dom string, lastByDomain map[string]time.Time, now time.Time) bool {
	if dom == "" {
		return false
	}
	for _, rule := range a.RateRules {
		if !strings.EqualFold(rule.Domain, dom) {
			continue
		}
		if last, ok := lastByDomain[dom]; ok && now.Sub(last) < rule.MinInterval {
			return true
		}
	}
	return false
}

// lastPublishedByDomain derives the per-domain timestamp of the most recent
// publication from the log
func lastPublishedByDomain(history []domain.LogRecord) map[string]time.Time {
	res := map[string]time.Time{}
	for _, rec := range history {
		dom := Domain(rec.SourceURL)
		if dom == "" {
			continue
		}
		if rec.Timestamp.After(res[dom]) {
			res[dom] = rec.Timestamp
		}
	}
	return res
}

// MatchKeywords returns the vocabulary keywords found in text, case-insensitive
// substring match
func MatchKeywords(text string, vocabulary []string) []string {
	lowered := strings.ToLower(text)
	matched := []string{}
	for _, kw := range vocabulary {
		if kw != "" && strings.Contains(lowered, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}
