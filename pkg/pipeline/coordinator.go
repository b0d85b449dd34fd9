package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/repost/pkg/domain"
	"github.com/umputun/repost/pkg/store"
)

//go:generate moq -out mocks/extractor.go -pkg mocks -skip-ensure -fmt goimports . Extractor
//go:generate moq -out mocks/image_finder.go -pkg mocks -skip-ensure -fmt goimports . ImageFinder
//go:generate moq -out mocks/rewriter.go -pkg mocks -skip-ensure -fmt goimports . Rewriter
//go:generate moq -out mocks/notifier.go -pkg mocks -skip-ensure -fmt goimports . Notifier
//go:generate moq -out mocks/page_generator.go -pkg mocks -skip-ensure -fmt goimports . PageGenerator
//go:generate moq -out mocks/image_downloader.go -pkg mocks -skip-ensure -fmt goimports . ImageDownloader

// Extractor fetches the full readable text of an article page
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// ImageFinder discovers images on an article page
type ImageFinder interface {
	Find(ctx context.Context, url string) ([]domain.Image, error)
}

// Rewriter produces the long (blog) and short (channel) forms of a post
type Rewriter interface {
	RewriteLong(ctx context.Context, text, title string) (string, error)
	RewriteShort(ctx context.Context, text, title string) (string, error)
}

// Notifier delivers a post to the messaging channel
type Notifier interface {
	Send(ctx context.Context, text, imageURL string) error
}

// PageGenerator renders the static HTML page for a committed post. Best
// effort: a failure never rolls back the corpus write.
type PageGenerator interface {
	Generate(post domain.Post) error
}

// ImageDownloader mirrors the chosen image into the site's storage and
// returns the local URL
type ImageDownloader interface {
	Download(ctx context.Context, imageURL, postID string) (string, error)
}

// State is a stage of the per-candidate publication state machine
type State string

// publication states, in transition order, plus the two exits
const (
	StatePending       State = "pending"
	StateFetching      State = "fetching"
	StateRewriting     State = "rewriting"
	StateUniqueness    State = "uniqueness_check"
	StateImageSelect   State = "image_selection"
	StatePersisted     State = "persisted"
	StatePageGenerated State = "page_generated"
	StateSent          State = "sent"
	StateCommitted     State = "committed"
	StateAbandoned     State = "abandoned" // non-retryable, URL recorded processed
	StateDeferred      State = "deferred"  // retryable on a future run
)

// defaultMaxAttempts bounds how many ordered candidates one run tries before
// giving up
const defaultMaxAttempts = 40

// sentImageLogDepth is how far back in the publication log the pre-send image
// check looks, matching the recent window size
const sentImageLogDepth = 30

// Stores groups the persisted registries the coordinator writes at stage
// boundaries
type Stores struct {
	Processed *store.ProcessedSet
	Library   *store.Library
	Recent    *store.RecentWindow
	Log       *store.PublicationLog
	Corpus    *store.Corpus
}

// Params configures the publication coordinator
type Params struct {
	Extractor  Extractor
	Images     ImageFinder
	Rewriter   Rewriter
	Notifier   Notifier
	Pages      PageGenerator
	Downloader ImageDownloader
	Stores     Stores

	Guard      *Guard
	Selector   *ImageSelector
	Classifier TagClassifier // stamps the winning category on committed posts

	Source       string // source label stamped on posts
	Audience     string // audience label stamped on log records
	MaxAttempts  int    // candidate attempt bound, default 40
	MinTextChars int    // extracted text shorter than this counts as a fetch failure
}

// Coordinator drives the multi-stage publish across the blog and channel
// sinks, one candidate at a time, at most one commit per run.
type Coordinator struct {
	Params
}

// Result summarizes one pipeline run
type Result struct {
	Committed bool   // a post reached the blog corpus
	Partial   bool   // blog write succeeded but the channel send was skipped or failed
	PostID    string
	Attempts  int
}

// NewCoordinator creates a coordinator with defaults applied
func NewCoordinator(params Params) *Coordinator {
	if params.MaxAttempts <= 0 {
		params.MaxAttempts = defaultMaxAttempts
	}
	if params.MinTextChars <= 0 {
		params.MinTextChars = 300
	}
	if params.Guard == nil {
		params.Guard = &Guard{}
	}
	if params.Selector == nil {
		params.Selector = &ImageSelector{}
	}
	return &Coordinator{Params: params}
}

// Run attempts ordered candidates until one commits or the attempt bound is
// exhausted. Deferred candidates stay retryable, abandoned ones are recorded
// in the processed set. State stores are written only at stage boundaries.
func (c *Coordinator) Run(ctx context.Context, candidates []domain.Candidate) (*Result, error) {
	usedImages := BuildImageIndex(c.Stores.Corpus.Posts())
	res := &Result{}

	for _, cand := range candidates {
		if res.Attempts >= c.MaxAttempts {
			lgr.Printf("[WARN] attempt bound %d reached, giving up for this run", c.MaxAttempts)
			break
		}
		res.Attempts++

		state, post, err := c.attempt(ctx, cand, usedImages)
		switch state {
		case StateDeferred:
			lgr.Printf("[WARN] deferred %s: %v", cand.URL, err)
			continue

		case StateAbandoned:
			lgr.Printf("[INFO] abandoned %s: %v", cand.URL, err)
			c.Stores.Processed.Add(cand.URL)
			if saveErr := c.Stores.Processed.Save(); saveErr != nil {
				return res, fmt.Errorf("save processed set: %w", saveErr)
			}
			continue

		case StateCommitted, StatePageGenerated, StatePersisted:
			res.Committed = true
			res.Partial = state != StateCommitted
			res.PostID = post.ID
			return res, err

		default:
			return res, fmt.Errorf("unexpected terminal state %q for %s", state, cand.URL)
		}
	}

	lgr.Printf("[INFO] run finished with no publication after %d attempts", res.Attempts)
	return res, nil
}

// attempt drives one candidate through the state machine. Terminal states:
// StateCommitted (both sinks), StatePageGenerated/StatePersisted (blog only,
// partial success), StateAbandoned, StateDeferred.
func (c *Coordinator) attempt(ctx context.Context, cand domain.Candidate, usedImages map[string]struct{}) (State, *domain.Post, error) {
	lgr.Printf("[INFO] attempting candidate %q from %s", cand.Title, cand.URL)

	// Fetching: full text plus image list, failures are transient
	text, err := c.Extractor.Extract(ctx, cand.URL)
	if err != nil {
		return StateDeferred, nil, fmt.Errorf("fetch content: %w", err)
	}
	if len(text) < c.MinTextChars {
		return StateDeferred, nil, fmt.Errorf("content too short: %d chars", len(text))
	}

	images, err := c.Images.Find(ctx, cand.URL)
	if err != nil {
		return StateDeferred, nil, fmt.Errorf("find images: %w", err)
	}

	// Rewriting: either form failing or empty defers the candidate
	longText, err := c.Rewriter.RewriteLong(ctx, text, cand.Title)
	if err != nil || longText == "" {
		return StateDeferred, nil, fmt.Errorf("rewrite long form: %w", errOrEmpty(err))
	}
	shortText, err := c.Rewriter.RewriteShort(ctx, text, cand.Title)
	if err != nil || shortText == "" {
		return StateDeferred, nil, fmt.Errorf("rewrite short form: %w", errOrEmpty(err))
	}

	// UniquenessCheck: a duplicate is a dead end, never retried
	if ok, reason := c.Guard.Check(longText, images, cand.Title, cand.URL, c.Stores.Library.Entries()); !ok {
		return StateAbandoned, nil, fmt.Errorf("uniqueness check failed: %s", reason)
	}

	// ImageSelection: no unused image means the candidate is abandoned, a
	// post without a guaranteed-unused image is never published
	img := c.Selector.Pick(images, usedImages, cand.Title, longText)
	if img == nil {
		return StateAbandoned, nil, fmt.Errorf("no unused image among %d found", len(images))
	}

	post := c.buildPost(cand, longText, shortText, *img)

	// best effort local mirror of the image; remote URL on failure
	if c.Downloader != nil {
		if localURL, dlErr := c.Downloader.Download(ctx, img.URL, post.ID); dlErr != nil {
			lgr.Printf("[WARN] image download failed for %s, keeping remote: %v", img.URL, dlErr)
		} else {
			post.MainImage = localURL
		}
	}

	// Persisted: corpus, library and retention are written before any
	// outward-facing side effect
	if err := c.persist(post, cand, longText, *img); err != nil {
		return StateDeferred, nil, err
	}

	// PageGenerated: failure logged, never rolls back the corpus write; the
	// page is regenerable idempotently on a later run
	state := StatePersisted
	if c.Pages != nil {
		if err := c.Pages.Generate(post); err != nil {
			lgr.Printf("[WARN] page generation failed for %s: %v", post.ID, err)
		} else {
			state = StatePageGenerated
		}
	}

	// Sent: the channel has its own anti-repeat horizon, re-checked just
	// before sending
	channelSent, sendErr := c.sendToChannel(ctx, post, shortText, img.URL)

	// Committed: terminal bookkeeping for the successful publish
	c.Stores.Processed.Add(cand.URL)
	c.Stores.Log.Append(domain.LogRecord{
		Timestamp: post.CreatedAt,
		Audience:  c.Audience,
		Tags:      post.Tags,
		SourceURL: cand.URL,
		FeedURL:   cand.FeedURL,
		Blog:      true,
		Channel:   channelSent,
		PostID:    post.ID,
		ImageURL:  NormalizeImageURL(img.URL),
	})
	if err := c.Stores.Processed.Save(); err != nil {
		return state, &post, fmt.Errorf("save processed set: %w", err)
	}
	if err := c.Stores.Log.Save(); err != nil {
		return state, &post, fmt.Errorf("save publication log: %w", err)
	}

	if !channelSent {
		lgr.Printf("[WARN] partial success for %s, blog published, channel skipped: %v", post.ID, sendErr)
		return state, &post, nil
	}

	lgr.Printf("[INFO] committed post %s (%q)", post.ID, post.Title)
	return StateCommitted, &post, nil
}

// buildPost assembles the terminal artifact from the candidate and its
// rewritten forms
func (c *Coordinator) buildPost(cand domain.Candidate, longText, shortText string, img domain.Image) domain.Post {
	now := time.Now()
	id := fmt.Sprintf("%s-%s", c.Source, HashText(NormalizeURL(cand.URL))[:12])

	return domain.Post{
		ID:        id,
		Title:     cand.Title,
		ShortText: shortText,
		LongText:  longText,
		MainImage: img.URL,
		Images:    []string{img.URL},
		Tags:      c.postTags(cand, longText),
		Source:    c.Source,
		SourceURL: cand.URL,
		FeedURL:   cand.FeedURL,
		CreatedAt: now,
	}
}

// postTags combines the matched relevance keywords with the winning category
// name. The category tag is what the topic-balance statistics count, so it
// must land in the publication log for the feedback loop to close.
func (c *Coordinator) postTags(cand domain.Candidate, longText string) []string {
	tags := append([]string{}, cand.Keywords...)
	if c.Classifier == nil {
		return tags
	}
	cat := topCategory(c.Classifier.Classify(cand.Title + " " + longText))
	if cat == "" {
		return tags
	}
	for _, t := range tags {
		if t == cat {
			return tags
		}
	}
	return append(tags, cat)
}

// persist writes the post and its uniqueness record, trimming retention. This
// is the Persisted(BlogCorpus) stage boundary. A deferred candidate must
// leave no trace: on a partial save failure both stores are rolled back, and
// the library (the fingerprint) is always on disk before the post is.
func (c *Coordinator) persist(post domain.Post, cand domain.Candidate, longText string, img domain.Image) error {
	textHash := HashText(longText)
	c.Stores.Corpus.Add(post)
	c.Stores.Library.Add(domain.LibraryEntry{
		TextHash:  textHash,
		TitleNorm: NormalizeText(cand.Title),
		SourceURL: cand.URL,
		ImageURLs: []string{NormalizeImageURL(img.URL)},
		Score:     len(cand.Keywords),
		FetchedAt: post.CreatedAt,
	})

	if err := c.Stores.Library.Save(); err != nil {
		c.Stores.Corpus.Remove(post.ID)
		c.Stores.Library.Remove(textHash)
		return fmt.Errorf("save library: %w", err)
	}
	if err := c.Stores.Corpus.Save(); err != nil {
		c.Stores.Corpus.Remove(post.ID)
		c.Stores.Library.Remove(textHash)
		// the fingerprint already hit the disk, undo it; if that fails too
		// the candidate degrades to abandoned-as-duplicate on a later run,
		// never to a republish
		if undoErr := c.Stores.Library.Save(); undoErr != nil {
			lgr.Printf("[WARN] library rollback failed, %s will be seen as duplicate: %v", cand.URL, undoErr)
		}
		return fmt.Errorf("save corpus: %w", err)
	}
	return nil
}

// sendToChannel re-checks the recent window and delivers to telegram. Returns
// whether the channel actually received the post; failures leave the blog
// post in place (partial success).
func (c *Coordinator) sendToChannel(ctx context.Context, post domain.Post, shortText, imageURL string) (sent bool, err error) {
	if c.Notifier == nil {
		return false, fmt.Errorf("no channel configured")
	}

	shortHash := HashText(shortText)
	imgNorm := NormalizeImageURL(imageURL)
	if c.Stores.Recent.IsDuplicate(shortHash, imgNorm) {
		return false, fmt.Errorf("recent window holds same text or image")
	}
	// the log sees images the window may have already evicted
	if imgNorm != "" {
		for _, rec := range c.Stores.Log.Tail(sentImageLogDepth) {
			if rec.ImageURL == imgNorm {
				return false, fmt.Errorf("image recently published: %s", imgNorm)
			}
		}
	}

	if err := c.Notifier.Send(ctx, shortText, imageURL); err != nil {
		return false, fmt.Errorf("channel send: %w", err)
	}

	c.Stores.Recent.Record(shortHash, imgNorm)
	if err := c.Stores.Recent.Save(); err != nil {
		lgr.Printf("[WARN] save recent window for %s: %v", post.ID, err)
	}
	return true, nil
}

// errOrEmpty keeps the %w chain readable when a collaborator returns an empty
// result without an error
func errOrEmpty(err error) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("empty result")
}
