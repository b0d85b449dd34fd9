package domain

// Candidate represents an unprocessed article pulled from an RSS feed.
// It lives for a single pipeline run; only its URL survives a terminal outcome
// (recorded in the processed set).
type Candidate struct {
	Title       string
	URL         string
	FeedURL     string
	Description string
	Keywords    []string // relevance keywords matched during admission
}

// Image represents a single image discovered on a candidate's source page
type Image struct {
	URL    string
	Alt    string
	Title  string
	Width  int
	Height int
	Main   bool // og:image or otherwise marked as the lead image
}

// FeedResult holds candidates fetched from a single feed
type FeedResult struct {
	FeedURL    string
	Candidates []Candidate
	Err        error
}
