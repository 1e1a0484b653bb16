package domain

import "time"

// Candidate is a research item keyed by its source URL. It is created by the
// ingest stage with Processed=false and mutated exactly once by the
// summarization stage; a candidate left unprocessed after an error is picked
// up again on the next batch run.
type Candidate struct {
	ID          string
	Title       string
	URL         string
	Source      string
	PublishedAt *time.Time
	Summary     string
	KeyClaims   string
	Tags        []string
	Usefulness  float64
	Confidence  float64
	UseInDraft  bool
	Processed   bool
}

// CandidateUpdate carries the fields written back by the summarization stage.
type CandidateUpdate struct {
	Summary    string
	KeyClaims  string
	Tags       []string
	Usefulness float64
	UseInDraft bool
	Processed  bool
}

// FeedEntry is a raw item pulled from an RSS feed before dedupe and recency
// filtering.
type FeedEntry struct {
	Title     string
	URL       string
	Summary   string
	FeedTitle string
	Published *time.Time
}

// Topic is one of the fixed rotating content themes. The rotation table is
// immutable configuration; topics are selected, never mutated.
type Topic struct {
	Name     string
	Keywords []string
	Angle    string
}

// SummaryResult is the structured output recovered from one summarization
// call.
type SummaryResult struct {
	Bullets    []string
	Claims     []string
	Tags       []string
	Confidence float64
}

// SourceRef is a (title, url) citation inside a weekly package.
type SourceRef struct {
	Title string
	URL   string
}

// WeeklyPackage is the generated content bundle for one calendar week. It is
// persisted once and never updated; the week-key duplicate check makes the
// stored page a write-once artifact.
type WeeklyPackage struct {
	ArticleTitle   string
	ThesisAngle    string
	LongForm       string
	CompanionPosts []string
	CommentPrompts []string
	Sources        []SourceRef
}
