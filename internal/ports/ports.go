package ports

import (
	"context"
	"time"

	"ContentPipeline/internal/domain"
)

// FeedSource pulls entries from the configured RSS feeds. Individual feed
// failures are handled inside the source; the returned slice covers the feeds
// that responded.
type FeedSource interface {
	FetchEntries(ctx context.Context) ([]domain.FeedEntry, error)
}

// DedupeStore is an append-only set of URLs seen on previous ingest runs.
// A URL is never removed once marked.
type DedupeStore interface {
	Seen(ctx context.Context, url string) (bool, error)
	MarkSeen(ctx context.Context, url string) error
	Close() error
}

// ResearchStore persists candidate rows in the hosted research collection.
type ResearchStore interface {
	CreateCandidate(ctx context.Context, c domain.Candidate) error
	UnprocessedCandidates(ctx context.Context, limit int) ([]domain.Candidate, error)
	CompleteCandidate(ctx context.Context, id string, upd domain.CandidateUpdate) error
	// DraftCandidates returns processed, draft-approved candidates published
	// on or after since, ordered by usefulness score descending.
	DraftCandidates(ctx context.Context, since time.Time, limit int) ([]domain.Candidate, error)
}

// QueueStore persists weekly draft pages in the content queue collection.
type QueueStore interface {
	// FindWeekPage returns the page id for the given week key, or "" when the
	// week has no draft yet.
	FindWeekPage(ctx context.Context, weekKey string) (string, error)
	CreateDraftPage(ctx context.Context, title, weekKey, topic, status string) (string, error)
	SetThesisAngle(ctx context.Context, pageID, thesis string) error
	// AppendSection adds a heading plus the body split into block-sized
	// chunks.
	AppendSection(ctx context.Context, pageID, heading, body string) error
}

// PageFetcher retrieves raw HTML for a candidate URL.
type PageFetcher interface {
	FetchHTML(ctx context.Context, url string) (string, error)
}

// GenerationRequest describes one call to the text-generation service. The
// prompt is truncated to MaxInputTokens at the token level before submission.
type GenerationRequest struct {
	System          string
	Prompt          string
	Temperature     float32
	MaxInputTokens  int
	MaxOutputTokens int
}

// Generator issues one blocking text-generation call and returns the raw
// free-text output, which is expected (but not guaranteed) to contain JSON.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}
