package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"ContentPipeline/internal/domain"
	"ContentPipeline/internal/ports"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeFeedSource struct {
	entries []domain.FeedEntry
	err     error
}

func (f *fakeFeedSource) FetchEntries(ctx context.Context) ([]domain.FeedEntry, error) {
	return f.entries, f.err
}

type fakeDedupe struct {
	seen map[string]bool
}

func newFakeDedupe() *fakeDedupe {
	return &fakeDedupe{seen: map[string]bool{}}
}

func (f *fakeDedupe) Seen(ctx context.Context, url string) (bool, error) {
	return f.seen[url], nil
}

func (f *fakeDedupe) MarkSeen(ctx context.Context, url string) error {
	f.seen[url] = true
	return nil
}

func (f *fakeDedupe) Close() error { return nil }

type fakeResearch struct {
	created     []domain.Candidate
	createErrOn string

	unprocessed []domain.Candidate
	completed   map[string]domain.CandidateUpdate
	completeErr error

	draftPool  []domain.Candidate
	draftSince time.Time
	draftLimit int
}

func newFakeResearch() *fakeResearch {
	return &fakeResearch{completed: map[string]domain.CandidateUpdate{}}
}

func (f *fakeResearch) CreateCandidate(ctx context.Context, c domain.Candidate) error {
	if f.createErrOn != "" && c.URL == f.createErrOn {
		return errTestStore
	}
	f.created = append(f.created, c)
	return nil
}

func (f *fakeResearch) UnprocessedCandidates(ctx context.Context, limit int) ([]domain.Candidate, error) {
	if limit < len(f.unprocessed) {
		return f.unprocessed[:limit], nil
	}
	return f.unprocessed, nil
}

func (f *fakeResearch) CompleteCandidate(ctx context.Context, id string, upd domain.CandidateUpdate) error {
	if f.completeErr != nil {
		return f.completeErr
	}
	f.completed[id] = upd
	return nil
}

func (f *fakeResearch) DraftCandidates(ctx context.Context, since time.Time, limit int) ([]domain.Candidate, error) {
	f.draftSince = since
	f.draftLimit = limit
	return f.draftPool, nil
}

type queueSection struct {
	heading string
	body    string
}

type fakeQueue struct {
	existingPage string

	createdTitle  string
	createdWeek   string
	createdTopic  string
	createdStatus string
	thesis        string
	sections      []queueSection
}

func (f *fakeQueue) FindWeekPage(ctx context.Context, weekKey string) (string, error) {
	return f.existingPage, nil
}

func (f *fakeQueue) CreateDraftPage(ctx context.Context, title, weekKey, topic, status string) (string, error) {
	f.createdTitle = title
	f.createdWeek = weekKey
	f.createdTopic = topic
	f.createdStatus = status
	return "created-page", nil
}

func (f *fakeQueue) SetThesisAngle(ctx context.Context, pageID, thesis string) error {
	f.thesis = thesis
	return nil
}

func (f *fakeQueue) AppendSection(ctx context.Context, pageID, heading, body string) error {
	f.sections = append(f.sections, queueSection{heading: heading, body: body})
	return nil
}

type fakeFetcher struct {
	pages map[string]string
	errs  map[string]error
}

func (f *fakeFetcher) FetchHTML(ctx context.Context, url string) (string, error) {
	if err := f.errs[url]; err != nil {
		return "", err
	}
	return f.pages[url], nil
}

type fakeGenerator struct {
	response string
	err      error
	calls    int
	lastReq  ports.GenerationRequest
}

func (f *fakeGenerator) Generate(ctx context.Context, req ports.GenerationRequest) (string, error) {
	f.calls++
	f.lastReq = req
	return f.response, f.err
}

type testError string

func (e testError) Error() string { return string(e) }

const errTestStore = testError("store unavailable")

func mustCompleted(t *testing.T, research *fakeResearch, id string) domain.CandidateUpdate {
	t.Helper()
	upd, ok := research.completed[id]
	if !ok {
		t.Fatalf("candidate %s was not completed", id)
	}
	return upd
}
