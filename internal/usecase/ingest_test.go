package usecase

import (
	"context"
	"testing"
	"time"

	"ContentPipeline/internal/domain"
)

var ingestNow = time.Date(2026, time.August, 19, 12, 0, 0, 0, time.UTC)

func ts(t time.Time) *time.Time { return &t }

func defaultIngestOptions() IngestOptions {
	return IngestOptions{
		RecencyDays:   14,
		KeywordFilter: true,
		Keywords:      []string{"ai", "automation"},
		MaxMatchChars: 4000,
	}
}

func TestIngestRun(t *testing.T) {
	t.Parallel()

	entries := []domain.FeedEntry{
		{Title: "AI rollout today", URL: "https://example.com/fresh", FeedTitle: "HBR",
			Published: ts(ingestNow.Add(-2 * time.Hour))},
		{Title: "Automation last week", URL: "https://example.com/recent", FeedTitle: "MIT",
			Published: ts(ingestNow.AddDate(0, 0, -8))},
		{Title: "AI from long ago", URL: "https://example.com/stale", FeedTitle: "HBR",
			Published: ts(ingestNow.AddDate(0, 0, -40))},
		{Title: "AI undated", URL: "https://example.com/undated", FeedTitle: "HBR"},
		{Title: "AI already known", URL: "https://example.com/known", FeedTitle: "HBR",
			Published: ts(ingestNow.Add(-time.Hour))},
		{Title: "quarterly earnings recap", URL: "https://example.com/offtopic", FeedTitle: "HBR",
			Published: ts(ingestNow.Add(-time.Hour))},
		{Title: "no link"},
	}

	dedupe := newFakeDedupe()
	dedupe.seen["https://example.com/known"] = true
	research := newFakeResearch()

	ingest := NewIngest(IngestDeps{
		Source:   &fakeFeedSource{entries: entries},
		Dedupe:   dedupe,
		Research: research,
		Logger:   discardLogger(),
	}, defaultIngestOptions())

	stats, err := ingest.Run(context.Background(), ingestNow)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if stats.Ingested != 2 {
		t.Fatalf("expected 2 ingested, got %d", stats.Ingested)
	}
	if stats.SkippedSeen != 1 || stats.SkippedOld != 2 || stats.SkippedKeyword != 1 {
		t.Fatalf("unexpected skip counters: %+v", stats)
	}
	if stats.Errors != 0 {
		t.Fatalf("unexpected errors: %d", stats.Errors)
	}

	if len(research.created) != 2 {
		t.Fatalf("expected 2 created rows, got %d", len(research.created))
	}
	if research.created[0].URL != "https://example.com/fresh" {
		t.Fatalf("unexpected first row: %+v", research.created[0])
	}
	if research.created[0].Source != "HBR" {
		t.Fatalf("feed title not carried as source: %q", research.created[0].Source)
	}

	// Ingested URLs and keyword misses are marked; old entries stay unmarked
	// so a later widening of the window can still pick them up.
	if !dedupe.seen["https://example.com/fresh"] || !dedupe.seen["https://example.com/recent"] {
		t.Fatal("ingested URLs not marked seen")
	}
	if !dedupe.seen["https://example.com/offtopic"] {
		t.Fatal("keyword miss not marked seen")
	}
	if dedupe.seen["https://example.com/stale"] || dedupe.seen["https://example.com/undated"] {
		t.Fatal("recency-skipped URLs should not be marked seen")
	}
}

func TestIngestSecondRunSkipsEverything(t *testing.T) {
	t.Parallel()

	entries := []domain.FeedEntry{
		{Title: "AI one", URL: "https://example.com/one", FeedTitle: "HBR",
			Published: ts(ingestNow.Add(-time.Hour))},
		{Title: "AI two", URL: "https://example.com/two", FeedTitle: "HBR",
			Published: ts(ingestNow.Add(-time.Hour))},
	}

	dedupe := newFakeDedupe()
	research := newFakeResearch()
	ingest := NewIngest(IngestDeps{
		Source:   &fakeFeedSource{entries: entries},
		Dedupe:   dedupe,
		Research: research,
		Logger:   discardLogger(),
	}, defaultIngestOptions())

	first, err := ingest.Run(context.Background(), ingestNow)
	if err != nil {
		t.Fatalf("first Run error: %v", err)
	}
	if first.Ingested != 2 {
		t.Fatalf("expected 2 ingested on first run, got %d", first.Ingested)
	}

	second, err := ingest.Run(context.Background(), ingestNow)
	if err != nil {
		t.Fatalf("second Run error: %v", err)
	}
	if second.Ingested != 0 || second.SkippedSeen != 2 {
		t.Fatalf("second run not fully deduplicated: %+v", second)
	}
	if len(research.created) != 2 {
		t.Fatalf("rows duplicated across runs: %d", len(research.created))
	}
}

func TestIngestCreateFailureLeavesURLRetryable(t *testing.T) {
	t.Parallel()

	entries := []domain.FeedEntry{
		{Title: "AI failing", URL: "https://example.com/fail", FeedTitle: "HBR",
			Published: ts(ingestNow.Add(-time.Hour))},
		{Title: "AI passing", URL: "https://example.com/pass", FeedTitle: "HBR",
			Published: ts(ingestNow.Add(-time.Hour))},
	}

	dedupe := newFakeDedupe()
	research := newFakeResearch()
	research.createErrOn = "https://example.com/fail"

	ingest := NewIngest(IngestDeps{
		Source:   &fakeFeedSource{entries: entries},
		Dedupe:   dedupe,
		Research: research,
		Logger:   discardLogger(),
	}, defaultIngestOptions())

	stats, err := ingest.Run(context.Background(), ingestNow)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if stats.Errors != 1 || stats.Ingested != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	// The failed URL must stay unmarked so the next run retries it.
	if dedupe.seen["https://example.com/fail"] {
		t.Fatal("failed URL was marked seen")
	}
	if !dedupe.seen["https://example.com/pass"] {
		t.Fatal("successful URL not marked seen")
	}
}

func TestIngestTitleFallsBackToURL(t *testing.T) {
	t.Parallel()

	entries := []domain.FeedEntry{
		{Title: "  ", URL: "https://example.com/untitled", FeedTitle: "HBR",
			Summary:   "an ai summary that satisfies the keyword filter",
			Published: ts(ingestNow.Add(-time.Hour))},
	}

	research := newFakeResearch()
	ingest := NewIngest(IngestDeps{
		Source:   &fakeFeedSource{entries: entries},
		Dedupe:   newFakeDedupe(),
		Research: research,
		Logger:   discardLogger(),
	}, defaultIngestOptions())

	if _, err := ingest.Run(context.Background(), ingestNow); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(research.created) != 1 {
		t.Fatalf("expected 1 created row, got %d", len(research.created))
	}
	if research.created[0].Title != "https://example.com/untitled" {
		t.Fatalf("title did not fall back to URL: %q", research.created[0].Title)
	}
}

func TestIngestKeywordFilterDisabled(t *testing.T) {
	t.Parallel()

	entries := []domain.FeedEntry{
		{Title: "nothing relevant here", URL: "https://example.com/any", FeedTitle: "HBR",
			Published: ts(ingestNow.Add(-time.Hour))},
	}

	opts := defaultIngestOptions()
	opts.KeywordFilter = false

	research := newFakeResearch()
	ingest := NewIngest(IngestDeps{
		Source:   &fakeFeedSource{entries: entries},
		Dedupe:   newFakeDedupe(),
		Research: research,
		Logger:   discardLogger(),
	}, opts)

	stats, err := ingest.Run(context.Background(), ingestNow)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if stats.Ingested != 1 || stats.SkippedKeyword != 0 {
		t.Fatalf("unexpected stats with filter off: %+v", stats)
	}
}
