package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ContentPipeline/internal/domain"
	"ContentPipeline/internal/extract"
	"ContentPipeline/internal/ports"
)

// IngestDeps wires the driven adapters into the ingest pipeline.
type IngestDeps struct {
	Source   ports.FeedSource
	Dedupe   ports.DedupeStore
	Research ports.ResearchStore
	Logger   *slog.Logger
}

// IngestOptions tunes recency, keyword filtering and text caps.
type IngestOptions struct {
	RecencyDays   int
	KeywordFilter bool
	Keywords      []string
	MaxMatchChars int
}

// IngestStats summarizes one ingest run.
type IngestStats struct {
	Ingested       int
	SkippedSeen    int
	SkippedOld     int
	SkippedKeyword int
	Errors         int
}

// Ingest pulls feed entries through the dedupe gate and creates fresh
// candidate rows.
type Ingest struct {
	source   ports.FeedSource
	dedupe   ports.DedupeStore
	research ports.ResearchStore
	logger   *slog.Logger
	opts     IngestOptions
}

// NewIngest constructs the ingest pipeline.
func NewIngest(deps IngestDeps, opts IngestOptions) *Ingest {
	return &Ingest{
		source:   deps.Source,
		dedupe:   deps.Dedupe,
		research: deps.Research,
		logger:   deps.Logger,
		opts:     opts,
	}
}

// Run polls every feed once. A failing store write counts as an error but
// never aborts the batch; dedupe failures do abort, since continuing without
// the gate would re-ingest everything.
func (i *Ingest) Run(ctx context.Context, now time.Time) (IngestStats, error) {
	var stats IngestStats

	entries, err := i.source.FetchEntries(ctx)
	if err != nil {
		return stats, fmt.Errorf("fetch feeds: %w", err)
	}

	cutoff := now.AddDate(0, 0, -i.opts.RecencyDays)

	for _, entry := range entries {
		if entry.URL == "" {
			continue
		}

		seen, err := i.dedupe.Seen(ctx, entry.URL)
		if err != nil {
			return stats, fmt.Errorf("dedupe lookup: %w", err)
		}
		if seen {
			stats.SkippedSeen++
			continue
		}

		if entry.Published == nil || entry.Published.Before(cutoff) {
			stats.SkippedOld++
			continue
		}

		title := strings.TrimSpace(entry.Title)
		summary := extract.Truncate(strings.TrimSpace(entry.Summary), i.opts.MaxMatchChars)

		if i.opts.KeywordFilter && !matchesKeywords(title, summary, i.opts.Keywords) {
			stats.SkippedKeyword++
			// Mark seen so the same noise is not re-examined every run.
			if err := i.dedupe.MarkSeen(ctx, entry.URL); err != nil {
				return stats, fmt.Errorf("mark seen: %w", err)
			}
			continue
		}

		if title == "" {
			title = entry.URL
		}

		candidate := domain.Candidate{
			Title:       title,
			URL:         entry.URL,
			Source:      entry.FeedTitle,
			PublishedAt: entry.Published,
		}
		if err := i.research.CreateCandidate(ctx, candidate); err != nil {
			stats.Errors++
			i.logger.Error("create research row failed", "url", entry.URL, "error", err)
			continue
		}
		stats.Ingested++

		if err := i.dedupe.MarkSeen(ctx, entry.URL); err != nil {
			return stats, fmt.Errorf("mark seen: %w", err)
		}
	}

	i.logger.Info("ingest complete",
		"ingested", stats.Ingested,
		"skipped_seen", stats.SkippedSeen,
		"skipped_old", stats.SkippedOld,
		"skipped_kw", stats.SkippedKeyword,
		"errors", stats.Errors)

	return stats, nil
}

func matchesKeywords(title, summary string, keywords []string) bool {
	haystack := strings.ToLower(title + "\n" + summary)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
