package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ContentPipeline/internal/domain"
	"ContentPipeline/internal/extract"
	"ContentPipeline/internal/jsonextract"
	"ContentPipeline/internal/ports"
	"ContentPipeline/internal/relevance"
)

const (
	summaryTemperature = 0.2
	bulletTextCap      = 1900
	tagFallbackLimit   = 6
	defaultConfidence  = 0.5
)

// SummarizeDeps wires the driven adapters into the summarization batch.
type SummarizeDeps struct {
	Research  ports.ResearchStore
	Fetcher   ports.PageFetcher
	Generator ports.Generator
	Logger    *slog.Logger
}

// SummarizeOptions tunes batching, budgets and the approval gate.
type SummarizeOptions struct {
	BatchLimit      int
	MaxInputTokens  int
	MaxOutputTokens int
	MinExcerptChars int
	MaxExcerptChars int
	Keywords        []string
	SourceWeights   []relevance.SourceWeight
	MinUsefulness   float64
	MinConfidence   float64
}

// SummarizeStats summarizes one batch run.
type SummarizeStats struct {
	Processed int
	Skipped   int
	Errors    int
}

// Summarize scores and summarizes unprocessed candidates, one generation
// call each. Failures leave the candidate unprocessed for the next run; no
// in-process retries.
type Summarize struct {
	research  ports.ResearchStore
	fetcher   ports.PageFetcher
	generator ports.Generator
	logger    *slog.Logger
	opts      SummarizeOptions
}

// NewSummarize constructs the summarization batch.
func NewSummarize(deps SummarizeDeps, opts SummarizeOptions) *Summarize {
	return &Summarize{
		research:  deps.Research,
		fetcher:   deps.Fetcher,
		generator: deps.Generator,
		logger:    deps.Logger,
		opts:      opts,
	}
}

// Run processes one batch. Per-candidate errors are logged and isolated; one
// failing candidate never aborts the batch.
func (s *Summarize) Run(ctx context.Context, now time.Time) (SummarizeStats, error) {
	var stats SummarizeStats

	candidates, err := s.research.UnprocessedCandidates(ctx, s.opts.BatchLimit)
	if err != nil {
		return stats, fmt.Errorf("query unprocessed: %w", err)
	}
	if len(candidates) == 0 {
		s.logger.Info("no unprocessed candidates, nothing to do")
		return stats, nil
	}

	for _, c := range candidates {
		if c.URL == "" {
			// A row without a URL can never be summarized; retire it so it
			// stops clogging the retry pool.
			upd := domain.CandidateUpdate{Summary: "(No URL found; skipped.)", Processed: true}
			if err := s.research.CompleteCandidate(ctx, c.ID, upd); err != nil {
				stats.Errors++
				s.logger.Error("retire url-less row failed", "id", c.ID, "error", err)
				continue
			}
			stats.Skipped++
			s.logger.Warn("candidate has no URL, marked processed", "id", c.ID)
			continue
		}

		if err := s.summarizeOne(ctx, c, now); err != nil {
			stats.Errors++
			s.logFailure(c, err)
			continue
		}
		stats.Processed++
	}

	s.logger.Info("summarize complete",
		"processed", stats.Processed,
		"skipped", stats.Skipped,
		"errors", stats.Errors)

	return stats, nil
}

func (s *Summarize) summarizeOne(ctx context.Context, c domain.Candidate, now time.Time) error {
	html, err := s.fetcher.FetchHTML(ctx, c.URL)
	if err != nil {
		return err
	}

	blocks, err := extract.ExtractBlocks(html)
	if err != nil {
		return err
	}

	title := c.Title
	if title == "" {
		title = blocks.Title
	}
	if title == "" {
		title = c.URL
	}

	excerpt := extract.BuildExcerpt(title, blocks, s.opts.Keywords, s.opts.MaxExcerptChars)
	if len(excerpt) < s.opts.MinExcerptChars {
		return &extract.InsufficientContentError{URL: c.URL, Length: len(excerpt)}
	}

	score, matched := relevance.Score(title, excerpt, c.Source, c.PublishedAt, now,
		s.opts.Keywords, s.opts.SourceWeights)

	raw, err := s.generator.Generate(ctx, ports.GenerationRequest{
		System:          systemPrompt,
		Prompt:          summaryPrompt(title, c.URL, excerpt),
		Temperature:     summaryTemperature,
		MaxInputTokens:  s.opts.MaxInputTokens,
		MaxOutputTokens: s.opts.MaxOutputTokens,
	})
	if err != nil {
		return fmt.Errorf("generate summary: %w", err)
	}

	obj, err := jsonextract.Extract(raw)
	if err != nil {
		return err
	}
	result := summaryFromObject(obj, matched)

	upd := domain.CandidateUpdate{
		Summary:    bulletLines(result.Bullets),
		KeyClaims:  bulletLines(result.Claims),
		Tags:       result.Tags,
		Usefulness: score,
		UseInDraft: relevance.Approve(score, result.Confidence, s.opts.MinUsefulness, s.opts.MinConfidence),
		Processed:  true,
	}
	if err := s.research.CompleteCandidate(ctx, c.ID, upd); err != nil {
		return fmt.Errorf("update candidate: %w", err)
	}

	s.logger.Info("candidate summarized",
		"title", extract.Truncate(title, 70),
		"score", score,
		"confidence", result.Confidence,
		"use_in_draft", upd.UseInDraft)
	return nil
}

func (s *Summarize) logFailure(c domain.Candidate, err error) {
	var (
		fetchErr   *extract.FetchError
		contentErr *extract.InsufficientContentError
		parseErr   *jsonextract.UnparseableError
	)
	switch {
	case errors.As(err, &fetchErr):
		s.logger.Warn("page fetch failed, will retry next run", "url", c.URL, "error", err)
	case errors.As(err, &contentErr):
		s.logger.Warn("insufficient content, likely paywalled or blocked",
			"url", c.URL, "chars", contentErr.Length)
	case errors.As(err, &parseErr):
		s.logger.Warn("unparseable model output, will retry next run",
			"url", c.URL, "snippet", parseErr.Snippet)
	default:
		s.logger.Error("summarize candidate failed", "url", c.URL, "error", err)
	}
}

func summaryFromObject(obj map[string]any, matchedKeywords []string) domain.SummaryResult {
	result := domain.SummaryResult{
		Bullets:    jsonextract.Strings(obj, "summary_bullets"),
		Claims:     jsonextract.Strings(obj, "key_claims"),
		Tags:       jsonextract.Strings(obj, "tags"),
		Confidence: jsonextract.Float(obj, "confidence", defaultConfidence),
	}
	if len(result.Tags) == 0 && len(matchedKeywords) > 0 {
		result.Tags = matchedKeywords[:min(tagFallbackLimit, len(matchedKeywords))]
	}
	return result
}

func bulletLines(items []string) string {
	var b []byte
	for i, item := range items {
		if i > 0 {
			b = append(b, '\n')
		}
		b = append(b, "- "...)
		b = append(b, item...)
	}
	return extract.Truncate(string(b), bulletTextCap)
}
