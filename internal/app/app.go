package app

import (
	"context"
	"log/slog"
	"time"

	"ContentPipeline/internal/config"
	"ContentPipeline/internal/domain"
	"ContentPipeline/internal/extract"
	"ContentPipeline/internal/infrastructure/dedupe"
	"ContentPipeline/internal/infrastructure/feeds"
	"ContentPipeline/internal/infrastructure/llm"
	"ContentPipeline/internal/infrastructure/notion"
	"ContentPipeline/internal/logging"
	"ContentPipeline/internal/relevance"
	"ContentPipeline/internal/usecase"
)

// Application wires configuration into the three pipeline entry points.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	return &Application{cfg: cfg, logger: baseLogger}
}

// RunIngest polls the feeds once and creates fresh candidate rows.
func (a *Application) RunIngest(ctx context.Context) error {
	if err := a.cfg.ValidateIngest(); err != nil {
		return err
	}

	store, err := dedupe.Open(a.cfg.Ingest.DedupePath)
	if err != nil {
		return err
	}
	defer store.Close()

	client := notion.NewClient(a.cfg.Notion.BaseURL, a.cfg.Notion.Token)

	ingest := usecase.NewIngest(usecase.IngestDeps{
		Source:   feeds.NewPoller(a.cfg.Ingest.Feeds, a.logger.With("component", "feeds")),
		Dedupe:   store,
		Research: notion.NewResearchLibrary(client, a.cfg.Notion.ResearchDBID),
		Logger:   a.logger.With("component", "ingest"),
	}, usecase.IngestOptions{
		RecencyDays:   a.cfg.Ingest.RecencyDays,
		KeywordFilter: a.cfg.Ingest.KeywordFilter,
		Keywords:      a.cfg.Ingest.Keywords,
		MaxMatchChars: a.cfg.Ingest.MaxMatchTextChars,
	})

	_, err = ingest.Run(ctx, time.Now().UTC())
	return err
}

// RunSummarize processes one batch of unprocessed candidates.
func (a *Application) RunSummarize(ctx context.Context) error {
	if err := a.cfg.ValidateSummarize(); err != nil {
		return err
	}

	client := notion.NewClient(a.cfg.Notion.BaseURL, a.cfg.Notion.Token)

	summarize := usecase.NewSummarize(usecase.SummarizeDeps{
		Research:  notion.NewResearchLibrary(client, a.cfg.Notion.ResearchDBID),
		Fetcher:   extract.NewFetcher(nil),
		Generator: llm.NewClient(a.cfg.OpenAI.APIKey, a.cfg.OpenAI.Model, a.logger.With("component", "llm")),
		Logger:    a.logger.With("component", "summarize"),
	}, usecase.SummarizeOptions{
		BatchLimit:      a.cfg.Summarize.BatchLimit,
		MaxInputTokens:  a.cfg.Summarize.MaxInputTokens,
		MaxOutputTokens: a.cfg.Summarize.MaxOutputTokens,
		MinExcerptChars: a.cfg.Summarize.MinExcerptChars,
		MaxExcerptChars: a.cfg.Ingest.MaxMatchTextChars,
		Keywords:        a.cfg.Ingest.Keywords,
		SourceWeights:   sourceWeights(a.cfg.Scoring.SourceWeights),
		MinUsefulness:   a.cfg.Scoring.MinUsefulness,
		MinConfidence:   a.cfg.Scoring.MinConfidence,
	})

	_, err := summarize.Run(ctx, time.Now().UTC())
	return err
}

// RunWeeklyDraft assembles and persists at most one content package for the
// current week.
func (a *Application) RunWeeklyDraft(ctx context.Context) error {
	if err := a.cfg.ValidateDraft(); err != nil {
		return err
	}

	client := notion.NewClient(a.cfg.Notion.BaseURL, a.cfg.Notion.Token)

	weekly := usecase.NewWeeklyDraft(usecase.WeeklyDraftDeps{
		Research:  notion.NewResearchLibrary(client, a.cfg.Notion.ResearchDBID),
		Queue:     notion.NewContentQueue(client, a.cfg.Notion.QueueDBID),
		Generator: llm.NewClient(a.cfg.OpenAI.APIKey, a.cfg.OpenAI.Model, a.logger.With("component", "llm")),
		Logger:    a.logger.With("component", "weeklydraft"),
	}, usecase.WeeklyDraftOptions{
		LookbackDays:    a.cfg.Draft.LookbackDays,
		MaxSources:      a.cfg.Draft.MaxSources,
		MaxInputTokens:  a.cfg.Draft.MaxInputTokens,
		MaxOutputTokens: a.cfg.Draft.MaxOutputTokens,
		Topics:          topics(a.cfg.Topics),
	})

	return weekly.Run(ctx, time.Now().UTC())
}

func sourceWeights(cfg []config.SourceWeightConfig) []relevance.SourceWeight {
	weights := make([]relevance.SourceWeight, 0, len(cfg))
	for _, w := range cfg {
		weights = append(weights, relevance.SourceWeight{Match: w.Match, Factor: w.Factor})
	}
	return weights
}

func topics(cfg []config.TopicConfig) []domain.Topic {
	out := make([]domain.Topic, 0, len(cfg))
	for _, t := range cfg {
		out = append(out, domain.Topic{Name: t.Name, Keywords: t.Keywords, Angle: t.Angle})
	}
	return out
}
