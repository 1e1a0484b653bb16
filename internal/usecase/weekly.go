package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ContentPipeline/internal/domain"
	"ContentPipeline/internal/jsonextract"
	"ContentPipeline/internal/ports"
	"ContentPipeline/internal/rotation"
	"ContentPipeline/internal/selection"
)

const (
	packageTemperature = 0.3
	minCandidatePool   = 20
	draftStatus        = "Draft"
)

// WeeklyDraftDeps wires the driven adapters into the weekly build.
type WeeklyDraftDeps struct {
	Research  ports.ResearchStore
	Queue     ports.QueueStore
	Generator ports.Generator
	Logger    *slog.Logger
}

// WeeklyDraftOptions tunes the lookback window, selection size and budgets.
type WeeklyDraftOptions struct {
	LookbackDays    int
	MaxSources      int
	MaxInputTokens  int
	MaxOutputTokens int
	Topics          []domain.Topic
}

// WeeklyDraft assembles one content package per calendar week. An existing
// page for the week or an empty candidate pool is a successful no-op;
// generation and persistence errors abort the run, which is safe to
// re-trigger thanks to the week-key duplicate check.
type WeeklyDraft struct {
	research  ports.ResearchStore
	queue     ports.QueueStore
	generator ports.Generator
	logger    *slog.Logger
	opts      WeeklyDraftOptions
}

// NewWeeklyDraft constructs the weekly build.
func NewWeeklyDraft(deps WeeklyDraftDeps, opts WeeklyDraftOptions) *WeeklyDraft {
	return &WeeklyDraft{
		research:  deps.Research,
		queue:     deps.Queue,
		generator: deps.Generator,
		logger:    deps.Logger,
		opts:      opts,
	}
}

// Run executes the weekly pipeline once for the week containing now.
func (w *WeeklyDraft) Run(ctx context.Context, now time.Time) error {
	weekKey := rotation.WeekKey(now)

	existing, err := w.queue.FindWeekPage(ctx, weekKey)
	if err != nil {
		return fmt.Errorf("week lookup: %w", err)
	}
	if existing != "" {
		w.logger.Info("draft already exists for week", "week_of", weekKey, "page_id", existing)
		return nil
	}

	topic := rotation.TopicForWeek(rotation.WeekOf(now), w.opts.Topics)
	w.logger.Info("weekly topic selected", "topic", topic.Name, "week_of", weekKey)

	since := now.AddDate(0, 0, -w.opts.LookbackDays)
	pool, err := w.research.DraftCandidates(ctx, since, max(minCandidatePool, w.opts.MaxSources*3))
	if err != nil {
		return fmt.Errorf("query draft candidates: %w", err)
	}
	if len(pool) == 0 {
		w.logger.Info("no draft-ready candidates in lookback window",
			"lookback_days", w.opts.LookbackDays)
		return nil
	}

	selected := selection.Select(pool, topic, w.opts.MaxSources)

	pkg, err := w.generatePackage(ctx, topic, selected)
	if err != nil {
		return err
	}

	pageID, err := w.queue.CreateDraftPage(ctx, pkg.ArticleTitle, weekKey, topic.Name, draftStatus)
	if err != nil {
		return fmt.Errorf("persist draft page: %w", err)
	}
	if err := w.queue.SetThesisAngle(ctx, pageID, pkg.ThesisAngle); err != nil {
		return fmt.Errorf("set page properties: %w", err)
	}

	sections := []struct {
		heading string
		body    string
	}{
		{"Weekly Topic", topic.Name},
		{"Thesis Angle", pkg.ThesisAngle},
		{"Long-form Article", pkg.LongForm},
		{"Companion Posts", strings.Join(pkg.CompanionPosts, "\n\n---\n\n")},
		{"Comment Prompts", promptLines(pkg.CommentPrompts)},
		{"Sources", formatSources(pkg.Sources)},
	}
	for _, section := range sections {
		if err := w.queue.AppendSection(ctx, pageID, section.heading, section.body); err != nil {
			return fmt.Errorf("append %q: %w", section.heading, err)
		}
	}

	w.logger.Info("weekly draft created",
		"week_of", weekKey,
		"title", pkg.ArticleTitle,
		"page_id", pageID)
	return nil
}

func (w *WeeklyDraft) generatePackage(ctx context.Context, topic domain.Topic, sources []domain.Candidate) (domain.WeeklyPackage, error) {
	prompt, err := packagePrompt(topic, sources)
	if err != nil {
		return domain.WeeklyPackage{}, err
	}

	raw, err := w.generator.Generate(ctx, ports.GenerationRequest{
		System:          systemPrompt,
		Prompt:          prompt,
		Temperature:     packageTemperature,
		MaxInputTokens:  w.opts.MaxInputTokens,
		MaxOutputTokens: w.opts.MaxOutputTokens,
	})
	if err != nil {
		return domain.WeeklyPackage{}, fmt.Errorf("generate package: %w", err)
	}

	obj, err := jsonextract.Extract(raw)
	if err != nil {
		var parseErr *jsonextract.UnparseableError
		if errors.As(err, &parseErr) {
			w.logger.Error("unparseable package output", "snippet", parseErr.Snippet)
		}
		return domain.WeeklyPackage{}, fmt.Errorf("recover package JSON: %w", err)
	}
	return packageFromObject(obj)
}

func packageFromObject(obj map[string]any) (domain.WeeklyPackage, error) {
	pkg := domain.WeeklyPackage{
		ArticleTitle:   jsonextract.String(obj, "article_title"),
		ThesisAngle:    jsonextract.String(obj, "thesis_angle"),
		LongForm:       jsonextract.String(obj, "long_form_article"),
		CompanionPosts: jsonextract.Strings(obj, "companion_posts"),
		CommentPrompts: jsonextract.Strings(obj, "comment_prompts"),
	}
	for _, src := range jsonextract.Objects(obj, "sources") {
		pkg.Sources = append(pkg.Sources, domain.SourceRef{
			Title: jsonextract.String(src, "title"),
			URL:   jsonextract.String(src, "url"),
		})
	}

	if pkg.ArticleTitle == "" {
		return domain.WeeklyPackage{}, fmt.Errorf("package missing article_title")
	}
	if pkg.LongForm == "" {
		return domain.WeeklyPackage{}, fmt.Errorf("package missing long_form_article")
	}
	return pkg, nil
}

func promptLines(prompts []string) string {
	lines := make([]string, 0, len(prompts))
	for _, p := range prompts {
		lines = append(lines, "- "+strings.TrimSpace(p))
	}
	return strings.Join(lines, "\n")
}

func formatSources(sources []domain.SourceRef) string {
	var lines []string
	for _, s := range sources {
		title := strings.TrimSpace(s.Title)
		url := strings.TrimSpace(s.URL)
		if url == "" {
			continue
		}
		if title != "" {
			lines = append(lines, fmt.Sprintf("- %s — %s", title, url))
		} else {
			lines = append(lines, "- "+url)
		}
	}
	return strings.Join(lines, "\n")
}
