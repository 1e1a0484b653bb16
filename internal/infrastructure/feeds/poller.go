// Package feeds pulls candidate entries from the configured RSS feeds.
package feeds

import (
	"context"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"ContentPipeline/internal/domain"
	"ContentPipeline/internal/ports"
)

// Poller fetches and flattens the feed list. A failing feed is logged and
// skipped so one dead endpoint never blocks the whole ingest run.
type Poller struct {
	urls   []string
	parser *gofeed.Parser
	policy *bluemonday.Policy
	logger *slog.Logger
}

var _ ports.FeedSource = (*Poller)(nil)

// NewPoller wires a gofeed parser over the feed URL list.
func NewPoller(urls []string, logger *slog.Logger) *Poller {
	parser := gofeed.NewParser()
	parser.UserAgent = "ContentPipeline/1.0"
	return &Poller{
		urls:   urls,
		parser: parser,
		policy: bluemonday.StrictPolicy(),
		logger: logger,
	}
}

// FetchEntries polls every configured feed once and returns the flattened
// entries with sanitized summaries and UTC timestamps.
func (p *Poller) FetchEntries(ctx context.Context) ([]domain.FeedEntry, error) {
	var entries []domain.FeedEntry
	for _, u := range p.urls {
		feed, err := p.parser.ParseURLWithContext(u, ctx)
		if err != nil {
			p.logger.Warn("feed fetch failed", "feed", u, "error", err)
			continue
		}

		feedTitle := strings.TrimSpace(feed.Title)
		if feedTitle == "" {
			feedTitle = "Unknown"
		}

		for _, item := range feed.Items {
			if item == nil || strings.TrimSpace(item.Link) == "" {
				continue
			}
			entries = append(entries, domain.FeedEntry{
				Title:     strings.TrimSpace(item.Title),
				URL:       strings.TrimSpace(item.Link),
				Summary:   p.plainText(item.Description, item.Content),
				FeedTitle: feedTitle,
				Published: publishedAt(item),
			})
		}
		p.logger.Debug("feed polled", "feed", u, "items", len(feed.Items))
	}
	return entries, nil
}

// plainText strips markup from the feed-provided summary so keyword matching
// sees readable text.
func (p *Poller) plainText(description, content string) string {
	s := description
	if strings.TrimSpace(s) == "" {
		s = content
	}
	s = p.policy.Sanitize(s)
	return strings.TrimSpace(html.UnescapeString(s))
}

func publishedAt(item *gofeed.Item) *time.Time {
	parsed := item.PublishedParsed
	if parsed == nil {
		parsed = item.UpdatedParsed
	}
	if parsed == nil {
		return nil
	}
	t := parsed.UTC()
	return &t
}
