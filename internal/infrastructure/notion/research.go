package notion

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ContentPipeline/internal/domain"
	"ContentPipeline/internal/ports"
)

// Research Library property names. They must match the hosted database
// schema exactly.
const (
	propTitle       = "Title"
	propURL         = "URL"
	propSource      = "Source"
	propPublished   = "Published Date"
	propSummary     = "Summary"
	propKeyClaims   = "Key Claims"
	propTags        = "Tags"
	propUsefulness  = "Usefulness Score"
	propUseInDraft  = "Use in Draft"
	propProcessed   = "Processed"
	propertyTextCap = 2000
)

// ResearchLibrary persists candidate rows in the research collection.
type ResearchLibrary struct {
	client *Client
	dbID   string
}

var _ ports.ResearchStore = (*ResearchLibrary)(nil)

// NewResearchLibrary binds a client to the research database id.
func NewResearchLibrary(client *Client, databaseID string) *ResearchLibrary {
	return &ResearchLibrary{client: client, dbID: databaseID}
}

// CreateCandidate inserts a fresh research row with Processed=false.
func (r *ResearchLibrary) CreateCandidate(ctx context.Context, c domain.Candidate) error {
	source := c.Source
	if source == "" {
		source = "Unknown"
	}

	props := map[string]any{
		propTitle:      titleProp(clip(c.Title, propertyTextCap)),
		propURL:        urlProp(c.URL),
		propSource:     selectProp(clip(source, 100)),
		propProcessed:  checkboxProp(false),
		propUseInDraft: checkboxProp(false),
	}
	if c.PublishedAt != nil {
		props[propPublished] = dateProp(c.PublishedAt.UTC().Format(time.RFC3339))
	}

	payload := map[string]any{
		"parent":     map[string]any{"database_id": r.dbID},
		"properties": props,
	}
	if err := r.client.do(ctx, http.MethodPost, "/v1/pages", payload, nil); err != nil {
		return fmt.Errorf("create research row: %w", err)
	}
	return nil
}

// UnprocessedCandidates pulls rows still awaiting summarization.
func (r *ResearchLibrary) UnprocessedCandidates(ctx context.Context, limit int) ([]domain.Candidate, error) {
	payload := map[string]any{
		"filter": map[string]any{
			"property": propProcessed,
			"checkbox": map[string]any{"equals": false},
		},
		"page_size": limit,
	}

	pages, err := r.client.queryDatabase(ctx, r.dbID, payload)
	if err != nil {
		return nil, fmt.Errorf("query unprocessed: %w", err)
	}
	return candidatesFromPages(pages), nil
}

// CompleteCandidate writes the summarization output back to the row. This is
// the single mutation a candidate receives.
func (r *ResearchLibrary) CompleteCandidate(ctx context.Context, id string, upd domain.CandidateUpdate) error {
	props := map[string]any{
		propSummary:    richTextProp(clip(upd.Summary, propertyTextCap)),
		propKeyClaims:  richTextProp(clip(upd.KeyClaims, propertyTextCap)),
		propTags:       multiSelectProp(upd.Tags),
		propUsefulness: numberProp(upd.Usefulness),
		propUseInDraft: checkboxProp(upd.UseInDraft),
		propProcessed:  checkboxProp(upd.Processed),
	}

	payload := map[string]any{"properties": props}
	if err := r.client.do(ctx, http.MethodPatch, "/v1/pages/"+id, payload, nil); err != nil {
		return fmt.Errorf("update research row %s: %w", id, err)
	}
	return nil
}

// DraftCandidates pulls the best draft-approved rows published on or after
// since, usefulness-descending.
func (r *ResearchLibrary) DraftCandidates(ctx context.Context, since time.Time, limit int) ([]domain.Candidate, error) {
	payload := map[string]any{
		"filter": map[string]any{
			"and": []any{
				map[string]any{"property": propProcessed, "checkbox": map[string]any{"equals": true}},
				map[string]any{"property": propUseInDraft, "checkbox": map[string]any{"equals": true}},
				map[string]any{"property": propPublished, "date": map[string]any{"on_or_after": since.UTC().Format("2006-01-02")}},
			},
		},
		"sorts": []any{
			map[string]any{"property": propUsefulness, "direction": "descending"},
		},
		"page_size": limit,
	}

	pages, err := r.client.queryDatabase(ctx, r.dbID, payload)
	if err != nil {
		return nil, fmt.Errorf("query draft sources: %w", err)
	}
	return candidatesFromPages(pages), nil
}

func candidatesFromPages(pages []page) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(pages))
	for _, p := range pages {
		out = append(out, candidateFromPage(p))
	}
	return out
}

func candidateFromPage(p page) domain.Candidate {
	props := p.Properties
	return domain.Candidate{
		ID:          p.ID,
		Title:       props[propTitle].text(),
		URL:         props[propURL].urlValue(),
		Source:      props[propSource].selectValue(),
		PublishedAt: props[propPublished].dateValue(),
		Summary:     props[propSummary].text(),
		KeyClaims:   props[propKeyClaims].text(),
		Tags:        props[propTags].tags(),
		Usefulness:  props[propUsefulness].numberValue(),
		UseInDraft:  props[propUseInDraft].checkboxValue(),
		Processed:   props[propProcessed].checkboxValue(),
	}
}
