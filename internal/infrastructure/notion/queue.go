package notion

import (
	"context"
	"fmt"
	"net/http"

	"ContentPipeline/internal/ports"
)

// Content Queue property names.
const (
	queuePropTitle  = "Title"
	queuePropWeekOf = "Week Of"
	queuePropTopic  = "Topic"
	queuePropStatus = "Status"
	queuePropThesis = "Thesis Angle"
)

// ContentQueue persists weekly draft pages. Pages are write-once; the weekly
// duplicate check keys on the Week Of date.
type ContentQueue struct {
	client *Client
	dbID   string
}

var _ ports.QueueStore = (*ContentQueue)(nil)

// NewContentQueue binds a client to the queue database id.
func NewContentQueue(client *Client, databaseID string) *ContentQueue {
	return &ContentQueue{client: client, dbID: databaseID}
}

// FindWeekPage returns the existing page id for weekKey, or "" when the week
// has no draft. The read-then-create window is only safe under a single
// writer; concurrent runs would need a store-level unique constraint.
func (q *ContentQueue) FindWeekPage(ctx context.Context, weekKey string) (string, error) {
	payload := map[string]any{
		"filter": map[string]any{
			"property": queuePropWeekOf,
			"date":     map[string]any{"equals": weekKey},
		},
		"page_size": 1,
	}

	pages, err := q.client.queryDatabase(ctx, q.dbID, payload)
	if err != nil {
		return "", fmt.Errorf("find week page: %w", err)
	}
	if len(pages) == 0 {
		return "", nil
	}
	return pages[0].ID, nil
}

// CreateDraftPage creates the week's page with its short properties and
// returns the new page id.
func (q *ContentQueue) CreateDraftPage(ctx context.Context, title, weekKey, topic, status string) (string, error) {
	payload := map[string]any{
		"parent": map[string]any{"database_id": q.dbID},
		"properties": map[string]any{
			queuePropTitle:  titleProp(clip(title, propertyTextCap)),
			queuePropWeekOf: dateProp(weekKey),
			queuePropTopic:  selectProp(clip(topic, 100)),
			queuePropStatus: selectProp(status),
		},
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := q.client.do(ctx, http.MethodPost, "/v1/pages", payload, &created); err != nil {
		return "", fmt.Errorf("create draft page: %w", err)
	}
	return created.ID, nil
}

// SetThesisAngle stores the table-visible thesis snippet; the full package
// body goes in as blocks.
func (q *ContentQueue) SetThesisAngle(ctx context.Context, pageID, thesis string) error {
	payload := map[string]any{
		"properties": map[string]any{
			queuePropThesis: richTextProp(clip(thesis, propertyTextCap)),
		},
	}
	if err := q.client.do(ctx, http.MethodPatch, "/v1/pages/"+pageID, payload, nil); err != nil {
		return fmt.Errorf("set thesis angle: %w", err)
	}
	return nil
}

// AppendSection appends one heading block followed by the body split into
// chunked paragraph blocks.
func (q *ContentQueue) AppendSection(ctx context.Context, pageID, heading, body string) error {
	children := []any{
		map[string]any{
			"object": "block",
			"type":   "heading_2",
			"heading_2": map[string]any{
				"rich_text": []any{map[string]any{"type": "text", "text": map[string]any{"content": heading}}},
			},
		},
	}

	for _, chunk := range ChunkText(body, blockChunkLimit) {
		children = append(children, map[string]any{
			"object": "block",
			"type":   "paragraph",
			"paragraph": map[string]any{
				"rich_text": []any{map[string]any{"type": "text", "text": map[string]any{"content": chunk}}},
			},
		})
	}

	payload := map[string]any{"children": children}
	if err := q.client.do(ctx, http.MethodPatch, "/v1/blocks/"+pageID+"/children", payload, nil); err != nil {
		return fmt.Errorf("append section %q: %w", heading, err)
	}
	return nil
}
