package notion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ContentPipeline/internal/domain"
)

type recordedRequest struct {
	method string
	path   string
	body   map[string]any
}

// storeServer fakes the document store API and records every request.
func storeServer(t *testing.T, respond func(r *http.Request) (int, string)) (*httptest.Server, *[]recordedRequest) {
	t.Helper()

	var calls []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret-token" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		if got := r.Header.Get("Notion-Version"); got == "" {
			t.Error("missing Notion-Version header")
		}

		var body map[string]any
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}
		calls = append(calls, recordedRequest{method: r.Method, path: r.URL.Path, body: body})

		status, payload := respond(r)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}))
	return server, &calls
}

func TestCreateCandidate(t *testing.T) {
	t.Parallel()

	server, calls := storeServer(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `{"id": "new-page"}`
	})
	defer server.Close()

	lib := NewResearchLibrary(NewClient(server.URL, "secret-token"), "research-db")

	published := time.Date(2026, time.August, 17, 10, 0, 0, 0, time.UTC)
	err := lib.CreateCandidate(context.Background(), domain.Candidate{
		Title:       "A Post",
		URL:         "https://example.com/a",
		PublishedAt: &published,
	})
	if err != nil {
		t.Fatalf("CreateCandidate error: %v", err)
	}

	if len(*calls) != 1 {
		t.Fatalf("expected 1 request, got %d", len(*calls))
	}
	call := (*calls)[0]
	if call.method != http.MethodPost || call.path != "/v1/pages" {
		t.Fatalf("unexpected request: %s %s", call.method, call.path)
	}

	parent, _ := call.body["parent"].(map[string]any)
	if parent["database_id"] != "research-db" {
		t.Fatalf("unexpected parent: %v", parent)
	}

	props, _ := call.body["properties"].(map[string]any)
	if _, ok := props["Published Date"]; !ok {
		t.Fatal("missing Published Date property")
	}
	source, _ := props["Source"].(map[string]any)
	sel, _ := source["select"].(map[string]any)
	if sel["name"] != "Unknown" {
		t.Fatalf("empty source not defaulted: %v", sel)
	}
}

func TestUnprocessedCandidatesDecoding(t *testing.T) {
	t.Parallel()

	const response = `{
	  "results": [
	    {
	      "id": "page-1",
	      "properties": {
	        "Title": {"type": "title", "title": [{"plain_text": "Agents "}, {"plain_text": "at Work"}]},
	        "URL": {"type": "url", "url": "https://example.com/a"},
	        "Source": {"type": "select", "select": {"name": "HBR"}},
	        "Published Date": {"type": "date", "date": {"start": "2026-08-17"}},
	        "Usefulness Score": {"type": "number", "number": 84.5},
	        "Tags": {"type": "multi_select", "multi_select": [{"name": "ai"}, {"name": "agents"}]},
	        "Use in Draft": {"type": "checkbox", "checkbox": true},
	        "Processed": {"type": "checkbox", "checkbox": false}
	      }
	    }
	  ]
	}`

	server, calls := storeServer(t, func(r *http.Request) (int, string) {
		return http.StatusOK, response
	})
	defer server.Close()

	lib := NewResearchLibrary(NewClient(server.URL, "secret-token"), "research-db")
	candidates, err := lib.UnprocessedCandidates(context.Background(), 15)
	if err != nil {
		t.Fatalf("UnprocessedCandidates error: %v", err)
	}

	call := (*calls)[0]
	if call.path != "/v1/databases/research-db/query" {
		t.Fatalf("unexpected path: %s", call.path)
	}
	if call.body["page_size"] != float64(15) {
		t.Fatalf("unexpected page_size: %v", call.body["page_size"])
	}

	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	c := candidates[0]
	if c.ID != "page-1" || c.Title != "Agents at Work" || c.URL != "https://example.com/a" {
		t.Fatalf("unexpected candidate: %+v", c)
	}
	if c.Source != "HBR" || c.Usefulness != 84.5 || !c.UseInDraft || c.Processed {
		t.Fatalf("unexpected candidate fields: %+v", c)
	}
	if c.PublishedAt == nil || c.PublishedAt.Format("2006-01-02") != "2026-08-17" {
		t.Fatalf("unexpected published date: %v", c.PublishedAt)
	}
	if len(c.Tags) != 2 {
		t.Fatalf("unexpected tags: %v", c.Tags)
	}
}

func TestCompleteCandidate(t *testing.T) {
	t.Parallel()

	server, calls := storeServer(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `{}`
	})
	defer server.Close()

	lib := NewResearchLibrary(NewClient(server.URL, "secret-token"), "research-db")
	err := lib.CompleteCandidate(context.Background(), "page-9", domain.CandidateUpdate{
		Summary:    "- point one",
		Usefulness: 72,
		UseInDraft: true,
		Processed:  true,
	})
	if err != nil {
		t.Fatalf("CompleteCandidate error: %v", err)
	}

	call := (*calls)[0]
	if call.method != http.MethodPatch || call.path != "/v1/pages/page-9" {
		t.Fatalf("unexpected request: %s %s", call.method, call.path)
	}
	props, _ := call.body["properties"].(map[string]any)
	processed, _ := props["Processed"].(map[string]any)
	if processed["checkbox"] != true {
		t.Fatalf("Processed not set: %v", props)
	}
}

func TestDraftCandidatesFilter(t *testing.T) {
	t.Parallel()

	server, calls := storeServer(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `{"results": []}`
	})
	defer server.Close()

	lib := NewResearchLibrary(NewClient(server.URL, "secret-token"), "research-db")
	since := time.Date(2026, time.August, 5, 13, 0, 0, 0, time.UTC)
	if _, err := lib.DraftCandidates(context.Background(), since, 20); err != nil {
		t.Fatalf("DraftCandidates error: %v", err)
	}

	raw, _ := json.Marshal((*calls)[0].body)
	body := string(raw)
	if !strings.Contains(body, `"on_or_after":"2026-08-05"`) {
		t.Fatalf("missing date filter: %s", body)
	}
	if !strings.Contains(body, `"direction":"descending"`) {
		t.Fatalf("missing usefulness sort: %s", body)
	}
}

func TestFindWeekPage(t *testing.T) {
	t.Parallel()

	server, _ := storeServer(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `{"results": [{"id": "existing-page"}]}`
	})
	defer server.Close()

	queue := NewContentQueue(NewClient(server.URL, "secret-token"), "queue-db")
	id, err := queue.FindWeekPage(context.Background(), "2026-08-17")
	if err != nil {
		t.Fatalf("FindWeekPage error: %v", err)
	}
	if id != "existing-page" {
		t.Fatalf("unexpected page id: %s", id)
	}
}

func TestFindWeekPageEmpty(t *testing.T) {
	t.Parallel()

	server, _ := storeServer(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `{"results": []}`
	})
	defer server.Close()

	queue := NewContentQueue(NewClient(server.URL, "secret-token"), "queue-db")
	id, err := queue.FindWeekPage(context.Background(), "2026-08-17")
	if err != nil {
		t.Fatalf("FindWeekPage error: %v", err)
	}
	if id != "" {
		t.Fatalf("expected empty id, got %s", id)
	}
}

func TestCreateDraftPageReturnsID(t *testing.T) {
	t.Parallel()

	server, calls := storeServer(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `{"id": "draft-page-1"}`
	})
	defer server.Close()

	queue := NewContentQueue(NewClient(server.URL, "secret-token"), "queue-db")
	id, err := queue.CreateDraftPage(context.Background(), "Weekly Draft", "2026-08-17", "AI agents", "Draft")
	if err != nil {
		t.Fatalf("CreateDraftPage error: %v", err)
	}
	if id != "draft-page-1" {
		t.Fatalf("unexpected id: %s", id)
	}

	props, _ := (*calls)[0].body["properties"].(map[string]any)
	weekOf, _ := props["Week Of"].(map[string]any)
	date, _ := weekOf["date"].(map[string]any)
	if date["start"] != "2026-08-17" {
		t.Fatalf("unexpected week date: %v", date)
	}
}

func TestAppendSectionChunksBody(t *testing.T) {
	t.Parallel()

	server, calls := storeServer(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `{}`
	})
	defer server.Close()

	queue := NewContentQueue(NewClient(server.URL, "secret-token"), "queue-db")
	body := strings.Repeat("x", 4000)
	if err := queue.AppendSection(context.Background(), "page-1", "Long-form Article", body); err != nil {
		t.Fatalf("AppendSection error: %v", err)
	}

	call := (*calls)[0]
	if call.path != "/v1/blocks/page-1/children" {
		t.Fatalf("unexpected path: %s", call.path)
	}

	children, _ := call.body["children"].([]any)
	// One heading plus three 1800-rune chunks.
	if len(children) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(children))
	}
	head, _ := children[0].(map[string]any)
	if head["type"] != "heading_2" {
		t.Fatalf("first block is not a heading: %v", head["type"])
	}
}

func TestStoreErrorSurfacesStatus(t *testing.T) {
	t.Parallel()

	server, _ := storeServer(t, func(r *http.Request) (int, string) {
		return http.StatusBadRequest, `{"message": "validation_error"}`
	})
	defer server.Close()

	queue := NewContentQueue(NewClient(server.URL, "secret-token"), "queue-db")
	_, err := queue.FindWeekPage(context.Background(), "2026-08-17")
	if err == nil {
		t.Fatal("expected an error for a 400 response")
	}
	if !strings.Contains(err.Error(), "validation_error") {
		t.Fatalf("error lacks response snippet: %v", err)
	}
}
