package notion

import (
	"time"
)

// prop is the union shape the store uses for page property values; only the
// variants this pipeline reads are mapped.
type prop struct {
	Type        string        `json:"type"`
	Title       []richText    `json:"title,omitempty"`
	RichText    []richText    `json:"rich_text,omitempty"`
	URL         *string       `json:"url,omitempty"`
	Select      *optionValue  `json:"select,omitempty"`
	MultiSelect []optionValue `json:"multi_select,omitempty"`
	Date        *dateRange    `json:"date,omitempty"`
	Number      *float64      `json:"number,omitempty"`
	Checkbox    *bool         `json:"checkbox,omitempty"`
}

type richText struct {
	PlainText string `json:"plain_text,omitempty"`
}

type optionValue struct {
	Name string `json:"name"`
}

type dateRange struct {
	Start string `json:"start"`
}

func (p prop) text() string {
	var parts []richText
	switch p.Type {
	case "title":
		parts = p.Title
	case "rich_text":
		parts = p.RichText
	default:
		return ""
	}
	var out string
	for _, part := range parts {
		out += part.PlainText
	}
	return out
}

func (p prop) urlValue() string {
	if p.Type == "url" && p.URL != nil {
		return *p.URL
	}
	return ""
}

func (p prop) selectValue() string {
	if p.Type == "select" && p.Select != nil {
		return p.Select.Name
	}
	return ""
}

func (p prop) numberValue() float64 {
	if p.Type == "number" && p.Number != nil {
		return *p.Number
	}
	return 0
}

func (p prop) checkboxValue() bool {
	if p.Type == "checkbox" && p.Checkbox != nil {
		return *p.Checkbox
	}
	return false
}

func (p prop) dateValue() *time.Time {
	if p.Type != "date" || p.Date == nil || p.Date.Start == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, p.Date.Start); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func (p prop) tags() []string {
	var out []string
	for _, opt := range p.MultiSelect {
		if opt.Name != "" {
			out = append(out, opt.Name)
		}
	}
	return out
}

// Write-side property builders. The store wants small nested documents per
// property type.

func titleProp(s string) map[string]any {
	return map[string]any{
		"title": []any{map[string]any{"text": map[string]any{"content": s}}},
	}
}

func richTextProp(s string) map[string]any {
	return map[string]any{
		"rich_text": []any{map[string]any{"text": map[string]any{"content": s}}},
	}
}

func urlProp(s string) map[string]any {
	return map[string]any{"url": s}
}

func selectProp(name string) map[string]any {
	return map[string]any{"select": map[string]any{"name": name}}
}

func multiSelectProp(names []string) map[string]any {
	opts := make([]any, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		opts = append(opts, map[string]any{"name": clip(n, 50)})
	}
	return map[string]any{"multi_select": opts}
}

func dateProp(start string) map[string]any {
	return map[string]any{"date": map[string]any{"start": start}}
}

func numberProp(n float64) map[string]any {
	return map[string]any{"number": n}
}

func checkboxProp(b bool) map[string]any {
	return map[string]any{"checkbox": b}
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
