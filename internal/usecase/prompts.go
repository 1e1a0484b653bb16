package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"ContentPipeline/internal/domain"
)

// systemPrompt pins the generation channel to machine-readable output; the
// recovery chain still assumes it will be violated.
const systemPrompt = "You output strict JSON only."

func summaryPrompt(title, url, excerpt string) string {
	return strings.TrimSpace(fmt.Sprintf(`
Return ONLY valid JSON with keys:
- summary_bullets: array of 5 strings
- key_claims: array of 3 strings
- tags: array of 3-6 strings
- confidence: number between 0 and 1

Rules:
- Do NOT invent statistics.
- If excerpt is insufficient, write conservative claims and lower confidence.
- Keep each bullet/claim under 25 words.
- No markdown. No commentary. JSON only.

Title: %s
URL: %s

EXCERPT:
%s
`, title, url, excerpt))
}

func packagePrompt(topic domain.Topic, sources []domain.Candidate) (string, error) {
	type compiledSource struct {
		Title     string `json:"title"`
		URL       string `json:"url"`
		Summary   string `json:"summary"`
		KeyClaims string `json:"key_claims"`
	}

	compiled := make([]compiledSource, 0, len(sources))
	for _, s := range sources {
		compiled = append(compiled, compiledSource{
			Title:     s.Title,
			URL:       s.URL,
			Summary:   s.Summary,
			KeyClaims: s.KeyClaims,
		})
	}

	raw, err := json.Marshal(compiled)
	if err != nil {
		return "", fmt.Errorf("marshal sources: %w", err)
	}

	return strings.TrimSpace(fmt.Sprintf(`
Return ONLY valid JSON with keys:
- article_title: string
- thesis_angle: string (1-2 sentences)
- long_form_article: string (1000-1300 words)
- companion_posts: array of 3 strings (each 120-220 words, distinct angles)
- comment_prompts: array of 5 strings (each 1-2 sentences, high-signal questions)
- sources: array of objects: {title, url}

Topic for this week: %s
Thesis guidance: %s

Tone:
- Operational modernization + AI transformation leader
- Keep "TPM" visible where relevant (execution systems, governance, cross-functional operating model)

Rules:
- Do NOT invent stats or citations.
- Only cite from the provided sources list (URLs below).
- If a claim cannot be grounded, phrase it as opinion/interpretation.
- Include a short "What this means for TPMs" section in the long-form article.
- No markdown fences. No backticks. JSON only.

Provided sources (use ONLY these URLs):
%s
`, topic.Name, topic.Angle, string(raw))), nil
}
