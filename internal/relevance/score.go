package relevance

import (
	"math"
	"strings"
	"time"
)

// SourceWeight pairs a source-name fragment with a quality multiplier.
// Weights are evaluated in slice order and the first fragment found in the
// source name wins, so the table order is part of the contract.
type SourceWeight struct {
	Match  string
	Factor float64
}

const (
	keywordCeiling  = 60.0
	perKeywordHit   = 8.0
	recencyCeiling  = 25.0
	recencyWindow   = 30.0
	recencyFallback = 8.0
)

// Score blends keyword density, recency decay and source quality into a
// 0-100 usefulness score and returns the distinct keywords that matched.
// It performs no I/O; now is injected so results stay reproducible.
func Score(title, excerpt, source string, publishedAt *time.Time, now time.Time, keywords []string, weights []SourceWeight) (float64, []string) {
	text := strings.ToLower(title + "\n" + excerpt)

	var matched []string
	hit := map[string]struct{}{}
	for _, kw := range keywords {
		k := strings.ToLower(strings.TrimSpace(kw))
		if k == "" {
			continue
		}
		if _, dup := hit[k]; dup {
			continue
		}
		if strings.Contains(text, k) {
			hit[k] = struct{}{}
			matched = append(matched, kw)
		}
	}

	kwScore := math.Min(keywordCeiling, perKeywordHit*float64(len(matched)))

	recency := recencyFallback
	if publishedAt != nil {
		days := math.Floor(now.Sub(*publishedAt).Hours() / 24)
		if days < 0 {
			days = 0
		}
		if days > recencyWindow {
			days = recencyWindow
		}
		recency = math.Max(0, recencyCeiling*(1-days/recencyWindow))
	}

	mult := 1.0
	loweredSource := strings.ToLower(source)
	for _, w := range weights {
		if w.Match == "" {
			continue
		}
		if strings.Contains(loweredSource, strings.ToLower(w.Match)) {
			mult = w.Factor
			break
		}
	}

	score := (kwScore + recency) * mult
	return math.Max(0, math.Min(100, score)), matched
}

// Approve applies the conjunctive use-in-draft gate: both thresholds must be
// met independently.
func Approve(score, confidence, minScore, minConfidence float64) bool {
	return score >= minScore && confidence >= minConfidence
}
