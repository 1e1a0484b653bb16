// Package selection re-ranks an approved candidate pool for one weekly draft.
package selection

import (
	"sort"
	"strings"

	"ContentPipeline/internal/domain"
)

// affinityWeight is calibrated so a handful of topic-keyword hits can outrank
// a few points of usefulness difference without swamping a large one.
const affinityWeight = 5.0

// Affinity counts topic keywords appearing in the candidate's title, summary
// and key claims. Unlike the usefulness scorer there is no saturation curve;
// every hit counts the same.
func Affinity(c domain.Candidate, topic domain.Topic) float64 {
	text := strings.ToLower(c.Title + "\n" + c.Summary + "\n" + c.KeyClaims)
	hits := 0
	for _, kw := range topic.Keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(kw)) {
			hits++
		}
	}
	return float64(hits)
}

// Select biases the pool toward the week's topic and returns at most max
// candidates. The sort is stable, so ties keep the store's original order
// (usefulness descending).
func Select(pool []domain.Candidate, topic domain.Topic, max int) []domain.Candidate {
	type ranked struct {
		combined  float64
		candidate domain.Candidate
	}

	rankedPool := make([]ranked, 0, len(pool))
	for _, c := range pool {
		rankedPool = append(rankedPool, ranked{
			combined:  c.Usefulness + Affinity(c, topic)*affinityWeight,
			candidate: c,
		})
	}

	sort.SliceStable(rankedPool, func(i, j int) bool {
		return rankedPool[i].combined > rankedPool[j].combined
	})

	if max < 0 {
		max = 0
	}
	if len(rankedPool) > max {
		rankedPool = rankedPool[:max]
	}

	selected := make([]domain.Candidate, 0, len(rankedPool))
	for _, r := range rankedPool {
		selected = append(selected, r.candidate)
	}
	return selected
}
