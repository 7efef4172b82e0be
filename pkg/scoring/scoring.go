// Package scoring implements the second, defensive deduplication pass and
// the deterministic quality scorer. Neither step issues
// LLM calls.
package scoring

import (
	"sort"
	"strings"

	"github.com/kcurator/awesome-discover/pkg/search"
)

// Scored pairs a candidate with its computed quality score.
type Scored struct {
	Result search.Result
	Score  float64
}

// CategoryContext supplies the signals the scorer needs per category:
// the expanded terms used to judge fit, and domains already overrepresented
// in the *original* list (so new entries from the same domain score lower).
type CategoryContext struct {
	ExpandedTerms                  []string
	OverrepresentedOriginalDomains map[string]bool
}

// Dedup runs the second, defensive pass over the union of accepted
// candidates. With a correctly functioning Search Memory this is a no-op;
// it exists to guard against pipeline-level mistakes.
func Dedup(candidates []search.Result) []search.Result {
	seenCanonical := make(map[string]bool, len(candidates))
	seenHash := make(map[string]bool, len(candidates))
	out := make([]search.Result, 0, len(candidates))

	for _, c := range candidates {
		if seenCanonical[c.CanonicalURL] || seenHash[c.ContentHash] {
			continue
		}
		seenCanonical[c.CanonicalURL] = true
		seenHash[c.ContentHash] = true
		out = append(out, c)
	}
	return out
}

// Score assigns a deterministic scalar to each candidate and returns them
// sorted descending by score, truncated to maxLinks.
func Score(candidates []search.Result, ctxByCategory map[string]CategoryContext, maxLinks int) []Scored {
	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, Scored{Result: c, Score: scoreOne(c, ctxByCategory[c.Category])})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if maxLinks > 0 && len(scored) > maxLinks {
		scored = scored[:maxLinks]
	}
	return scored
}

// scoreOne combines signals available without another network call:
// description informativeness, category-term fit, and a domain-diversity
// penalty for domains already overrepresented in the original list.
func scoreOne(r search.Result, cc CategoryContext) float64 {
	score := 0.0

	titleLen := len(strings.Fields(r.Title))
	score += clamp(float64(titleLen)/8.0, 0, 1) * 2.0

	descLen := len(strings.Fields(r.Description))
	score += clamp(float64(descLen)/20.0, 0, 1) * 3.0

	if len(cc.ExpandedTerms) > 0 {
		haystack := strings.ToLower(r.Title + " " + r.Description)
		hits := 0
		for _, term := range cc.ExpandedTerms {
			if strings.Contains(haystack, strings.ToLower(term)) {
				hits++
			}
		}
		score += clamp(float64(hits)/float64(len(cc.ExpandedTerms)), 0, 1) * 4.0
	}

	if cc.OverrepresentedOriginalDomains[r.Domain] {
		score -= 2.0
	} else {
		score += 1.0
	}

	return score
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
