package search

import (
	"regexp"
	"sort"
	"strings"
)

var wordRe = regexp.MustCompile(`[a-zA-Z0-9]+`)

// stopWords excludes filler terms from salient-topic extraction. Small,
// curated for the kind of short titles an Awesome list entry has — not
// meant to be a general-purpose stopword list.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "of": true,
	"for": true, "to": true, "in": true, "on": true, "with": true, "is": true,
	"by": true, "your": true, "you": true, "this": true, "that": true,
}

// topTerms extracts the top-N most frequent non-stopword tokens across a
// set of titles, lowercased. Used to derive CategoryGap.CoveredTopics.
func topTerms(titles []string, n int) []string {
	counts := make(map[string]int)
	for _, title := range titles {
		for _, word := range wordRe.FindAllString(strings.ToLower(title), -1) {
			if len(word) < 3 || stopWords[word] {
				continue
			}
			counts[word]++
		}
	}

	type termCount struct {
		term  string
		count int
	}
	ranked := make([]termCount, 0, len(counts))
	for term, count := range counts {
		ranked = append(ranked, termCount{term, count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].term < ranked[j].term
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = ranked[i].term
	}
	return out
}
