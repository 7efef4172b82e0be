package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kcurator/awesome-discover/pkg/agent/prompt"
)

// CategoryGapAnalysis is the Gap Analyzer's per-category output.
type CategoryGapAnalysis struct {
	MissingTopics  []string `json:"missing_topics"`
	SuggestedTerms []string `json:"suggested_terms"`
}

// GapAnalyzer assesses per-category topic coverage across the whole list
// in a single call.
type GapAnalyzer struct{ base *Base }

func NewGapAnalyzer(base *Base) *GapAnalyzer { return &GapAnalyzer{base: base} }

// CategoryInput is one category as presented to the Gap Analyzer: its
// current entry titles and the terms Term Expander already produced.
type CategoryInput struct {
	Name          string   `json:"name"`
	CurrentTitles []string `json:"current_titles"`
	ExpandedTerms []string `json:"expanded_terms"`
}

// Analyze runs the single LLM call and returns a map keyed by category name.
func (a *GapAnalyzer) Analyze(ctx context.Context, categories []CategoryInput) (map[string]CategoryGapAnalysis, error) {
	payload, err := json.Marshal(categories)
	if err != nil {
		return nil, fmt.Errorf("gap_analyzer: marshal input: %w", err)
	}

	out := make(map[string]CategoryGapAnalysis)
	if err := a.base.Call(ctx, prompt.GapAnalyzerV1, string(payload), 4000, &out); err != nil {
		return nil, err
	}
	return out, nil
}
