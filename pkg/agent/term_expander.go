package agent

import (
	"context"
	"fmt"

	"github.com/kcurator/awesome-discover/pkg/agent/prompt"
)

// ExpandedTerms is the Term Expander's output for one category.
type ExpandedTerms struct {
	Terms []string `json:"terms"`
}

// TermExpander widens the lexical net for one category.
// Must tolerate an empty example-title set without failing.
type TermExpander struct{ base *Base }

func NewTermExpander(base *Base) *TermExpander { return &TermExpander{base: base} }

// Expand runs the single LLM call. exampleTitles may be empty; the
// response is then a conservative expansion from the category name alone.
func (a *TermExpander) Expand(ctx context.Context, category string, exampleTitles []string) (ExpandedTerms, error) {
	titles := exampleTitles
	if len(titles) > 5 {
		titles = titles[:5]
	}

	user := fmt.Sprintf("Category: %s\nExample titles: %v", category, titles)

	var out ExpandedTerms
	if err := a.base.Call(ctx, prompt.TermExpanderV1, user, 1500, &out); err != nil {
		return ExpandedTerms{}, err
	}
	return out, nil
}
