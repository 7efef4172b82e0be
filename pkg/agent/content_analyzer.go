package agent

import (
	"context"
	"fmt"

	"github.com/kcurator/awesome-discover/pkg/agent/prompt"
)

// ContentAnalysis is the Content Analyzer's output. It
// drives every downstream agent's system prompt.
type ContentAnalysis struct {
	PrimaryDomain             string            `json:"primary_domain"`
	ProgrammingLanguage       string            `json:"programming_language"`
	Audience                  string            `json:"audience"`
	ExistingCategorySemantics map[string]string `json:"existing_category_semantics"`
}

// ContentAnalyzer is the one-shot agent producing ContentAnalysis.
type ContentAnalyzer struct{ base *Base }

func NewContentAnalyzer(base *Base) *ContentAnalyzer { return &ContentAnalyzer{base: base} }

// CategorySummary is one category as presented to the Content Analyzer:
// its name and a handful of example titles already filed under it.
type CategorySummary struct {
	Name          string   `json:"name"`
	ExampleTitles []string `json:"example_titles"`
}

// Analyze runs the single LLM call producing the domain context.
func (a *ContentAnalyzer) Analyze(ctx context.Context, repoURL string, categories []CategorySummary) (ContentAnalysis, error) {
	user := fmt.Sprintf("Repository: %s\n\nCategories:\n%s", repoURL, formatCategories(categories))

	var out ContentAnalysis
	if err := a.base.Call(ctx, prompt.ContentAnalyzerV1, user, 3000, &out); err != nil {
		return ContentAnalysis{}, err
	}
	return out, nil
}

func formatCategories(categories []CategorySummary) string {
	s := ""
	for _, c := range categories {
		s += fmt.Sprintf("- %s: %v\n", c.Name, c.ExampleTitles)
	}
	return s
}
