// Package report writes the two human-facing run artifacts a run produces
// beyond the machine-readable ones: research_report.md and graph.html.
package report

import (
	"fmt"
	"html"
	"strings"

	"github.com/kcurator/awesome-discover/pkg/search"
	"github.com/kcurator/awesome-discover/pkg/validator"
)

// Research renders a Markdown summary of one run: per-category yield and
// the full validated-link list.
func Research(repoURL string, gaps map[string]search.Gap, validated []validator.ValidatedLink, totalCostUSD float64) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Discovery Report\n\n")
	fmt.Fprintf(&sb, "Source: %s\n\n", repoURL)
	fmt.Fprintf(&sb, "Total cost: $%.4f\n\n", totalCostUSD)

	fmt.Fprintf(&sb, "## Coverage by category\n\n")
	for category, gap := range gaps {
		fmt.Fprintf(&sb, "- **%s** — %d found, %d still needed\n", category, gap.CurrentCount, gap.Needed)
	}

	fmt.Fprintf(&sb, "\n## Validated links\n\n")
	for _, v := range validated {
		fmt.Fprintf(&sb, "- [%s](%s) (%s, score %.2f) — %s\n", v.Title, v.URL, v.Category, v.QualityScore, v.Description)
	}

	return sb.String()
}

// Graph renders a minimal self-contained HTML page visualizing validated
// links as a category-grouped node list — enough for a human to eyeball a
// run's yield without parsing JSON.
func Graph(validated []validator.ValidatedLink) string {
	byCategory := make(map[string][]validator.ValidatedLink)
	var order []string
	for _, v := range validated {
		if _, ok := byCategory[v.Category]; !ok {
			order = append(order, v.Category)
		}
		byCategory[v.Category] = append(byCategory[v.Category], v)
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Discovery graph</title></head><body>\n")
	for _, category := range order {
		fmt.Fprintf(&sb, "<h2>%s</h2>\n<ul>\n", html.EscapeString(category))
		for _, v := range byCategory[category] {
			fmt.Fprintf(&sb, "  <li><a href=\"%s\">%s</a> <small>score %.2f</small></li>\n",
				html.EscapeString(v.URL), html.EscapeString(v.Title), v.QualityScore)
		}
		sb.WriteString("</ul>\n")
	}
	sb.WriteString("</body></html>\n")
	return sb.String()
}
