package list

import (
	"fmt"
	"strings"

	"github.com/kcurator/awesome-discover/pkg/validator"
)

// Render reconstructs the Markdown README with every validated link
// appended to its matching category section. A validated link whose
// category doesn't match any existing section is dropped rather than
// appended as a new section.
func Render(original List, newLinks []validator.ValidatedLink) string {
	byCategory := make(map[string][]validator.ValidatedLink)
	for _, l := range newLinks {
		key := strings.ToLower(l.Category)
		byCategory[key] = append(byCategory[key], l)
	}

	var sb strings.Builder
	if original.Title != "" {
		fmt.Fprintf(&sb, "# %s\n\n", original.Title)
	}

	for _, cat := range original.Categories {
		fmt.Fprintf(&sb, "## %s\n\n", cat.Name)
		for _, e := range cat.Entries {
			writeEntryLine(&sb, e.Title, e.URL, e.Description)
		}
		for _, l := range byCategory[strings.ToLower(cat.Name)] {
			writeEntryLine(&sb, l.Title, l.URL, l.Description)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeEntryLine(sb *strings.Builder, title, url, description string) {
	if description != "" {
		fmt.Fprintf(sb, "- [%s](%s) - %s\n", title, url, description)
	} else {
		fmt.Fprintf(sb, "- [%s](%s)\n", title, url)
	}
}
