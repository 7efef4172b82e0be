// Package list is the thin Markdown glue: parsing an Awesome list README
// into categories and entries, and rendering an updated version back out.
package list

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Entry is one existing link in the parsed list.
type Entry struct {
	URL         string
	Title       string
	Description string
}

// Category is one H2-level section of the list with its entries.
type Category struct {
	Name    string
	Entries []Entry
}

// List is the parsed form of an Awesome list README.
type List struct {
	Title      string
	Categories []Category
}

// ErrNoCategories is returned when a README has no H2 sections with list
// items — a fatal parse failure, not something a caller should retry past.
var ErrNoCategories = fmt.Errorf("list: no categories found")

// Parse walks the Markdown AST with goldmark and extracts H2-delimited
// categories, each containing its bullet-list entries, using the common
// "- [Title](url) - description" Awesome-list convention.
func Parse(source []byte) (List, error) {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	var result List
	var current *Category

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			text := headingText(node, source)
			switch node.Level {
			case 1:
				result.Title = text
			case 2:
				result.Categories = append(result.Categories, Category{Name: text})
				current = &result.Categories[len(result.Categories)-1]
			}
		case *ast.ListItem:
			if current == nil {
				return ast.WalkSkipChildren, nil
			}
			if entry, ok := parseListItem(node, source); ok {
				current.Entries = append(current.Entries, entry)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return List{}, fmt.Errorf("list: parse: %w", err)
	}

	if len(result.Categories) == 0 {
		return List{}, ErrNoCategories
	}
	return result, nil
}

func headingText(h *ast.Heading, source []byte) string {
	var sb strings.Builder
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
		}
	}
	return strings.TrimSpace(sb.String())
}

// parseListItem extracts {title, url, description} from one bullet
// whose first child is a paragraph (or, in a tight list, a text block)
// containing a link, e.g.:
// "[Title](https://example.com) - a short description".
func parseListItem(item *ast.ListItem, source []byte) (Entry, bool) {
	para := item.FirstChild()
	switch para.(type) {
	case *ast.Paragraph, *ast.TextBlock:
	default:
		return Entry{}, false
	}

	var entry Entry
	var tail strings.Builder
	foundLink := false

	for c := para.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Link:
			entry.URL = string(node.Destination)
			entry.Title = linkText(node, source)
			foundLink = true
		case *ast.Text:
			if foundLink {
				tail.Write(node.Segment.Value(source))
			}
		}
	}

	if !foundLink {
		return Entry{}, false
	}

	entry.Description = strings.TrimSpace(strings.TrimLeft(tail.String(), " -–—"))
	return entry, true
}

func linkText(link *ast.Link, source []byte) string {
	var sb strings.Builder
	for c := link.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
		}
	}
	return sb.String()
}
