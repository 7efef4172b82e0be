package llmprovider

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// SearchOutput is the result of one query-shaped LLM call with the
// web_search tool attached: the model's final JSON-shaped text answer,
// ready for the same extractJSON/Unmarshal path every other agent uses.
type SearchOutput struct {
	Text  string
	Usage Usage
}

// Searcher issues one LLM call with a web_search tool for query and
// returns the model's closing text turn.
type Searcher interface {
	Search(ctx context.Context, model, query string, maxResults int) (SearchOutput, error)
}

const searchSystemPrompt = `You have a web_search tool. Use it to find real, currently reachable pages relevant to the user's query, then report what you found.

Respond with ONLY a JSON object: {"hits": [{"url": string, "title": string, "description": string}, ...]}. description is one sentence summarizing the page. No commentary, no code fences.`

// AnthropicSearcher backs the Search Orchestrator's per-query calls with
// Anthropic's server-side web search tool.
type AnthropicSearcher struct {
	client anthropic.Client
}

func NewAnthropicSearcher(apiKey string) *AnthropicSearcher {
	return &AnthropicSearcher{client: anthropic.NewClient(option.WithAPIKey(apiKey))}
}

// Search asks the model to use the web_search tool for query and to
// summarize its findings as the hit-shaped JSON object every caller parses.
func (s *AnthropicSearcher) Search(ctx context.Context, model, query string, maxResults int) (SearchOutput, error) {
	if maxResults <= 0 {
		maxResults = 6
	}

	msg, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 2048,
		System: []anthropic.TextBlockParam{
			{Text: searchSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(
				fmt.Sprintf("Query: %s\nReturn up to %d distinct results.", query, maxResults),
			)),
		},
		Tools: []anthropic.ToolUnionParam{
			{OfWebSearchTool20250305: &anthropic.WebSearchTool20250305Param{
				Name:    "web_search",
				MaxUses: anthropic.Int(int64(maxResults)),
			}},
		},
	})
	if err != nil {
		return SearchOutput{}, fmt.Errorf("llmprovider: search: %w", err)
	}

	var text string
	for _, block := range msg.Content {
		if tb := block.AsText(); tb.Text != "" {
			text += tb.Text
		}
	}

	return SearchOutput{
		Text:  text,
		Usage: Usage{InputTokens: msg.Usage.InputTokens, OutputTokens: msg.Usage.OutputTokens},
	}, nil
}
