// Package llmprovider is the thin boundary between this repository and the
// Anthropic API: every LLM call, from any agent, goes through Provider.
package llmprovider

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Usage is the token accounting for one Generate call.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// GenerateInput is one LLM call: a system prompt, a single user turn, and
// the model to route it to. Agents never construct multi-turn conversations
// against the provider directly — each analysis pass is a fresh call.
type GenerateInput struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int64
}

// GenerateOutput is the raw text response plus its accounting. Agents are
// responsible for parsing Text as JSON; the provider does not know the
// shape any particular agent expects back.
type GenerateOutput struct {
	Text  string
	Usage Usage
}

// Provider is the narrow surface agents call through. Swappable in tests.
type Provider interface {
	Generate(ctx context.Context, in GenerateInput) (GenerateOutput, error)
}

// AnthropicProvider is the production Provider backed by the Anthropic SDK.
type AnthropicProvider struct {
	client anthropic.Client
}

// NewAnthropicProvider builds a Provider from an API key. apiKey must be
// non-empty; config.Resolve is responsible for enforcing that before this
// is ever constructed.
func NewAnthropicProvider(apiKey string) *AnthropicProvider {
	return &AnthropicProvider{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
	}
}

// Generate sends one request and collects the concatenated text blocks of
// the response.
func (p *AnthropicProvider) Generate(ctx context.Context, in GenerateInput) (GenerateOutput, error) {
	maxTokens := in.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(in.Model),
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: in.SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(in.UserPrompt)),
		},
	})
	if err != nil {
		return GenerateOutput{}, fmt.Errorf("llmprovider: generate: %w", err)
	}

	var text string
	for _, block := range msg.Content {
		if tb := block.AsText(); tb.Text != "" {
			text += tb.Text
		}
	}

	return GenerateOutput{
		Text: text,
		Usage: Usage{
			InputTokens:  msg.Usage.InputTokens,
			OutputTokens: msg.Usage.OutputTokens,
		},
	}, nil
}
