// Package agent implements the LLM Agent Base and the one-shot analysis
// agents built on top of it.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kcurator/awesome-discover/pkg/costing"
	"github.com/kcurator/awesome-discover/pkg/llmprovider"
	"github.com/kcurator/awesome-discover/pkg/logging"
	"github.com/rs/zerolog"
)

const defaultEstimatedTokens = 2000

// maxProviderRetries bounds the attempts, with exponential backoff between
// them, made for one provider call. Every provider error is retried alike;
// transient (HTTP 429/503-class) errors are not told apart from others.
// The ceiling check runs once before the first attempt and is never retried.
const maxProviderRetries = 3

// Base wraps one LLM round-trip with the guarantees every agent needs:
// a cost-ceiling precondition, one structured log record, and tolerant
// JSON parsing of the completion.
type Base struct {
	Name      string
	Model     string
	Provider  llmprovider.Provider
	Tracker   *costing.Tracker
	Logger    zerolog.Logger // logs/agent.jsonl
	ErrLogger zerolog.Logger // logs/errors.jsonl
}

// NewBase constructs an agent base bound to one model and one named agent
// identity (used for cost and log attribution).
func NewBase(name, model string, provider llmprovider.Provider, tracker *costing.Tracker, logs *logging.Set) *Base {
	return &Base{
		Name:      name,
		Model:     model,
		Provider:  provider,
		Tracker:   tracker,
		Logger:    logs.For(logging.ComponentAgent),
		ErrLogger: logs.For(logging.ComponentErrors),
	}
}

// Call runs one system+user prompt pair, enforces the cost guard, records
// one log entry per successful provider round-trip (two when the repair
// retry runs), and unmarshals the (possibly fenced) JSON response into
// out. estimatedTokens may be 0 to use the conservative default.
func (b *Base) Call(ctx context.Context, systemPrompt, userPrompt string, estimatedTokens int, out interface{}) error {
	if estimatedTokens == 0 {
		estimatedTokens = defaultEstimatedTokens
	}

	if err := b.Tracker.CheckCeiling(b.Model, estimatedTokens); err != nil {
		return fmt.Errorf("%s: %w", b.Name, err)
	}

	callID := uuid.NewString()

	output, elapsed, err := b.generateWithBackoff(ctx, systemPrompt, userPrompt)
	if err != nil {
		logging.LogErrorWithCall(b.ErrLogger, logging.ComponentAgent, b.Name, callID, err)
		return fmt.Errorf("%s: %w", b.Name, err)
	}
	b.trackAndLog(callID, systemPrompt, userPrompt, output, elapsed)

	if err := json.Unmarshal([]byte(extractJSON(output.Text)), out); err != nil {
		// One repair retry with an explicit hint before giving up. The
		// repair call is a real LLM round-trip and must be tracked and
		// logged exactly like the primary call, whether or not it repairs.
		repairCallID := uuid.NewString()
		repaired, repairElapsed, repairErr := b.generateWithBackoff(ctx, systemPrompt,
			userPrompt+"\n\nYour previous response was not valid JSON. Respond with ONLY a single valid JSON value, no commentary, no code fences.")
		if repairErr != nil {
			logging.LogErrorWithCall(b.ErrLogger, logging.ComponentAgent, b.Name, repairCallID, repairErr)
			return fmt.Errorf("%s: %w: %s", b.Name, ErrJSONParse, preview(output.Text, 200))
		}
		b.trackAndLog(repairCallID, systemPrompt, userPrompt, repaired, repairElapsed)

		if err2 := json.Unmarshal([]byte(extractJSON(repaired.Text)), out); err2 == nil {
			return nil
		}
		return fmt.Errorf("%s: %w: %s", b.Name, ErrJSONParse, preview(repaired.Text, 200))
	}

	return nil
}

// trackAndLog records one LLM call's usage, cost, and full transcript. Every
// successful provider round-trip — primary or repair — goes through here
// exactly once.
func (b *Base) trackAndLog(callID, systemPrompt, userPrompt string, output llmprovider.GenerateOutput, elapsed time.Duration) {
	cost := b.Tracker.TrackUsage(b.Model, int(output.Usage.InputTokens), int(output.Usage.OutputTokens), b.Name)
	logging.LogLLMCall(b.Logger, logging.LLMCallRecord{
		CallID: callID,
		Agent:  b.Name,
		Model:  b.Model,
		Messages: []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		Response:     output.Text,
		InputTokens:  int(output.Usage.InputTokens),
		OutputTokens: int(output.Usage.OutputTokens),
		CostUSD:      cost,
		Elapsed:      elapsed,
	})
}

func (b *Base) generateWithBackoff(ctx context.Context, systemPrompt, userPrompt string) (llmprovider.GenerateOutput, time.Duration, error) {
	start := time.Now()
	var lastErr error
	backoff := 200 * time.Millisecond

	for attempt := 0; attempt < maxProviderRetries; attempt++ {
		out, err := b.Provider.Generate(ctx, llmprovider.GenerateInput{
			Model:        b.Model,
			SystemPrompt: systemPrompt,
			UserPrompt:   userPrompt,
		})
		if err == nil {
			return out, time.Since(start), nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}

		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return llmprovider.GenerateOutput{}, time.Since(start), ctx.Err()
		}
	}

	return llmprovider.GenerateOutput{}, time.Since(start), lastErr
}
