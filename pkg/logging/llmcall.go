package logging

import (
	"time"

	"github.com/rs/zerolog"
)

const previewLimit = 1000

// LLMCallRecord captures everything worth recording for one LLM round-trip:
// the full prompt messages, a truncated response preview, usage counters,
// cost, and timing. CallID is unique per round-trip. A call that fails is
// not recorded here; its ID appears only in its errors.jsonl entry.
type LLMCallRecord struct {
	CallID       string
	Agent        string
	Model        string
	Messages     []map[string]string // role/content pairs, logged verbatim
	Response     string
	InputTokens  int
	OutputTokens int
	CostUSD      float64
	Elapsed      time.Duration
	Error        string
}

// LogLLMCall emits exactly one record to the agent-component logger.
func LogLLMCall(logger zerolog.Logger, rec LLMCallRecord) {
	preview := rec.Response
	if len(preview) > previewLimit {
		preview = preview[:previewLimit]
	}

	ev := logger.Info()
	if rec.Error != "" {
		ev = logger.Error().Str("error", rec.Error)
	}
	ev.
		Str("call_id", rec.CallID).
		Str("agent", rec.Agent).
		Str("model", rec.Model).
		Interface("messages", rec.Messages).
		Str("response_preview", preview).
		Int("input_tokens", rec.InputTokens).
		Int("output_tokens", rec.OutputTokens).
		Float64("cost_usd", rec.CostUSD).
		Dur("elapsed", rec.Elapsed).
		Msg("llm_call")
}
