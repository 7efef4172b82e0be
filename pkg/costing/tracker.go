// Package costing implements the Cost Tracker and Ceiling Guard: a
// process-lifetime, mutex-guarded ledger of per-call token usage and USD
// cost, with a pre-call guard that denies work projected to breach a
// configured ceiling.
package costing

import (
	"sync"

	"github.com/kcurator/awesome-discover/pkg/config"
)

// defaultEstimatedTokens is used when the caller does not supply an
// estimate. Deliberately conservative — over-estimation keeps the ceiling
// guard on the safe side.
const defaultEstimatedTokens = 2000

// Tracker records token usage and USD cost across LLM calls and enforces a
// hard ceiling. Safe for concurrent use; CheckCeiling and TrackUsage can race
// across goroutines, with a bounded overshoot accepted as the cost of not
// serializing the whole call path on the tracker.
type Tracker struct {
	mu      sync.Mutex
	pricing *config.PricingTable
	ceiling float64

	total      float64
	byAgent    map[string]float64
	byModel    map[string]float64
	unknownLog map[string]bool // models priced at 0, logged once
}

// NewTracker creates a Tracker bounded by ceiling USD.
func NewTracker(pricing *config.PricingTable, ceiling float64) *Tracker {
	return &Tracker{
		pricing:    pricing,
		ceiling:    ceiling,
		byAgent:    make(map[string]float64),
		byModel:    make(map[string]float64),
		unknownLog: make(map[string]bool),
	}
}

// CheckCeiling is the precondition guard: it fails with ErrCeilingExceeded
// when current_total + price(model, estimatedTokens) >= ceiling. A call must
// be denied even when the projected cost exactly equals the ceiling.
func (t *Tracker) CheckCeiling(model string, estimatedTokens int) error {
	if estimatedTokens <= 0 {
		estimatedTokens = defaultEstimatedTokens
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	projected := t.total + t.priceLocked(model, estimatedTokens, 0)
	if projected >= t.ceiling {
		return ErrCeilingExceeded
	}
	return nil
}

// TrackUsage records a completed call's token usage and returns the
// incremental USD cost.
func (t *Tracker) TrackUsage(model string, inTokens, outTokens int, agentName string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	cost := t.priceLocked(model, inTokens, outTokens)
	t.total += cost
	t.byAgent[agentName] += cost
	t.byModel[model] += cost
	return cost
}

// priceLocked computes the USD cost for inTokens/outTokens of model.
// Unknown models price at 0 (caller decides whether to warn).
// Must be called with t.mu held.
func (t *Tracker) priceLocked(model string, inTokens, outTokens int) float64 {
	price, ok := t.pricing.Get(model)
	if !ok {
		return 0
	}
	return float64(inTokens)/1_000_000*price.InputPer1M +
		float64(outTokens)/1_000_000*price.OutputPer1M
}

// KnownModel reports whether model has pricing data. Together with
// ShouldWarnUnknown it supports a once-per-model "unknown model" warning;
// nothing in the pipeline calls either of them.
func (t *Tracker) KnownModel(model string) bool {
	_, ok := t.pricing.Get(model)
	return ok
}

// ShouldWarnUnknown returns true the first time an unknown model is seen,
// and false on subsequent calls for the same model (avoids log spam).
func (t *Tracker) ShouldWarnUnknown(model string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.unknownLog[model] {
		return false
	}
	t.unknownLog[model] = true
	return true
}

// Total returns the running total USD cost across all calls.
func (t *Tracker) Total() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// ByAgent returns the running total USD cost for a given agent name.
func (t *Tracker) ByAgent(name string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.byAgent[name]
}

// ByModel returns the running total USD cost for a given model.
func (t *Tracker) ByModel(name string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.byModel[name]
}

// Ceiling returns the configured USD ceiling.
func (t *Tracker) Ceiling() float64 { return t.ceiling }
