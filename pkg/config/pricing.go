package config

import (
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// ModelPrice holds per-model pricing, USD per 1M tokens.
type ModelPrice struct {
	InputPer1M  float64 `yaml:"input_per_1m"`
	OutputPer1M float64 `yaml:"output_per_1m"`
}

// PricingTable is a thread-safe, mutable pricing lookup. Unknown models
// price at zero and never stop the run; no warning is logged for them.
type PricingTable struct {
	mu     sync.RWMutex
	prices map[string]ModelPrice
}

// NewPricingTable returns a pricing table seeded with the built-in defaults.
func NewPricingTable() *PricingTable {
	return &PricingTable{prices: defaultPricing()}
}

// LoadOverrides merges a YAML pricing file on top of the built-in defaults.
// A missing path is a no-op (the built-in table is used as-is).
func (t *PricingTable) LoadOverrides(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var overrides map[string]ModelPrice
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for model, price := range overrides {
		t.prices[model] = price
	}
	return nil
}

// Get returns the price for model and whether it was known.
func (t *PricingTable) Get(model string) (ModelPrice, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.prices[model]
	return p, ok
}

func defaultPricing() map[string]ModelPrice {
	return map[string]ModelPrice{
		"claude-opus-4-6":   {InputPer1M: 15.00, OutputPer1M: 75.00},
		"claude-sonnet-4-5": {InputPer1M: 3.00, OutputPer1M: 15.00},
		"claude-haiku-4-5":  {InputPer1M: 0.80, OutputPer1M: 4.00},
	}
}
