// Package config holds the CLI-tunable knobs for a discovery run: cost
// ceiling, wall time, model selection, and the per-category search budget.
// A Config is assembled once at startup from flags and environment, then
// validated before the pipeline driver starts.
package config

import (
	"fmt"
	"os"
	"time"
)

// Default model identifiers. Override with --model_* flags.
const (
	DefaultAnalyzerModel   = "claude-haiku-4-5"
	DefaultPlannerModel    = "claude-haiku-4-5"
	DefaultResearcherModel = "claude-sonnet-4-5"
	DefaultValidatorModel  = "claude-haiku-4-5"
)

// Search tuning constants. Not exposed as flags — these are treated as
// design constants, not operator knobs.
const (
	MaxRounds         = 4
	MinNewPerRound    = 2
	QueriesPerRound   = 3
	ResultsPerQuery   = 6
	MaxLinks          = 40
	OverrepThreshold  = 3
	TargetPerCategory = 8
)

// Config is the fully resolved, validated run configuration.
type Config struct {
	RepoURL     string
	WallTime    time.Duration
	CostCeiling float64
	OutputDir   string
	Seed        *int64 // nil = nondeterministic planning

	AnalyzerModel   string
	PlannerModel    string
	ResearcherModel string
	ValidatorModel  string

	AnthropicAPIKey string

	// PricingFile optionally overrides the built-in pricing table (YAML).
	PricingFile string

	// DryRun stops after planning, before any search/validation spend.
	DryRun bool
}

// Flags mirrors the raw CLI flags before validation and env resolution.
type Flags struct {
	RepoURL         string
	WallTimeSeconds int
	CostCeiling     float64
	OutputDir       string
	Seed            int64
	SeedSet         bool
	AnalyzerModel   string
	PlannerModel    string
	ResearcherModel string
	ValidatorModel  string
	PricingFile     string
	DryRun          bool
}

// Resolve turns raw flags + environment into a validated Config.
func Resolve(f Flags) (*Config, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY is not set", ErrConfig)
	}

	cfg := &Config{
		RepoURL:         f.RepoURL,
		WallTime:        time.Duration(f.WallTimeSeconds) * time.Second,
		CostCeiling:     f.CostCeiling,
		OutputDir:       f.OutputDir,
		AnalyzerModel:   orDefault(f.AnalyzerModel, DefaultAnalyzerModel),
		PlannerModel:    orDefault(f.PlannerModel, DefaultPlannerModel),
		ResearcherModel: orDefault(f.ResearcherModel, DefaultResearcherModel),
		ValidatorModel:  orDefault(f.ValidatorModel, DefaultValidatorModel),
		AnthropicAPIKey: apiKey,
		PricingFile:     f.PricingFile,
		DryRun:          f.DryRun,
	}
	if f.SeedSet {
		seed := f.Seed
		cfg.Seed = &seed
	}

	if err := NewValidator(cfg).ValidateAll(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return cfg, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
