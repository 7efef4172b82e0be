package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validator validates a Config comprehensively with clear error messages.
type Validator struct {
	cfg *Config
}

// NewValidator creates a validator for the given configuration.
func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateAll performs comprehensive validation (fail-fast — stops at the
// first error).
func (v *Validator) ValidateAll() error {
	if err := v.validateRepoURL(); err != nil {
		return fmt.Errorf("repo_url validation failed: %w", err)
	}
	if err := v.validateWallTime(); err != nil {
		return fmt.Errorf("wall_time validation failed: %w", err)
	}
	if err := v.validateCostCeiling(); err != nil {
		return fmt.Errorf("cost_ceiling validation failed: %w", err)
	}
	if err := v.validateOutputDir(); err != nil {
		return fmt.Errorf("output_dir validation failed: %w", err)
	}
	return nil
}

func (v *Validator) validateRepoURL() error {
	if v.cfg.RepoURL == "" {
		return fmt.Errorf("repo_url is required")
	}
	u, err := url.Parse(v.cfg.RepoURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("repo_url must be an absolute URL, got %q", v.cfg.RepoURL)
	}
	if !strings.Contains(u.Host, "github.com") {
		return fmt.Errorf("repo_url must point at github.com, got %q", v.cfg.RepoURL)
	}
	return nil
}

func (v *Validator) validateWallTime() error {
	if v.cfg.WallTime <= 0 {
		return fmt.Errorf("wall_time must be positive, got %v", v.cfg.WallTime)
	}
	return nil
}

func (v *Validator) validateCostCeiling() error {
	if v.cfg.CostCeiling < 0 {
		return fmt.Errorf("cost_ceiling must be non-negative, got %v", v.cfg.CostCeiling)
	}
	return nil
}

func (v *Validator) validateOutputDir() error {
	if v.cfg.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	return nil
}
