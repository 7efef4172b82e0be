// Package validator implements the LLM-backed Validator:
// one call per small batch of candidates, judging reachability,
// substance, and topical fit.
package validator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kcurator/awesome-discover/pkg/agent"
	"github.com/kcurator/awesome-discover/pkg/agent/prompt"
	"github.com/kcurator/awesome-discover/pkg/logging"
	"github.com/kcurator/awesome-discover/pkg/scoring"
	"github.com/rs/zerolog"
)

// defaultBatchSize groups candidates into small per-call batches rather
// than one call per candidate, trading a slightly coarser "accepted"
// judgment per call for about 1/defaultBatchSize as many LLM calls (and
// therefore cost) per run.
const defaultBatchSize = 5

// ValidatedLink is one entry of validated_links.json.
type ValidatedLink struct {
	URL          string  `json:"url"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	QualityScore float64 `json:"quality_score"`
}

type candidateView struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type judgment struct {
	URL      string `json:"url"`
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason"`
}

type batchResponse struct {
	Results []judgment `json:"results"`
}

// Validator runs the final reachable/substantial/topical pass.
type Validator struct {
	base      *agent.Base
	batchSize int
	errLogger zerolog.Logger
}

// New builds a Validator. batchSize <= 0 uses defaultBatchSize.
func New(base *agent.Base, batchSize int, errLogger zerolog.Logger) *Validator {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Validator{base: base, batchSize: batchSize, errLogger: errLogger}
}

// Validate judges every scored candidate in batches and returns the
// accepted subset as validated_links.json entries. A batch-level failure
// (provider error or unparseable response) drops every candidate in that
// batch; it is not retried.
func (v *Validator) Validate(ctx context.Context, domainContext string, candidates []scoring.Scored) ([]ValidatedLink, error) {
	var accepted []ValidatedLink

	for start := 0; start < len(candidates); start += v.batchSize {
		end := start + v.batchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batch := candidates[start:end]

		judged, err := v.validateBatch(ctx, domainContext, batch)
		if err != nil {
			logging.LogError(v.errLogger, logging.ComponentValidation, "validate_batch", err)
			continue
		}
		accepted = append(accepted, judged...)
	}

	return accepted, nil
}

func (v *Validator) validateBatch(ctx context.Context, domainContext string, batch []scoring.Scored) ([]ValidatedLink, error) {
	views := make([]candidateView, 0, len(batch))
	byURL := make(map[string]scoring.Scored, len(batch))
	for _, c := range batch {
		views = append(views, candidateView{
			URL:         c.Result.URL,
			Title:       c.Result.Title,
			Description: c.Result.Description,
			Category:    c.Result.Category,
		})
		byURL[c.Result.URL] = c
	}

	payload, err := json.Marshal(struct {
		DomainContext string          `json:"domain_context"`
		Candidates    []candidateView `json:"candidates"`
	}{domainContext, views})
	if err != nil {
		return nil, fmt.Errorf("validator: marshal batch: %w", err)
	}

	var resp batchResponse
	if err := v.base.Call(ctx, prompt.ValidatorV1, string(payload), 3000, &resp); err != nil {
		return nil, fmt.Errorf("validator: batch call: %w", err)
	}

	var out []ValidatedLink
	for _, j := range resp.Results {
		if !j.Accepted {
			continue
		}
		c, ok := byURL[j.URL]
		if !ok {
			continue
		}
		out = append(out, ValidatedLink{
			URL:          c.Result.URL,
			Title:        c.Result.Title,
			Description:  c.Result.Description,
			Category:     c.Result.Category,
			QualityScore: c.Score,
		})
	}
	return out, nil
}
