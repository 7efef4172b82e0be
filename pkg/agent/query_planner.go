package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kcurator/awesome-discover/pkg/agent/prompt"
)

// QueryPlan is the Query Planner's output: an ordered, deduplicated list
// of concrete web-search queries for one category.
type QueryPlan struct {
	Queries []string `json:"queries"`
}

// QueryPlanner produces round-1 and refinement queries for one category.
type QueryPlanner struct{ base *Base }

func NewQueryPlanner(base *Base) *QueryPlanner { return &QueryPlanner{base: base} }

// PlanInput is the context behind one planning call: the category's
// expanded terms, its gap analysis, and the URLs already known for it.
type PlanInput struct {
	Category      string              `json:"category"`
	ExpandedTerms []string            `json:"expanded_terms"`
	GapAnalysis   CategoryGapAnalysis `json:"gap_analysis"`
	KnownURLs     []string            `json:"known_urls"`
}

// Plan runs the round-1 planning call. If seed is non-nil, the prompt asks
// the model to break ties deterministically against it, so a fixed seed
// plus fixed model responses reproduce a byte-equal plan.
func (a *QueryPlanner) Plan(ctx context.Context, in PlanInput, seed *int64) (QueryPlan, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return QueryPlan{}, fmt.Errorf("query_planner: marshal input: %w", err)
	}

	system := prompt.QueryPlannerV1
	if seed != nil {
		system = prompt.WithSeed(system, *seed)
	}

	var out QueryPlan
	if err := a.base.Call(ctx, system, string(payload), 2000, &out); err != nil {
		return QueryPlan{}, err
	}
	return out, nil
}

// RefinementInput is the context behind a round-2+ planning call.
type RefinementInput struct {
	Category        string   `json:"category"`
	CurrentlyNeeded int      `json:"currently_needed"`
	OverrepHints    []string `json:"overrepresented_hints"`
	UsedQueries     []string `json:"used_queries"`
}

// Refine runs a refinement planning call, excluding already-used queries.
// The caller must still filter the result against usedQueries: the model
// is asked to avoid them but is not trusted to comply perfectly.
func (a *QueryPlanner) Refine(ctx context.Context, in RefinementInput, seed *int64) (QueryPlan, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return QueryPlan{}, fmt.Errorf("query_planner: marshal refinement input: %w", err)
	}

	system := prompt.QueryPlannerRefinementV1
	if seed != nil {
		system = prompt.WithSeed(system, *seed)
	}

	var out QueryPlan
	if err := a.base.Call(ctx, system, string(payload), 1500, &out); err != nil {
		return QueryPlan{}, err
	}
	return out, nil
}
