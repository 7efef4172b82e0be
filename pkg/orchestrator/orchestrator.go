// Package orchestrator implements the per-category progressive Search
// Orchestrator: round-based querying, concurrent fan-out
// within a round, and diminishing-returns termination.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kcurator/awesome-discover/pkg/agent"
	"github.com/kcurator/awesome-discover/pkg/costing"
	"github.com/kcurator/awesome-discover/pkg/jsonutil"
	"github.com/kcurator/awesome-discover/pkg/llmprovider"
	"github.com/kcurator/awesome-discover/pkg/logging"
	"github.com/kcurator/awesome-discover/pkg/search"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Tuning holds the constants governing round progression, mirroring
// the config package's search-tuning constants.
type Tuning struct {
	MaxRounds         int
	MinNewPerRound    int
	QueriesPerRound   int
	ResultsPerQuery   int
	OverrepThreshold  int
	TargetPerCategory int
}

// CategoryResult summarizes one category's progressive search run.
type CategoryResult struct {
	Category    string
	Accepted    []search.Result
	RoundsRun   int
	UsedQueries []string
}

// Orchestrator runs the per-category control loop. One instance is reused
// sequentially across categories within a single pipeline run; categories
// are not searched concurrently with each other.
type Orchestrator struct {
	Searcher llmprovider.Searcher
	Planner  *agent.QueryPlanner
	Tracker  *costing.Tracker
	Memory   *search.Memory
	Model    string
	Tuning   Tuning
	Seed     *int64

	Logger    zerolog.Logger
	ErrLogger zerolog.Logger
}

// searchHit is the wire shape of one entry in a Searcher's hits response.
type searchHit struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type searchHits struct {
	Hits []searchHit `json:"hits"`
}

// RunCategory executes the progressive search loop for one category,
// seeded with the planner's round-1 query list.
func (o *Orchestrator) RunCategory(ctx context.Context, category string, initialQueries []string) (CategoryResult, error) {
	result := CategoryResult{Category: category}
	used := make(map[string]bool)

	for round := 1; round <= o.Tuning.MaxRounds; round++ {
		if ctx.Err() != nil {
			break
		}

		gap := o.Memory.Gaps(category, o.Tuning.TargetPerCategory)
		if gap.Needed == 0 {
			break
		}

		queries, err := o.selectQueries(ctx, category, round, initialQueries, gap, used)
		if err != nil {
			logging.LogError(o.ErrLogger, logging.ComponentSearch, category, err)
			break
		}
		if len(queries) == 0 {
			break
		}
		for _, q := range queries {
			used[q] = true
		}
		result.UsedQueries = append(result.UsedQueries, queries...)
		result.RoundsRun = round

		accepted := o.runRound(ctx, category, round, queries)
		result.Accepted = append(result.Accepted, accepted...)

		if round > 1 && len(accepted) < o.Tuning.MinNewPerRound {
			break // diminishing returns
		}
	}

	return result, nil
}

// selectQueries picks round 1's top-N planner queries, or asks for a
// refinement round for round 2+, filtered against already-used queries.
func (o *Orchestrator) selectQueries(
	ctx context.Context,
	category string,
	round int,
	initialQueries []string,
	gap search.Gap,
	used map[string]bool,
) ([]string, error) {
	if round == 1 {
		return firstN(filterUsed(initialQueries, used), o.Tuning.QueriesPerRound), nil
	}

	hints := o.Memory.RefinementHints(category, o.Tuning.OverrepThreshold)
	plan, err := o.Planner.Refine(ctx, agent.RefinementInput{
		Category:        category,
		CurrentlyNeeded: gap.Needed,
		OverrepHints:    hints,
		UsedQueries:     keysOf(used),
	}, o.Seed)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: refine queries for %s round %d: %w", category, round, err)
	}

	return firstN(filterUsed(plan.Queries, used), o.Tuning.QueriesPerRound), nil
}

// runRound executes all of a round's queries concurrently and returns the
// results Search Memory accepted. Each query is pre-filtered with
// IsDuplicate before the (cheap, local) Add call; duplicate races across
// concurrent queries are resolved by Add's atomicity — first-committer
// wins, losers return false without error.
func (o *Orchestrator) runRound(ctx context.Context, category string, round int, queries []string) []search.Result {
	var (
		mu       sync.Mutex
		accepted []search.Result
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, q := range queries {
		query := q
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			hits, err := o.searchOnce(gctx, category, query)
			if err != nil {
				logging.LogError(o.ErrLogger, logging.ComponentSearch, category, err)
				return nil // a single failed query is logged and skipped, never fails the round
			}

			for _, h := range hits.Hits {
				if h.URL == "" {
					continue
				}
				if o.Memory.IsDuplicate(h.URL, h.Title, h.Description) {
					continue
				}
				r := search.NewResult(h.URL, h.Title, h.Description, category, query, time.Now().UTC())
				if o.Memory.Add(r) {
					mu.Lock()
					accepted = append(accepted, r)
					mu.Unlock()
				}
			}
			return nil
		})
	}

	_ = g.Wait() // every Go func always returns nil; errors are logged, not propagated
	return accepted
}

// searchOnce runs the cost-guarded, logged web_search call for one query
// and parses its JSON hit list.
func (o *Orchestrator) searchOnce(ctx context.Context, category, query string) (searchHits, error) {
	const estimatedTokens = 2500

	if err := o.Tracker.CheckCeiling(o.Model, estimatedTokens); err != nil {
		return searchHits{}, fmt.Errorf("category %s query %q: %w", category, query, err)
	}

	callID := uuid.NewString()

	start := time.Now()
	out, err := o.Searcher.Search(ctx, o.Model, query, o.Tuning.ResultsPerQuery)
	if err != nil {
		return searchHits{}, fmt.Errorf("category %s query %q: %w", category, query, err)
	}
	elapsed := time.Since(start)

	cost := o.Tracker.TrackUsage(o.Model, int(out.Usage.InputTokens), int(out.Usage.OutputTokens), "search_orchestrator")
	logging.LogLLMCall(o.Logger, logging.LLMCallRecord{
		CallID: callID,
		Agent:  "search_orchestrator",
		Model:  o.Model,
		Messages: []map[string]string{
			{"role": "user", "content": query},
		},
		Response:     out.Text,
		InputTokens:  int(out.Usage.InputTokens),
		OutputTokens: int(out.Usage.OutputTokens),
		CostUSD:      cost,
		Elapsed:      elapsed,
	})

	var hits searchHits
	if err := json.Unmarshal([]byte(jsonutil.ExtractFenced(out.Text)), &hits); err != nil {
		return searchHits{}, fmt.Errorf("category %s query %q: parse hits: %s", category, query, jsonutil.Preview(out.Text, 200))
	}
	return hits, nil
}

func filterUsed(queries []string, used map[string]bool) []string {
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		if !used[q] {
			out = append(out, q)
		}
	}
	return out
}

func firstN(items []string, n int) []string {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

func keysOf(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
