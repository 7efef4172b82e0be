// Package pipeline implements the Pipeline Driver: the state machine that
// sequences analysis, progressive search, scoring, validation, and
// rendering into one discovery run, writing one artifact per phase and
// producing a terminal Summary.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kcurator/awesome-discover/pkg/agent"
	"github.com/kcurator/awesome-discover/pkg/config"
	"github.com/kcurator/awesome-discover/pkg/costing"
	"github.com/kcurator/awesome-discover/pkg/list"
	"github.com/kcurator/awesome-discover/pkg/llmprovider"
	"github.com/kcurator/awesome-discover/pkg/logging"
	"github.com/kcurator/awesome-discover/pkg/orchestrator"
	"github.com/kcurator/awesome-discover/pkg/report"
	"github.com/kcurator/awesome-discover/pkg/scoring"
	"github.com/kcurator/awesome-discover/pkg/search"
	"github.com/kcurator/awesome-discover/pkg/validator"
	"github.com/rs/zerolog"
)

// Fetcher retrieves the README source a run starts from.
type Fetcher interface {
	FetchReadme(ctx context.Context, repoURL string) ([]byte, error)
}

// Driver owns every component a run wires together and advances them
// through the fixed phase sequence.
type Driver struct {
	Config   *config.Config
	Fetcher  Fetcher
	Provider llmprovider.Provider
	Searcher llmprovider.Searcher
	Tracker  *costing.Tracker
	Logs     *logging.Set

	ContentAnalyzer *agent.ContentAnalyzer
	TermExpander    *agent.TermExpander
	GapAnalyzer     *agent.GapAnalyzer
	QueryPlanner    *agent.QueryPlanner
	Validator       *validator.Validator

	state  State
	logger zerolog.Logger
}

// Run executes the full phase sequence against runDir, which must already
// exist. It never panics on a phase failure: every error is folded into
// the returned Summary's Err. TerminatedAt is StateDone on success and
// StateAborted on any error; the phase in which the error occurred is not
// recorded separately.
func (d *Driver) Run(ctx context.Context) Summary {
	start := time.Now()
	d.logger = d.Logs.For(logging.ComponentPipeline)
	d.state = StateInit
	runDir := d.Config.OutputDir

	ctx, cancel := context.WithTimeout(ctx, d.Config.WallTime)
	defer cancel()

	validated, err := d.run(ctx, runDir)
	err = classifyErr(err)

	terminatedAt := d.state
	if err != nil {
		terminatedAt = StateAborted
	}

	return Summary{
		RunDir:         runDir,
		TerminatedAt:   terminatedAt,
		ValidatedLinks: len(validated),
		TotalCostUSD:   d.Tracker.Total(),
		Duration:       time.Since(start),
		Err:            err,
	}
}

func (d *Driver) run(ctx context.Context, runDir string) ([]validator.ValidatedLink, error) {
	original, err := d.parse(ctx, runDir)
	if err != nil {
		return nil, err
	}

	analysis, categorySummaries, err := d.analyze(ctx, runDir, original)
	if err != nil {
		return nil, err
	}

	expandedTerms, err := d.planCategories(ctx, runDir, original, categorySummaries)
	if err != nil {
		return nil, err
	}

	if d.Config.DryRun {
		d.state = StateDone
		return nil, nil
	}

	memory := search.NewMemory(d.Logs.For(logging.ComponentMemory))
	memory.SeedKnownURLs(knownCanonicalURLs(original))
	categoryResults, err := d.searchAll(ctx, runDir, original, memory, expandedTerms)
	if err != nil {
		return nil, err
	}

	scored, err := d.dedupAndScore(ctx, runDir, original, categoryResults, expandedTerms)
	if err != nil {
		return nil, err
	}

	validated, err := d.validate(ctx, runDir, analysis, scored)
	if err != nil {
		return nil, err
	}

	if err := d.render(ctx, runDir, original, memory, validated); err != nil {
		return nil, err
	}

	d.state = StateDone
	return validated, nil
}

func (d *Driver) parse(ctx context.Context, runDir string) (list.List, error) {
	d.state = StateParsing
	if err := ctx.Err(); err != nil {
		return list.List{}, err
	}

	raw, err := d.Fetcher.FetchReadme(ctx, d.Config.RepoURL)
	if err != nil {
		logging.LogError(d.logger, logging.ComponentPipeline, string(StateParsing), err)
		return list.List{}, fmt.Errorf("pipeline: fetch readme: %w", err)
	}

	original, err := list.Parse(raw)
	if err != nil {
		logging.LogError(d.logger, logging.ComponentPipeline, string(StateParsing), err)
		return list.List{}, fmt.Errorf("pipeline: parse readme: %w", err)
	}

	if err := writeJSON(runDir, "original.json", original); err != nil {
		return list.List{}, err
	}
	return original, nil
}

func (d *Driver) analyze(ctx context.Context, runDir string, original list.List) (agent.ContentAnalysis, []agent.CategorySummary, error) {
	d.state = StateAnalysis
	if err := ctx.Err(); err != nil {
		return agent.ContentAnalysis{}, nil, err
	}

	summaries := make([]agent.CategorySummary, 0, len(original.Categories))
	for _, cat := range original.Categories {
		titles := make([]string, 0, len(cat.Entries))
		for _, e := range cat.Entries {
			titles = append(titles, e.Title)
		}
		summaries = append(summaries, agent.CategorySummary{Name: cat.Name, ExampleTitles: titles})
	}

	analysis, err := d.ContentAnalyzer.Analyze(ctx, d.Config.RepoURL, summaries)
	if err != nil {
		if costing.IsCeilingExceeded(err) {
			return agent.ContentAnalysis{}, nil, err
		}
		logging.LogError(d.logger, logging.ComponentPipeline, string(StateAnalysis), err)
		return agent.ContentAnalysis{}, nil, fmt.Errorf("pipeline: analyze content: %w", err)
	}

	if err := writeJSON(runDir, "context_analysis.json", analysis); err != nil {
		return agent.ContentAnalysis{}, nil, err
	}
	return analysis, summaries, nil
}

func (d *Driver) planCategories(ctx context.Context, runDir string, original list.List, summaries []agent.CategorySummary) (map[string][]string, error) {
	d.state = StatePlanning
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	expandedTerms := make(map[string][]string, len(summaries))
	gapInputs := make([]agent.CategoryInput, 0, len(summaries))

	for _, s := range summaries {
		expanded, err := d.TermExpander.Expand(ctx, s.Name, s.ExampleTitles)
		if err != nil {
			if costing.IsCeilingExceeded(err) {
				return nil, err
			}
			logging.LogError(d.logger, logging.ComponentPipeline, string(StatePlanning), err)
			return nil, fmt.Errorf("pipeline: expand terms for %s: %w", s.Name, err)
		}
		expandedTerms[s.Name] = expanded.Terms
		gapInputs = append(gapInputs, agent.CategoryInput{
			Name:          s.Name,
			CurrentTitles: s.ExampleTitles,
			ExpandedTerms: expanded.Terms,
		})
	}

	gapByCategory, err := d.GapAnalyzer.Analyze(ctx, gapInputs)
	if err != nil {
		if costing.IsCeilingExceeded(err) {
			return nil, err
		}
		logging.LogError(d.logger, logging.ComponentPipeline, string(StatePlanning), err)
		return nil, fmt.Errorf("pipeline: analyze gaps: %w", err)
	}

	queriesByCategory := make(map[string][]string, len(summaries))
	for _, s := range summaries {
		gap := gapByCategory[s.Name]
		knownURLs := make([]string, 0, len(original.Categories))
		for _, cat := range original.Categories {
			if cat.Name == s.Name {
				for _, e := range cat.Entries {
					knownURLs = append(knownURLs, e.URL)
				}
			}
		}

		plan, err := d.QueryPlanner.Plan(ctx, agent.PlanInput{
			Category:      s.Name,
			ExpandedTerms: expandedTerms[s.Name],
			GapAnalysis:   gap,
			KnownURLs:     knownURLs,
		}, d.Config.Seed)
		if err != nil {
			if costing.IsCeilingExceeded(err) {
				return nil, err
			}
			logging.LogError(d.logger, logging.ComponentPipeline, string(StatePlanning), err)
			return nil, fmt.Errorf("pipeline: plan queries for %s: %w", s.Name, err)
		}

		queriesByCategory[s.Name] = plan.Queries
	}

	if err := writeJSON(runDir, "expanded_terms.json", expandedTerms); err != nil {
		return nil, err
	}
	// plan.json is the contractual {<category>: [query, ...]} shape. Expanded
	// terms go to their own artifact above; gap analyses only feed the
	// planner calls and are not written to disk.
	if err := writeJSON(runDir, "plan.json", queriesByCategory); err != nil {
		return nil, err
	}
	return queriesByCategory, nil
}

// knownCanonicalURLs canonicalizes every entry already present in original,
// so Search Memory can reject their rediscovery under any source query and
// the validated_links/original invariant holds without a later filter pass.
func knownCanonicalURLs(original list.List) []string {
	var urls []string
	for _, cat := range original.Categories {
		for _, e := range cat.Entries {
			urls = append(urls, search.Canonicalize(e.URL))
		}
	}
	return urls
}

func (d *Driver) searchAll(ctx context.Context, runDir string, original list.List, memory *search.Memory, queriesByCategory map[string][]string) ([]orchestrator.CategoryResult, error) {
	d.state = StateProgressiveSearch
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	orch := &orchestrator.Orchestrator{
		Searcher: d.Searcher,
		Planner:  d.QueryPlanner,
		Tracker:  d.Tracker,
		Memory:   memory,
		Model:    d.Config.ResearcherModel,
		Seed:     d.Config.Seed,
		Tuning: orchestrator.Tuning{
			MaxRounds:         config.MaxRounds,
			MinNewPerRound:    config.MinNewPerRound,
			QueriesPerRound:   config.QueriesPerRound,
			ResultsPerQuery:   config.ResultsPerQuery,
			OverrepThreshold:  config.OverrepThreshold,
			TargetPerCategory: config.TargetPerCategory,
		},
		Logger:    d.Logs.For(logging.ComponentSearch),
		ErrLogger: d.Logs.For(logging.ComponentErrors),
	}

	results := make([]orchestrator.CategoryResult, 0, len(original.Categories))
	for _, cat := range original.Categories {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result, err := orch.RunCategory(ctx, cat.Name, queriesByCategory[cat.Name])
		if err != nil {
			logging.LogError(d.logger, logging.ComponentPipeline, string(StateProgressiveSearch), err)
			return results, fmt.Errorf("pipeline: search category %s: %w", cat.Name, err)
		}
		results = append(results, result)
	}

	if err := writeJSON(runDir, "search_memory.json", memory.Export()); err != nil {
		return results, err
	}
	return results, nil
}

func (d *Driver) dedupAndScore(ctx context.Context, runDir string, original list.List, categoryResults []orchestrator.CategoryResult, expandedTerms map[string][]string) ([]scoring.Scored, error) {
	d.state = StateDedupScore
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []search.Result
	for _, r := range categoryResults {
		all = append(all, r.Accepted...)
	}
	deduped := scoring.Dedup(all)

	ctxByCategory := make(map[string]scoring.CategoryContext, len(original.Categories))
	for _, cat := range original.Categories {
		domainCounts := make(map[string]int)
		for _, e := range cat.Entries {
			domainCounts[search.NewResult(e.URL, e.Title, e.Description, cat.Name, "", time.Time{}).Domain]++
		}
		overrep := make(map[string]bool)
		for domain, count := range domainCounts {
			if count > config.OverrepThreshold {
				overrep[domain] = true
			}
		}
		ctxByCategory[cat.Name] = scoring.CategoryContext{
			ExpandedTerms:                  expandedTerms[cat.Name],
			OverrepresentedOriginalDomains: overrep,
		}
	}

	scored := scoring.Score(deduped, ctxByCategory, config.MaxLinks)
	if err := writeJSON(runDir, "scored_candidates.json", scored); err != nil {
		return nil, err
	}
	return scored, nil
}

func (d *Driver) validate(ctx context.Context, runDir string, analysis agent.ContentAnalysis, scored []scoring.Scored) ([]validator.ValidatedLink, error) {
	d.state = StateValidation
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	domainContext := fmt.Sprintf("%s (%s, audience: %s)", analysis.PrimaryDomain, analysis.ProgrammingLanguage, analysis.Audience)
	validated, err := d.Validator.Validate(ctx, domainContext, scored)
	if err != nil {
		logging.LogError(d.logger, logging.ComponentPipeline, string(StateValidation), err)
		return nil, fmt.Errorf("pipeline: validate candidates: %w", err)
	}

	if err := writeJSON(runDir, "validated_links.json", validated); err != nil {
		return nil, err
	}
	return validated, nil
}

func (d *Driver) render(ctx context.Context, runDir string, original list.List, memory *search.Memory, validated []validator.ValidatedLink) error {
	d.state = StateRendering
	if err := ctx.Err(); err != nil {
		return err
	}

	updated := list.Render(original, validated)
	if err := writeText(runDir, "updated_list.md", updated); err != nil {
		return err
	}

	gaps := make(map[string]search.Gap, len(original.Categories))
	for _, cat := range original.Categories {
		gaps[cat.Name] = memory.Gaps(cat.Name, config.TargetPerCategory)
	}

	researchReport := report.Research(d.Config.RepoURL, gaps, validated, d.Tracker.Total())
	if err := writeText(runDir, "research_report.md", researchReport); err != nil {
		return err
	}

	graph := report.Graph(validated)
	if err := writeText(runDir, "graph.html", graph); err != nil {
		return err
	}

	return nil
}

// NewRunDir creates a fresh, empty run directory under base, named by the
// current instant, and returns its path.
func NewRunDir(base string, now time.Time) (string, error) {
	name := now.UTC().Format("2006-01-02T15-04-05Z")
	dir := filepath.Join(base, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("pipeline: create run directory: %w", err)
	}
	return dir, nil
}

// classifyErr rewrites a raw context cancellation into the sentinel the
// rest of the package (and the CLI's exit code) recognizes.
func classifyErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w", ErrWallTimeExceeded)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w", ErrInterrupted)
	default:
		return err
	}
}
