package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kcurator/awesome-discover/pkg/agent"
	"github.com/kcurator/awesome-discover/pkg/config"
	"github.com/kcurator/awesome-discover/pkg/costing"
	"github.com/kcurator/awesome-discover/pkg/llmprovider"
	"github.com/kcurator/awesome-discover/pkg/logging"
	"github.com/kcurator/awesome-discover/pkg/validator"
	"github.com/stretchr/testify/require"
)

const testReadme = `# Test Awesome List

## Category A

- [Existing One](https://example.com/existing-1) - an existing entry
- [Existing Two](https://example.com/existing-2) - another existing entry
`

type stubFetcher struct {
	body []byte
	err  error
}

func (s stubFetcher) FetchReadme(_ context.Context, _ string) ([]byte, error) {
	return s.body, s.err
}

// searchResponsesFor builds a FakeSearcher response set covering exactly
// the queries the scripted Query Planner response hands back, six
// distinct hits per query.
func searchResponsesFor(queries []string) map[string]llmprovider.SearchOutput {
	responses := make(map[string]llmprovider.SearchOutput, len(queries))
	n := 0
	for _, q := range queries {
		hits := make([]map[string]string, 0, 6)
		for i := 0; i < 6; i++ {
			n++
			hits = append(hits, map[string]string{
				"url":         fmt.Sprintf("https://found.example.com/item-%d", n),
				"title":       fmt.Sprintf("Found Item %d", n),
				"description": "a substantial writeup covering a real testing tool in depth",
			})
		}
		body, _ := json.Marshal(map[string]interface{}{"hits": hits})
		responses[q] = llmprovider.SearchOutput{Text: string(body)}
	}
	return responses
}

// acceptAllProvider reads the candidate URLs out of the validator's own
// request and accepts every one of them, so it works across however many
// batches Validate ends up issuing.
type acceptAllProvider struct{}

func (acceptAllProvider) Generate(_ context.Context, in llmprovider.GenerateInput) (llmprovider.GenerateOutput, error) {
	var req struct {
		Candidates []struct {
			URL string `json:"url"`
		} `json:"candidates"`
	}
	_ = json.Unmarshal([]byte(in.UserPrompt), &req)

	results := make([]map[string]interface{}, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		results = append(results, map[string]interface{}{"url": c.URL, "accepted": true, "reason": "relevant"})
	}
	body, _ := json.Marshal(map[string]interface{}{"results": results})
	return llmprovider.GenerateOutput{Text: string(body)}, nil
}

// testDriver wires a Driver entirely from fakes: no network call is ever
// made. runDir is a fresh t.TempDir().
func newTestDriver(t *testing.T, runDir string, ceiling float64) *Driver {
	t.Helper()

	cfg := &config.Config{
		RepoURL:         "https://github.com/acme/awesome",
		WallTime:        10 * time.Second,
		CostCeiling:     ceiling,
		OutputDir:       runDir,
		AnalyzerModel:   config.DefaultAnalyzerModel,
		PlannerModel:    config.DefaultPlannerModel,
		ResearcherModel: config.DefaultResearcherModel,
		ValidatorModel:  config.DefaultValidatorModel,
	}

	tracker := costing.NewTracker(config.NewPricingTable(), cfg.CostCeiling)
	logs, err := logging.NewSet(runDir)
	require.NoError(t, err)
	t.Cleanup(logs.Close)

	contentAnalyzerProvider := &llmprovider.FakeProvider{Responses: []llmprovider.GenerateOutput{
		{
			Text:  `{"primary_domain":"testing","programming_language":"Go","audience":"developers","existing_category_semantics":{"Category A":"testing utilities"}}`,
			Usage: llmprovider.Usage{InputTokens: 1200, OutputTokens: 300},
		},
	}}
	termExpanderProvider := &llmprovider.FakeProvider{Responses: []llmprovider.GenerateOutput{
		{Text: `{"terms":["testing","mocks","assertions"]}`},
	}}
	gapAnalyzerProvider := &llmprovider.FakeProvider{Responses: []llmprovider.GenerateOutput{
		{Text: `{"Category A":{"missing_topics":["mocking"],"suggested_terms":["test doubles"]}}`},
	}}
	plannedQueries := []string{"go testing library", "go mocking framework", "golang assertion helpers"}
	queryPlannerProvider := &llmprovider.FakeProvider{Responses: []llmprovider.GenerateOutput{
		{Text: `{"queries":["go testing library","go mocking framework","golang assertion helpers"]}`},
	}}

	contentAnalyzer := agent.NewContentAnalyzer(agent.NewBase("content_analyzer", cfg.AnalyzerModel, contentAnalyzerProvider, tracker, logs))
	termExpander := agent.NewTermExpander(agent.NewBase("term_expander", cfg.AnalyzerModel, termExpanderProvider, tracker, logs))
	gapAnalyzer := agent.NewGapAnalyzer(agent.NewBase("gap_analyzer", cfg.AnalyzerModel, gapAnalyzerProvider, tracker, logs))
	queryPlanner := agent.NewQueryPlanner(agent.NewBase("query_planner", cfg.PlannerModel, queryPlannerProvider, tracker, logs))
	val := validator.New(agent.NewBase("validator", cfg.ValidatorModel, acceptAllProvider{}, tracker, logs), 5, logs.For(logging.ComponentErrors))

	return &Driver{
		Config:          cfg,
		Fetcher:         stubFetcher{body: []byte(testReadme)},
		Searcher:        &llmprovider.FakeSearcher{Responses: searchResponsesFor(plannedQueries)},
		Tracker:         tracker,
		Logs:            logs,
		ContentAnalyzer: contentAnalyzer,
		TermExpander:    termExpander,
		GapAnalyzer:     gapAnalyzer,
		QueryPlanner:    queryPlanner,
		Validator:       val,
	}
}

func TestDriverRunHappyPath(t *testing.T) {
	runDir := t.TempDir()
	d := newTestDriver(t, runDir, 1000)

	summary := d.Run(context.Background())

	require.NoError(t, summary.Err)
	require.Equal(t, StateDone, summary.TerminatedAt)
	require.Greater(t, summary.ValidatedLinks, 0)
	require.Greater(t, summary.TotalCostUSD, 0.0)

	for _, name := range []string{
		"original.json", "context_analysis.json", "expanded_terms.json", "plan.json",
		"search_memory.json", "scored_candidates.json", "validated_links.json",
		"updated_list.md", "research_report.md", "graph.html",
	} {
		assertFileExists(t, runDir, name)
	}
}

func TestDriverRunAbortsOnCeilingExceeded(t *testing.T) {
	runDir := t.TempDir()
	// A near-zero ceiling fails the very first cost-guard check in the
	// Content Analyzer call, before any artifact beyond original.json.
	d := newTestDriver(t, runDir, 0.00000001)

	summary := d.Run(context.Background())

	require.Error(t, summary.Err)
	require.Equal(t, StateAborted, summary.TerminatedAt)
	require.Equal(t, 0, summary.ValidatedLinks)
	require.Equal(t, 1, summary.ExitCode())

	assertFileExists(t, runDir, "original.json")
}

func TestDriverRunFetchFailure(t *testing.T) {
	runDir := t.TempDir()
	d := newTestDriver(t, runDir, 1000)
	d.Fetcher = stubFetcher{err: fmt.Errorf("network unreachable")}

	summary := d.Run(context.Background())

	require.Error(t, summary.Err)
	require.Equal(t, StateAborted, summary.TerminatedAt)
	require.Equal(t, 1, summary.ExitCode())
}

func assertFileExists(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected artifact %s to exist: %v", name, err)
	}
}
