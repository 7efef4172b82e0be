// Command discover runs one Awesome-list link-discovery pass: fetch a
// repository's README, analyze and plan against its existing categories,
// search progressively, dedup and score, validate with an LLM judge, and
// render an updated list plus a research report.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kcurator/awesome-discover/pkg/agent"
	"github.com/kcurator/awesome-discover/pkg/config"
	"github.com/kcurator/awesome-discover/pkg/costing"
	"github.com/kcurator/awesome-discover/pkg/lint"
	"github.com/kcurator/awesome-discover/pkg/llmprovider"
	"github.com/kcurator/awesome-discover/pkg/logging"
	"github.com/kcurator/awesome-discover/pkg/pipeline"
	"github.com/kcurator/awesome-discover/pkg/source"
	"github.com/kcurator/awesome-discover/pkg/validator"
	"github.com/kcurator/awesome-discover/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	repoURL := flag.String("repo_url", "", "GitHub repository URL of the Awesome list to extend (required)")
	wallTime := flag.Int("wall_time", 600, "maximum wall-clock seconds for the run")
	costCeiling := flag.Float64("cost_ceiling", 10.0, "maximum cumulative LLM spend in USD before the run aborts")
	outputDir := flag.String("output_dir", "runs", "base directory under which one timestamped run directory is created")
	seed := flag.Int64("seed", 0, "deterministic planning seed; omit for nondeterministic planning")
	modelAnalyzer := flag.String("model_analyzer", "", "model identifier for the content analyzer, term expander, and gap analyzer")
	modelPlanner := flag.String("model_planner", "", "model identifier for the query planner")
	modelResearcher := flag.String("model_researcher", "", "model identifier for the search orchestrator's web-search calls")
	modelValidator := flag.String("model_validator", "", "model identifier for the validator")
	pricingFile := flag.String("pricing_file", "", "optional YAML file overriding built-in per-model pricing")
	dryRun := flag.Bool("dry_run", false, "stop after analysis and planning, before any search or validation spend")
	lintCommand := flag.String("lint_command", "", "external Awesome-list linter to run against updated_list.md; empty skips linting")
	envFile := flag.String("env_file", ".env", "path to a .env file to load before resolving configuration")
	flag.Parse()

	log.Printf("Starting %s", version.Full())

	if err := godotenv.Load(*envFile); err != nil {
		log.Printf("Warning: could not load %s: %v", *envFile, err)
		log.Printf("Continuing with existing environment variables...")
	} else {
		log.Printf("Loaded environment from %s", *envFile)
	}

	if *repoURL == "" {
		log.Println("discover: --repo_url is required")
		os.Exit(1)
	}

	flags := config.Flags{
		RepoURL:         *repoURL,
		WallTimeSeconds: *wallTime,
		CostCeiling:     *costCeiling,
		OutputDir:       *outputDir,
		Seed:            *seed,
		SeedSet:         isFlagSet("seed"),
		AnalyzerModel:   *modelAnalyzer,
		PlannerModel:    *modelPlanner,
		ResearcherModel: *modelResearcher,
		ValidatorModel:  *modelValidator,
		PricingFile:     *pricingFile,
		DryRun:          *dryRun,
	}

	cfg, err := config.Resolve(flags)
	if err != nil {
		log.Printf("discover: %v", err)
		os.Exit(1)
	}

	runDir, err := pipeline.NewRunDir(cfg.OutputDir, time.Now())
	if err != nil {
		log.Printf("discover: %v", err)
		os.Exit(1)
	}
	cfg.OutputDir = runDir
	log.Printf("discover: run directory %s", runDir)

	pricing := config.NewPricingTable()
	if err := pricing.LoadOverrides(cfg.PricingFile); err != nil {
		log.Printf("discover: loading pricing overrides: %v", err)
		os.Exit(1)
	}
	tracker := costing.NewTracker(pricing, cfg.CostCeiling)

	logs, err := logging.NewSet(runDir)
	if err != nil {
		log.Printf("discover: starting logging: %v", err)
		os.Exit(1)
	}
	defer logs.Close()

	provider := llmprovider.NewAnthropicProvider(cfg.AnthropicAPIKey)
	searcher := llmprovider.NewAnthropicSearcher(cfg.AnthropicAPIKey)

	contentAnalyzer := agent.NewContentAnalyzer(agent.NewBase("content_analyzer", cfg.AnalyzerModel, provider, tracker, logs))
	termExpander := agent.NewTermExpander(agent.NewBase("term_expander", cfg.AnalyzerModel, provider, tracker, logs))
	gapAnalyzer := agent.NewGapAnalyzer(agent.NewBase("gap_analyzer", cfg.AnalyzerModel, provider, tracker, logs))
	queryPlanner := agent.NewQueryPlanner(agent.NewBase("query_planner", cfg.PlannerModel, provider, tracker, logs))
	val := validator.New(agent.NewBase("validator", cfg.ValidatorModel, provider, tracker, logs), 5, logs.For(logging.ComponentErrors))

	driver := &pipeline.Driver{
		Config:          cfg,
		Fetcher:         source.NewFetcher(getEnv("GITHUB_TOKEN", "")),
		Provider:        provider,
		Searcher:        searcher,
		Tracker:         tracker,
		Logs:            logs,
		ContentAnalyzer: contentAnalyzer,
		TermExpander:    termExpander,
		GapAnalyzer:     gapAnalyzer,
		QueryPlanner:    queryPlanner,
		Validator:       val,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary := driver.Run(ctx)
	log.Println(summary.String())

	if !cfg.DryRun && *lintCommand != "" {
		runLint(*lintCommand, runDir)
	}

	os.Exit(summary.ExitCode())
}

// isFlagSet reports whether name was explicitly passed on the command
// line, distinguishing an explicit --seed=0 from the flag being omitted.
func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func runLint(lintCommand, runDir string) {
	parts := strings.Fields(lintCommand)
	if len(parts) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := lint.Run(ctx, parts[0], parts[1:], filepath.Join(runDir, "updated_list.md"))
	if err != nil {
		log.Printf("discover: lint: %v", err)
		return
	}
	if !result.Passed {
		log.Printf("discover: lint failed:\n%s", result.Output)
	} else {
		log.Printf("discover: lint passed")
	}
}
