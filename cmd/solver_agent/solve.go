package main

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/challenge-solver/internal/analysis"
	"github.com/jonathan/challenge-solver/internal/capture"
	"github.com/jonathan/challenge-solver/internal/config"
	"github.com/jonathan/challenge-solver/internal/db"
	"github.com/jonathan/challenge-solver/internal/imaging"
	"github.com/jonathan/challenge-solver/internal/llm"
	"github.com/jonathan/challenge-solver/internal/manifest"
	"github.com/jonathan/challenge-solver/internal/observability"
)

var solveCommand = &cobra.Command{
	Use:   "solve",
	Short: "Solve one challenge from a manifest or a live page",
	Long: `Runs the full analysis: instruction interpretation -> shape segmentation ->
duplicate suppression -> content classification -> decision.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runSolveCmd,
}

var (
	solveConfigPath  string
	solveChallenge   string
	solvePageURL     string
	solveAPIKey      string
	solveDatabaseURL string
	solveVerbose     bool
)

func init() {
	solveCommand.Flags().StringVar(&solveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	solveCommand.Flags().StringVarP(&solveChallenge, "challenge", "c", "", "Path to a challenge manifest JSON file (mutually exclusive with --page-url)")
	solveCommand.Flags().StringVar(&solvePageURL, "page-url", "", "URL of a live challenge page to capture (mutually exclusive with --challenge)")
	solveCommand.Flags().BoolVarP(&solveVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	solveCommand.Flags().StringVar(&solveAPIKey, "api-key", "", "Gemini API Key for the unknown-rule fallback (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for run persistence
	solveCommand.Flags().StringVar(&solveDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(solveCommand)
}

func runSolveCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := buildSolveConfig(cmd)
	if err != nil {
		return err
	}

	markup, images, source, err := loadChallenge(ctx, cfg)
	if err != nil {
		return err
	}

	orchestrator := analysis.New(cfg.Vision, cfg.Verbose)
	if cfg.APIKey != "" {
		client, err := llm.NewClient(ctx, nil, cfg.APIKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer client.Close()
		orchestrator.WithRuleFallback(llm.RuleFallback(client))
	}

	outcome := orchestrator.Analyze(ctx, markup, images)

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stderr)
		printer.PrintRule(outcome.Rule)
		printer.PrintResults(outcome.Results)
		printer.PrintDecision(outcome.Decision)
	}

	if cfg.DatabaseURL != "" {
		if err := persistRun(ctx, cfg.DatabaseURL, source, markup, outcome); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: run persistence failed: %v\n", err)
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(outcome)
}

// buildSolveConfig layers the config file, CLI flags, and environment.
func buildSolveConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if solveConfigPath != "" {
		loadedCfg, err := config.LoadConfig(solveConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
		if solveVerbose {
			_, _ = fmt.Fprintf(os.Stderr, "Loaded config from: %s\n", solveConfigPath)
		}
	}

	// CLI overrides: only when the flag was explicitly set
	if cmd.Flags().Changed("challenge") {
		cfg.Challenge = solveChallenge
	}
	if cmd.Flags().Changed("page-url") {
		cfg.PageURL = solvePageURL
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = solveAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = solveDatabaseURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = solveVerbose
	}

	// Environment supplies whatever neither the file nor the flags set.
	cfg = cfg.MergeWithDefaults(config.Config{
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	})

	if cfg.Challenge == "" && cfg.PageURL == "" {
		return cfg, fmt.Errorf("either --challenge or --page-url must be provided (via flag or config)")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadChallenge resolves the instruction markup and candidate images from
// whichever input the config names.
func loadChallenge(ctx context.Context, cfg config.Config) (string, []image.Image, string, error) {
	if cfg.Challenge != "" {
		m, err := manifest.Load(cfg.Challenge)
		if err != nil {
			return "", nil, "", err
		}
		images, err := m.DecodeImages(ctx)
		if err != nil {
			return "", nil, "", err
		}
		return m.Instruction, images, cfg.Challenge, nil
	}

	opts := capture.DefaultOptions()
	opts.Verbose = cfg.Verbose
	challenge, err := capture.FromPage(ctx, cfg.PageURL, opts)
	if err != nil {
		return "", nil, "", err
	}
	images, err := imaging.DecodeAll(challenge.ImageURLs)
	if err != nil {
		return "", nil, "", err
	}
	return challenge.Instruction, images, cfg.PageURL, nil
}

// persistRun records the outcome of one CLI solve.
func persistRun(ctx context.Context, databaseURL, source, markup string, outcome analysis.Outcome) error {
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := database.CreateSolveRun(ctx, source)
	if err != nil {
		return err
	}
	if err := database.SaveArtifact(ctx, runID, db.StepInstruction, map[string]string{"markup": markup}); err != nil {
		return err
	}
	if err := database.SaveArtifact(ctx, runID, db.StepRule, outcome.Rule); err != nil {
		return err
	}
	if err := database.SaveArtifact(ctx, runID, db.StepResults, outcome.Results); err != nil {
		return err
	}
	if err := database.SaveArtifact(ctx, runID, db.StepDecision, outcome.Decision); err != nil {
		return err
	}
	return database.CompleteSolveRun(ctx, runID, db.StatusCompleted, string(outcome.Rule.Kind),
		outcome.Decision.SelectedIndex, outcome.Decision.Approximate)
}
