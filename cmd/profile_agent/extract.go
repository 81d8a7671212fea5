package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/profile-extractor/internal/config"
	"github.com/jonathan/profile-extractor/internal/observability"
	"github.com/jonathan/profile-extractor/internal/pipeline"
	"github.com/jonathan/profile-extractor/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a profile from a PDF or web page",
	Long: `Run a single extraction synchronously and print the normalized profile.

Resumes are read from a PDF (--file). Company and school profiles can come from
a web page (--url) or a PDF. Configuration can be loaded from a JSON file using
--config; command-line flags override config file values.`,
	RunE: runExtract,
}

var (
	extractConfigPath string
	extractDomain     string
	extractFile       string
	extractURL        string
	extractProvider   string
	extractContract   string
	extractAPIKey     string
	extractNoAI       bool
	extractUseBrowser bool
	extractVerbose    bool
	extractOutput     string
	extractDatabase   string
	extractSummary    bool
)

func init() {
	bindExtractFlags(extractCmd)
	rootCmd.AddCommand(extractCmd)
}

func bindExtractFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&extractConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	cmd.Flags().StringVarP(&extractDomain, "domain", "d", "", "Profile domain: resume, company or school")
	cmd.Flags().StringVarP(&extractFile, "file", "f", "", "Path to a PDF document (mutually exclusive with --url)")
	cmd.Flags().StringVarP(&extractURL, "url", "u", "", "Web page to extract from (mutually exclusive with --file)")
	cmd.Flags().StringVar(&extractProvider, "provider", "", "AI provider: gemini or openai (defaults to LLM_PROVIDER)")
	cmd.Flags().StringVar(&extractContract, "contract", "", "AI response format: marker or json (defaults to AI_CONTRACT)")
	cmd.Flags().StringVar(&extractAPIKey, "api-key", "", "Provider API key (defaults to GEMINI_API_KEY or OPENAI_API_KEY)")
	cmd.Flags().BoolVar(&extractNoAI, "no-ai", false, "Skip AI enhancement and use heuristics only")
	cmd.Flags().BoolVar(&extractUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	cmd.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "Print stage progress and debug logs")
	cmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Write the profile JSON to this file instead of stdout")
	cmd.Flags().StringVar(&extractDatabase, "db-url", "", "PostgreSQL connection URL for storing the profile (defaults to DATABASE_URL)")
	cmd.Flags().BoolVar(&extractSummary, "summary", false, "Print a human-readable summary instead of JSON")
}

// extractSettings merges the config file, flags and defaults.
func extractSettings(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if extractConfigPath != "" {
		loaded, err := config.LoadConfig(extractConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	flags := cmd.Flags()
	if flags.Changed("domain") {
		cfg.Domain = extractDomain
	}
	if flags.Changed("file") {
		cfg.File, cfg.URL = extractFile, ""
	}
	if flags.Changed("url") {
		cfg.URL = extractURL
		if !flags.Changed("file") {
			cfg.File = ""
		}
	}
	if flags.Changed("provider") {
		cfg.Provider = extractProvider
	}
	if flags.Changed("contract") {
		cfg.Contract = extractContract
	}
	if flags.Changed("api-key") {
		cfg.APIKey = extractAPIKey
	}
	if flags.Changed("no-ai") {
		cfg.NoAI = extractNoAI
	}
	if flags.Changed("use-browser") {
		cfg.UseBrowser = extractUseBrowser
	}
	if flags.Changed("verbose") {
		cfg.Verbose = extractVerbose
	}
	if flags.Changed("output") {
		cfg.Output = extractOutput
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = extractDatabase
	}

	cfg = cfg.MergeWithDefaults(config.Config{Domain: string(types.DomainResume)})

	if cfg.File == "" && cfg.URL == "" {
		return cfg, fmt.Errorf("either --file or --url must be provided (via flag or config)")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyTo overrides environment settings with the run configuration.
func applyTo(env *config.Env, cfg config.Config) {
	if cfg.Provider != "" {
		env.LLMProvider = cfg.Provider
	}
	if cfg.Contract != "" {
		env.AIContract = cfg.Contract
	}
	if cfg.APIKey != "" {
		if env.LLMProvider == "openai" {
			env.OpenAIAPIKey = cfg.APIKey
		} else {
			env.GeminiAPIKey = cfg.APIKey
		}
	}
	if cfg.NoAI {
		env.AIEnabled = false
	}
	if cfg.UseBrowser {
		env.UseBrowser = true
	}
	if cfg.DatabaseURL != "" {
		env.DatabaseURL = cfg.DatabaseURL
	}
	if cfg.Verbose {
		env.LogLevel = "debug"
		env.LogDevelopment = true
	}
}

// submission builds the request, reading the document from disk.
func submission(cfg config.Config) (*types.SubmitRequest, error) {
	req := &types.SubmitRequest{Domain: types.Domain(cfg.Domain), URL: cfg.URL}
	if cfg.File != "" {
		data, err := os.ReadFile(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("failed to read document: %w", err)
		}
		req.Document, req.Filename = data, cfg.File
	}
	return req, nil
}

func runExtract(cmd *cobra.Command, _ []string) error {
	cfg, err := extractSettings(cmd)
	if err != nil {
		return err
	}
	env, err := config.Load()
	if err != nil {
		return err
	}
	applyTo(env, cfg)

	req, err := submission(cfg)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(env.LogLevel, env.LogDevelopment)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	stderr := cmd.ErrOrStderr()
	var progress pipeline.ProgressCallback
	if cfg.Verbose {
		progress = func(e pipeline.ProgressEvent) {
			_, _ = fmt.Fprintf(stderr, "[%s] %s\n", e.Stage, e.Message)
		}
	}

	ctx := context.Background()
	st, err := buildStack(ctx, env, logger, progress)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer st.Close()

	res, err := st.orch.Run(ctx, req)
	if err != nil {
		return err
	}
	if res.EnhanceError != nil {
		logger.Info("profile built from heuristics only", zap.Error(res.EnhanceError))
	}

	out := cmd.OutOrStdout()
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return writeResult(out, res, extractSummary)
}

// writeResult prints the profile as indented JSON or as a console summary.
func writeResult(out io.Writer, res *pipeline.Result, summary bool) error {
	if summary {
		p := observability.NewPrinter(out)
		p.PrintProfile(res.Profile)
		p.PrintRejections(res.Rejections)
		return nil
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res.Profile); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}
