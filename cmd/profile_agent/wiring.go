package main

import (
	"context"
	"fmt"

	"github.com/jonathan/profile-extractor/internal/config"
	"github.com/jonathan/profile-extractor/internal/db"
	"github.com/jonathan/profile-extractor/internal/document"
	"github.com/jonathan/profile-extractor/internal/fetch"
	"github.com/jonathan/profile-extractor/internal/ingestion"
	"github.com/jonathan/profile-extractor/internal/jobstore"
	"github.com/jonathan/profile-extractor/internal/llm"
	"github.com/jonathan/profile-extractor/internal/observability"
	"github.com/jonathan/profile-extractor/internal/pipeline"
	"github.com/jonathan/profile-extractor/internal/types"
	"go.uber.org/zap"
)

// stack holds the components shared by serve and extract.
type stack struct {
	logger   *zap.Logger
	metrics  *observability.Metrics
	database *db.DB
	store    jobState
	client   llm.Client
	orch     *pipeline.Orchestrator
}

// jobState is a KV that can also drop expired keys.
type jobState interface {
	jobstore.KV
	jobstore.Purger
}

// buildStack wires acquisition, enhancement, job state and persistence from env.
// A configured DATABASE_URL moves job state and profiles to Postgres.
func buildStack(ctx context.Context, env *config.Env, logger *zap.Logger, onProgress pipeline.ProgressCallback) (*stack, error) {
	s := &stack{logger: logger, metrics: observability.NewMetrics()}

	var persister pipeline.Persister
	if env.DatabaseURL != "" {
		database, err := db.Connect(ctx, env.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, err
		}
		s.database = database
		s.store = db.NewKV(database)
		persister = db.NewProfileStore(database)
		logger.Info("using postgres for job state and profiles")
	} else {
		s.store = jobstore.NewMemoryKV(nil)
	}

	enhancer, client, err := newEnhancer(ctx, env, s.metrics, logger)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.client = client

	fetchOpts := fetch.DefaultOptions()
	fetchOpts.Timeout = env.FetchTimeout
	fetchOpts.Retries = env.FetchRetries
	fetchOpts.RetryDelay = env.FetchRetryDelay

	var renderer fetch.Renderer
	if env.UseBrowser {
		renderer = fetch.NewBrowser(logger)
	}

	web := ingestion.NewWebAcquirer(fetchOpts, renderer, logger)
	docs := ingestion.NewDocumentAcquirer(document.NewExtractor(document.Config{Pdftotext: env.PdftotextPath}, logger), logger)
	tracker := jobstore.NewTracker(s.store, env.JobTTL, nil)

	s.orch = pipeline.New(tracker, web, docs, pipeline.Options{
		Workers:    env.Workers,
		QueueSize:  env.QueueSize,
		Enhancer:   enhancer,
		Persister:  persister,
		Metrics:    s.metrics,
		Logger:     logger,
		OnProgress: onProgress,
	})
	return s, nil
}

// newEnhancer returns a nil enhancer when AI is disabled or no key is set.
func newEnhancer(ctx context.Context, env *config.Env, metrics *observability.Metrics, logger *zap.Logger) (*pipeline.Enhancer, llm.Client, error) {
	if !env.AIEnabled {
		return nil, nil, nil
	}
	apiKey := env.APIKey()
	if apiKey == "" {
		logger.Warn("no API key configured; running heuristics only", zap.String("provider", env.LLMProvider))
		return nil, nil, nil
	}

	llmCfg := *llm.ConfigFor(llm.Provider(env.LLMProvider))
	if llmCfg.Provider == llm.ProviderOpenAI && env.OpenAIBaseURL != "" {
		llmCfg.BaseURL = env.OpenAIBaseURL
	}

	client, err := llm.NewClient(ctx, &llmCfg, apiKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s client: %w", env.LLMProvider, err)
	}

	backoff := llm.Backoff{
		MaxRetries: env.AIMaxRetries,
		Base:       env.AIBackoffBase,
		Jitter:     env.AIBackoffJitter,
		Sleep:      llm.SleepContext,
	}
	gateway := llm.NewGateway(client, backoff,
		llm.WithLogger(logger),
		llm.WithRequestTimeout(env.AIRequestTimeout),
		llm.WithAttemptHook(metrics.AIAttempt),
	)
	return pipeline.NewEnhancer(gateway, types.Contract(env.AIContract)), client, nil
}

// Close releases the client and the database pool.
func (s *stack) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			s.logger.Warn("failed to close LLM client", zap.Error(err))
		}
	}
	if s.database != nil {
		s.database.Close()
	}
}
