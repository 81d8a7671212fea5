package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/profile-extractor/internal/config"
	"github.com/jonathan/profile-extractor/internal/jobstore"
	"github.com/jonathan/profile-extractor/internal/observability"
	"github.com/jonathan/profile-extractor/internal/server"
	"github.com/jonathan/profile-extractor/internal/server/ratelimit"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that accepts extraction jobs and reports their state.

Endpoints: POST /jobs, POST /jobs/upload, GET /jobs/{id}, GET /jobs/{id}/events,
GET /health, GET /metrics. Job endpoints require a bearer token when JWT_SECRET is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to PORT env var)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	env, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		env.Port = servePort
	}

	logger, err := observability.NewLogger(env.LogLevel, env.LogDevelopment)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := buildStack(ctx, env, logger, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer st.Close()

	janitor, err := jobstore.NewJanitor(st.store, env.JanitorSchedule, logger)
	if err != nil {
		return err
	}

	var jwtCfg *config.JWTConfig
	if env.JWTSecret != "" {
		if jwtCfg, err = env.JWT(); err != nil {
			return err
		}
	} else {
		logger.Warn("JWT_SECRET not set; job endpoints are unauthenticated")
	}

	srv, err := server.New(server.Config{
		Port:      env.Port,
		Jobs:      st.orch,
		Metrics:   st.metrics,
		RateLimit: ratelimit.LoadConfig(),
		JWT:       jwtCfg,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	st.orch.Start(ctx)
	janitor.Start()

	serveErr := srv.Start(ctx)

	janitor.Stop()
	if err := st.orch.Stop(); err != nil {
		logger.Error("orchestrator stopped with error", zap.Error(err))
	}
	return serveErr
}
