package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/truelabel/truelabel/internal/registry"
	"github.com/truelabel/truelabel/internal/research"
	"github.com/truelabel/truelabel/internal/scoring"
	"github.com/truelabel/truelabel/internal/server"
	"github.com/truelabel/truelabel/internal/store"
	"github.com/truelabel/truelabel/pkg/anthropic"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scoring and research API server",
	Long: `Starts the HTTP API.

Endpoints:
  POST /api/v1/scan           score a product from its ingredient list
  POST /api/v1/research       start an asynchronous deep-research job
  GET  /api/v1/research/{id}  poll a research job
  GET  /health                liveness + persistence mode`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := zap.L().With(zap.String("command", "serve"))

	reg, err := registry.Load()
	if err != nil {
		return err
	}
	engine, err := scoring.NewEngine(reg, cfg.Scoring)
	if err != nil {
		return err
	}
	log.Info("scoring engine ready",
		zap.Int("hazard_entries", reg.HazardCount()),
		zap.String("profile", engine.Describe()),
	)

	jobStore, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer jobStore.Close()

	go store.NewSweeper(jobStore, cfg.Store).Run(ctx)

	gen := research.NewAnthropicGenerator(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic)
	orch := research.NewOrchestrator(ctx, jobStore, gen, cfg.Research)

	port := cfg.Server.Port
	if override, _ := cmd.Flags().GetInt("port"); override > 0 {
		port = override
	}

	srv := server.New(engine, orch, jobStore, gen)
	err = srv.Run(ctx, fmt.Sprintf(":%d", port))

	// Let in-flight research jobs record their terminal state.
	orch.Wait()
	return err
}
