package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/truelabel/truelabel/internal/model"
	"github.com/truelabel/truelabel/internal/research"
	"github.com/truelabel/truelabel/internal/store"
	"github.com/truelabel/truelabel/pkg/anthropic"
)

var researchCmd = &cobra.Command{
	Use:   "research <product name>",
	Short: "Run a deep-research report for a product",
	Long: `Runs a research job end to end and prints the report.

Examples:
  research "Kit Kat" --brand "Kit Kat" --ingredients "sugar,palm oil,cocoa"`,
	Args: cobra.ExactArgs(1),
	RunE: runResearch,
}

func init() {
	f := researchCmd.Flags()
	f.String("brand", "", "brand name")
	f.String("category", "", "product category")
	f.StringSlice("ingredients", nil, "comma-separated ingredient list")

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Anthropic.Key == "" {
		return eris.New("research: anthropic api key not configured")
	}

	brand, _ := cmd.Flags().GetString("brand")
	category, _ := cmd.Flags().GetString("category")
	ingredients, _ := cmd.Flags().GetStringSlice("ingredients")

	jobStore, err := store.NewSQLite(store.MemoryDSN, time.Hour)
	if err != nil {
		return err
	}
	defer jobStore.Close()

	gen := research.NewAnthropicGenerator(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic)
	orch := research.NewOrchestrator(ctx, jobStore, gen, cfg.Research)

	jobID, err := orch.StartJob(ctx, model.ResearchRequest{
		ProductName: args[0],
		Brand:       brand,
		Category:    category,
		Ingredients: ingredients,
	})
	if err != nil {
		return err
	}

	log := zap.L().With(zap.String("command", "research"), zap.String("job_id", jobID))

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	lastStep := ""
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		job, err := orch.GetJob(ctx, jobID)
		if err != nil {
			return err
		}
		if job.CurrentStep != lastStep {
			lastStep = job.CurrentStep
			log.Info("research progress",
				zap.Int("progress", job.Progress),
				zap.String("step", job.CurrentStep),
			)
		}
		if !job.Status.Terminal() {
			continue
		}

		if job.Status == model.JobStatusFailed {
			return eris.New("research job failed: " + job.Error)
		}
		fmt.Println(job.Result.FullReport)
		return nil
	}
}
