package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/truelabel/truelabel/internal/registry"
	"github.com/truelabel/truelabel/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score [ingredients...]",
	Short: "Score a product from its ingredient list",
	Long: `Grades a product's ingredients against the hazard registry and prints
the full score breakdown.

Examples:
  # Score by listing ingredients
  score "organic quinoa" water "sea salt"

  # Include brand for corporate ownership checks
  score --brand "Kit Kat" sugar "palm oil" cocoa

  # Machine-readable output
  score --json tbhq "red 40" sugar`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.String("brand", "", "brand name for corporate ownership lookup")
	f.String("category", "", "product category")
	f.Bool("json", false, "print the full result as JSON")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	reg, err := registry.Load()
	if err != nil {
		return err
	}
	engine, err := scoring.NewEngine(reg, cfg.Scoring)
	if err != nil {
		return err
	}

	brand, _ := cmd.Flags().GetString("brand")
	category, _ := cmd.Flags().GetString("category")
	asJSON, _ := cmd.Flags().GetBool("json")

	result := engine.Score(args, brand, category)

	if asJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("Score: %d (%s)\n", result.OverallScore, result.OverallGrade)
	fmt.Printf("  ingredient safety: %d\n", result.DimensionScores.IngredientSafety)
	fmt.Printf("  processing level:  %d\n", result.DimensionScores.ProcessingLevel)
	fmt.Printf("  corporate ethics:  %d\n", result.DimensionScores.CorporateEthics)
	fmt.Printf("  supply chain:      %d\n", result.DimensionScores.SupplyChain)

	fmt.Println("\nIngredients:")
	for _, g := range result.IngredientsGraded {
		fmt.Printf("  [%s] %-30s %s\n", g.Grade, g.Ingredient, g.Reason)
	}

	if len(result.Alerts) > 0 {
		fmt.Println("\nAlerts:")
		for _, a := range result.Alerts {
			fmt.Printf("  - %s\n", a)
		}
	}
	if len(result.HiddenTruths) > 0 {
		fmt.Println("\nHidden truths:")
		for _, t := range result.HiddenTruths {
			fmt.Printf("  - %s\n", strings.ReplaceAll(t, "\n", "\n    "))
		}
	}
	return nil
}
