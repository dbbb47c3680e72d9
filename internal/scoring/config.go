// Package scoring implements deterministic product grading: per-ingredient
// hazard tiers, ultra-processing detection, corporate ownership penalties,
// dimension aggregation and the worst-tier score cap.
package scoring

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/truelabel/truelabel/internal/config"
)

// DefaultConfig returns a config.ScoringConfig with the documented defaults.
// Dimension weights sum to 1.
func DefaultConfig() config.ScoringConfig {
	return config.ScoringConfig{
		// Dimension weights. Ingredient safety dominates.
		IngredientSafetyWeight: 0.45,
		ProcessingWeight:       0.25,
		CorporateWeight:        0.15,
		SupplyChainWeight:      0.15,

		// Unknown-ingredient defaults: neutral tier, never a failure.
		UnknownHazard: 50,

		// NOVA marker thresholds.
		HighlyProcessedThreshold: 3,
		UltraProcessedThreshold:  5,

		// Corporate ethics baseline for independent brands.
		CorporateBase: 80,

		// Supply chain heuristic.
		SupplyChainBase:      50,
		CertificationBonus:   15,
		MonocultureThreshold: 3,
		MonoculturePenalty:   15,
	}
}

// ValidateConfig checks that a ScoringConfig is internally consistent.
func ValidateConfig(c config.ScoringConfig) error {
	var errs []string

	sum := c.IngredientSafetyWeight + c.ProcessingWeight + c.CorporateWeight + c.SupplyChainWeight
	if sum < 0.999 || sum > 1.001 {
		errs = append(errs, "dimension weights must sum to 1")
	}
	for _, w := range []float64{c.IngredientSafetyWeight, c.ProcessingWeight, c.CorporateWeight, c.SupplyChainWeight} {
		if w < 0 {
			errs = append(errs, "dimension weights must be non-negative")
			break
		}
	}
	if c.UnknownHazard < 0 || c.UnknownHazard > 100 {
		errs = append(errs, "unknown hazard must be in [0,100]")
	}
	if c.HighlyProcessedThreshold < 1 {
		errs = append(errs, "highly processed threshold must be at least 1")
	}
	if c.UltraProcessedThreshold < c.HighlyProcessedThreshold {
		errs = append(errs, "ultra processed threshold must not be below highly processed threshold")
	}
	if c.CorporateBase < 0 || c.CorporateBase > 100 {
		errs = append(errs, "corporate base must be in [0,100]")
	}
	if c.SupplyChainBase < 0 || c.SupplyChainBase > 100 {
		errs = append(errs, "supply chain base must be in [0,100]")
	}

	if len(errs) > 0 {
		return eris.New("scoring config invalid: " + strings.Join(errs, "; "))
	}
	return nil
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
