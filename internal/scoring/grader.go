package scoring

import (
	"github.com/truelabel/truelabel/internal/config"
	"github.com/truelabel/truelabel/internal/model"
	"github.com/truelabel/truelabel/internal/normalize"
	"github.com/truelabel/truelabel/internal/registry"
)

// unknownReason documents the default applied to unrecognized ingredients.
const unknownReason = "Unknown - not in safety registry. May have bypassed FDA review via the GRAS loophole."

// IngredientGrader classifies a single ingredient name into a hazard tier.
// Lookup order: exact registry match, substring match for synonyms, then the
// neutral unknown default. It never fails on unrecognized input.
type IngredientGrader struct {
	reg *registry.Registry
	cfg config.ScoringConfig
}

// NewIngredientGrader creates a grader over the given registry.
func NewIngredientGrader(reg *registry.Registry, cfg config.ScoringConfig) *IngredientGrader {
	return &IngredientGrader{reg: reg, cfg: cfg}
}

// Grade resolves one ingredient. The second return is false for empty
// strings, which are skipped rather than graded.
func (g *IngredientGrader) Grade(name string) (model.IngredientGrade, bool) {
	folded := normalize.Fold(name)
	if folded == "" {
		return model.IngredientGrade{}, false
	}

	entry := g.reg.LookupHazard(folded)
	if entry == nil {
		return model.IngredientGrade{
			Ingredient:  name,
			Grade:       model.GradeB,
			HazardScore: g.cfg.UnknownHazard,
			Reason:      unknownReason,
		}, true
	}

	grade := model.IngredientGrade{
		Ingredient:  name,
		Grade:       entry.Grade,
		HazardScore: entry.Hazard,
		Reason:      entry.Reason,
	}
	if entry.Truth != "" {
		if t, ok := g.reg.Truth(entry.Truth); ok {
			grade.HiddenTruth = t.Text()
		}
	}
	return grade, true
}
