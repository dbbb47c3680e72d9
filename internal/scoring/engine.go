package scoring

import (
	"fmt"
	"sort"

	"github.com/truelabel/truelabel/internal/config"
	"github.com/truelabel/truelabel/internal/model"
	"github.com/truelabel/truelabel/internal/normalize"
	"github.com/truelabel/truelabel/internal/registry"
)

// Engine scores a product from its ingredient list and brand. It is
// stateless and side-effect-free: identical input always yields an identical
// ScoreResult, and concurrent calls share nothing mutable.
type Engine struct {
	cfg        config.ScoringConfig
	grader     *IngredientGrader
	detector   *ProcessingMarkerDetector
	resolver   *CorporateDisclosureResolver
	aggregator *DimensionAggregator
	capPolicy  ScoreCapPolicy
	truths     *HiddenTruthGenerator
}

// NewEngine wires the scoring pipeline over a loaded registry. The config is
// validated once here; scoring itself never returns an error.
func NewEngine(reg *registry.Registry, cfg config.ScoringConfig) (*Engine, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	resolver := NewCorporateDisclosureResolver(reg)
	return &Engine{
		cfg:        cfg,
		grader:     NewIngredientGrader(reg, cfg),
		detector:   NewProcessingMarkerDetector(reg, cfg),
		resolver:   resolver,
		aggregator: NewDimensionAggregator(cfg),
		truths:     NewHiddenTruthGenerator(reg, resolver),
	}, nil
}

// Score grades a product. Empty ingredient lists produce a neutral result,
// duplicates are graded once, and unknown ingredients fall back to the
// documented default tier. The result's ingredient listing is sorted
// worst-first.
func (e *Engine) Score(ingredients []string, brand, category string) model.ScoreResult {
	// Grade in label order, skipping empties and deduplicating on the
	// folded name so repeated entries are listed once.
	grades := make([]model.IngredientGrade, 0, len(ingredients))
	seen := make(map[string]bool, len(ingredients))
	for _, ing := range ingredients {
		folded := normalize.Fold(ing)
		if folded == "" || seen[folded] {
			continue
		}
		g, ok := e.grader.Grade(ing)
		if !ok {
			continue
		}
		seen[folded] = true
		grades = append(grades, g)
	}

	processing := e.detector.Detect(ingredients)
	disclosure := e.resolver.Resolve(brand)

	agg := e.aggregator.Aggregate(AggregateInput{
		Grades:     grades,
		Processing: processing,
		Disclosure: disclosure,
		Brand:      brand,
		Category:   category,
	})

	capped := e.capPolicy.Apply(agg.Blended, grades)

	var alerts []string
	for _, g := range grades {
		switch g.Grade {
		case model.GradeF:
			alerts = append(alerts, "AVOID: "+g.Ingredient)
		case model.GradeD:
			alerts = append(alerts, "LIMIT: "+g.Ingredient)
		}
	}
	alerts = append(alerts, processing.Alerts...)
	alerts = append(alerts, agg.Alerts...)
	if capped.Capped {
		alerts = append(alerts, capped.Alert)
	}

	sortWorstFirst(grades)

	monoculture := agg.MonocultureCount >= e.cfg.MonocultureThreshold
	hiddenTruths := e.truths.Generate(grades, processing, monoculture, disclosure)

	return model.ScoreResult{
		OverallScore:        capped.Score,
		OverallGrade:        capped.Grade,
		DimensionScores:     agg.Dimensions,
		IngredientsGraded:   grades,
		Alerts:              alerts,
		HiddenTruths:        hiddenTruths,
		CorporateDisclosure: disclosure,
	}
}

// sortWorstFirst orders grades by tier (F first), then by hazard score
// descending, then by name for a stable, deterministic listing.
func sortWorstFirst(grades []model.IngredientGrade) {
	sort.SliceStable(grades, func(i, j int) bool {
		gi, gj := grades[i], grades[j]
		if gi.Grade.Rank() != gj.Grade.Rank() {
			return gi.Grade.Rank() < gj.Grade.Rank()
		}
		if gi.HazardScore != gj.HazardScore {
			return gi.HazardScore > gj.HazardScore
		}
		return gi.Ingredient < gj.Ingredient
	})
}

// Describe summarizes the engine configuration for startup logging.
func (e *Engine) Describe() string {
	return fmt.Sprintf("weights(safety=%.2f processing=%.2f corporate=%.2f supply=%.2f)",
		e.cfg.IngredientSafetyWeight, e.cfg.ProcessingWeight, e.cfg.CorporateWeight, e.cfg.SupplyChainWeight)
}
