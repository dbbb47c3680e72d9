package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/truelabel/truelabel/internal/config"
	"github.com/truelabel/truelabel/internal/model"
	"github.com/truelabel/truelabel/internal/normalize"
)

// certifications are supply-chain claims that earn a bonus when they appear
// anywhere in the ingredient list, brand or category.
var certifications = []string{
	"organic", "fair trade", "non-gmo", "rainforest alliance", "b-corp", "usda organic",
}

// monocultureCrops flag ingredients likely sourced from industrial
// monoculture farming.
var monocultureCrops = []string{"corn", "soy", "palm", "canola"}

// DimensionAggregator combines per-ingredient grades, processing markers and
// the corporate disclosure into the four dimension scores and the blended
// overall score (pre-cap).
type DimensionAggregator struct {
	cfg config.ScoringConfig
}

// NewDimensionAggregator creates an aggregator with the given weights.
func NewDimensionAggregator(cfg config.ScoringConfig) *DimensionAggregator {
	return &DimensionAggregator{cfg: cfg}
}

// AggregateInput carries everything the aggregator needs for one product.
type AggregateInput struct {
	Grades     []model.IngredientGrade // in label order, before worst-first sorting
	Processing ProcessingResult
	Disclosure *model.CorporateDisclosure
	Brand      string
	Category   string
}

// AggregateResult is the blended pre-cap outcome.
type AggregateResult struct {
	Dimensions       model.DimensionScores
	Blended          float64 // weighted overall, before the tier cap
	MonocultureCount int
	Alerts           []string
}

// Aggregate computes the four dimension scores and their weighted blend.
func (a *DimensionAggregator) Aggregate(in AggregateInput) AggregateResult {
	var res AggregateResult

	res.Dimensions.IngredientSafety = a.ingredientSafety(in.Grades)
	res.Dimensions.ProcessingLevel = a.processingLevel(in.Processing)
	res.Dimensions.CorporateEthics = a.corporateEthics(in.Disclosure)

	supply, monoCount, monoAlert := a.supplyChain(in)
	res.Dimensions.SupplyChain = supply
	res.MonocultureCount = monoCount
	if monoAlert != "" {
		res.Alerts = append(res.Alerts, monoAlert)
	}
	if in.Disclosure != nil {
		res.Alerts = append(res.Alerts, "OWNED BY: "+in.Disclosure.ParentCompany)
	}

	res.Blended = a.cfg.IngredientSafetyWeight*float64(res.Dimensions.IngredientSafety) +
		a.cfg.ProcessingWeight*float64(res.Dimensions.ProcessingLevel) +
		a.cfg.CorporateWeight*float64(res.Dimensions.CorporateEthics) +
		a.cfg.SupplyChainWeight*float64(res.Dimensions.SupplyChain)

	return res
}

// ingredientSafety inverts the position-weighted mean hazard. Ingredients
// earlier on the label carry more weight (1/sqrt(position)), mirroring
// higher concentration.
func (a *DimensionAggregator) ingredientSafety(grades []model.IngredientGrade) int {
	if len(grades) == 0 {
		return clamp(100 - a.cfg.UnknownHazard)
	}
	var weighted, total float64
	for i, g := range grades {
		w := 1.0 / math.Sqrt(float64(i+1))
		weighted += w * float64(g.HazardScore)
		total += w
	}
	return clamp(int(math.Round(100 - weighted/total)))
}

// processingLevel maps the NOVA marker count through the processing curve.
func (a *DimensionAggregator) processingLevel(p ProcessingResult) int {
	switch {
	case p.MarkerCount >= a.cfg.UltraProcessedThreshold:
		return 20
	case p.MarkerCount >= a.cfg.HighlyProcessedThreshold:
		return 40
	case p.MarkerCount >= 1:
		return 60
	default:
		return 90
	}
}

// corporateEthics subtracts the ownership penalty from the base score,
// floored at zero.
func (a *DimensionAggregator) corporateEthics(d *model.CorporateDisclosure) int {
	score := a.cfg.CorporateBase
	if d != nil {
		score -= d.Penalty
	}
	return clamp(score)
}

// supplyChain starts at the unknown-provenance baseline, adds certification
// bonuses and subtracts the monoculture penalty when enough industrial
// crops are present.
func (a *DimensionAggregator) supplyChain(in AggregateInput) (score, monoCount int, alert string) {
	score = a.cfg.SupplyChainBase

	haystack := normalize.Fold(in.Brand + " " + in.Category)
	for _, g := range in.Grades {
		haystack += " " + normalize.Fold(g.Ingredient)
	}
	for _, cert := range certifications {
		if strings.Contains(haystack, cert) {
			score += a.cfg.CertificationBonus
		}
	}

	for _, g := range in.Grades {
		folded := normalize.Fold(g.Ingredient)
		for _, crop := range monocultureCrops {
			if strings.Contains(folded, crop) {
				monoCount++
				break
			}
		}
	}
	if monoCount >= a.cfg.MonocultureThreshold {
		score -= a.cfg.MonoculturePenalty
		alert = fmt.Sprintf("MONOCULTURE: %d industrial crop ingredients", monoCount)
	}

	return clamp(score), monoCount, alert
}
