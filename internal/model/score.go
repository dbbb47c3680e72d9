package model

// IngredientGrade is the graded result for a single ingredient. Immutable
// once computed; the tier comes solely from the hazard registry lookup plus
// the default-unknown rule.
type IngredientGrade struct {
	Ingredient  string `json:"name"`
	Grade       Grade  `json:"grade"`
	HazardScore int    `json:"hazard_score"` // 0-100, higher is worse
	Reason      string `json:"reason"`
	HiddenTruth string `json:"hidden_truth,omitempty"`
}

// DimensionScores holds the four sub-scores, each 0-100.
type DimensionScores struct {
	IngredientSafety int `json:"ingredient_safety"`
	ProcessingLevel  int `json:"processing_level"`
	CorporateEthics  int `json:"corporate_ethics"`
	SupplyChain      int `json:"supply_chain"`
}

// CorporateDisclosure describes parent-company ownership for a brand.
// Absence of a disclosure means an independent brand with zero penalty.
type CorporateDisclosure struct {
	Brand         string   `json:"brand"`
	ParentCompany string   `json:"parent_company"`
	Penalty       int      `json:"penalty_applied"` // 0-100, subtracted from corporate ethics
	Issues        []string `json:"issues"`
	NotableBrands []string `json:"notable_brands,omitempty"`
}

// ScoreResult is the full output of the scoring engine for one product.
// Produced fresh per request; callers own the value.
type ScoreResult struct {
	OverallScore        int                  `json:"overall_score"`
	OverallGrade        Grade                `json:"overall_grade"`
	DimensionScores     DimensionScores      `json:"dimension_scores"`
	IngredientsGraded   []IngredientGrade    `json:"ingredients_graded"` // sorted worst-first
	Alerts              []string             `json:"alerts"`
	HiddenTruths        []string             `json:"hidden_truths"`
	CorporateDisclosure *CorporateDisclosure `json:"corporate_disclosure,omitempty"`
}
