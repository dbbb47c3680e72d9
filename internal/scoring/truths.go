package scoring

import (
	"github.com/truelabel/truelabel/internal/model"
	"github.com/truelabel/truelabel/internal/registry"
)

// HiddenTruthGenerator collects the disclosure texts for a scored product.
// Ingredient-level truths come first, worst hazard first; product-level
// truths (ultra-processing, monoculture) and the corporate truth follow.
type HiddenTruthGenerator struct {
	reg      *registry.Registry
	resolver *CorporateDisclosureResolver
}

// NewHiddenTruthGenerator creates a generator over the truth registry.
func NewHiddenTruthGenerator(reg *registry.Registry, resolver *CorporateDisclosureResolver) *HiddenTruthGenerator {
	return &HiddenTruthGenerator{reg: reg, resolver: resolver}
}

// Generate assembles the ordered, deduplicated truth list. sortedGrades must
// already be in worst-first order.
func (h *HiddenTruthGenerator) Generate(sortedGrades []model.IngredientGrade, processing ProcessingResult, monoculture bool, disclosure *model.CorporateDisclosure) []string {
	var truths []string
	seen := make(map[string]bool)

	add := func(text string) {
		if text != "" && !seen[text] {
			seen[text] = true
			truths = append(truths, text)
		}
	}

	for _, g := range sortedGrades {
		add(g.HiddenTruth)
	}

	if processing.Ultra {
		if t, ok := h.reg.Truth("ultra_processed"); ok {
			add(t.Text())
		}
	}
	if monoculture {
		if t, ok := h.reg.Truth("monoculture"); ok {
			add(t.Text())
		}
	}
	if disclosure != nil {
		add(h.resolver.Truth(disclosure))
	}

	return truths
}
