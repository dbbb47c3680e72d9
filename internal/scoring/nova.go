package scoring

import (
	"fmt"
	"strings"

	"github.com/truelabel/truelabel/internal/config"
	"github.com/truelabel/truelabel/internal/normalize"
	"github.com/truelabel/truelabel/internal/registry"
)

// ProcessingResult is the outcome of a NOVA marker scan.
type ProcessingResult struct {
	MarkerCount int
	Alerts      []string
	Ultra       bool // true when the ultra-processed threshold is crossed
}

// ProcessingMarkerDetector scans an ingredient list for ultra-processing
// indicators. Each ingredient counts at most once regardless of how many
// markers it contains.
type ProcessingMarkerDetector struct {
	cfg config.ScoringConfig

	// markers pre-folded once at construction; hyphenated markers carry
	// both a spaced and a solid-written variant so "anti-caking" matches
	// "anti caking agent" and "anticaking agent" alike.
	markers []string
}

// NewProcessingMarkerDetector builds a detector from the marker registry.
func NewProcessingMarkerDetector(reg *registry.Registry, cfg config.ScoringConfig) *ProcessingMarkerDetector {
	var markers []string
	for _, m := range reg.Markers() {
		folded := normalize.Fold(m)
		markers = append(markers, normalize.Dehyphenate(folded))
		if solid := strings.ReplaceAll(folded, "-", ""); solid != folded {
			markers = append(markers, solid)
		}
	}
	return &ProcessingMarkerDetector{cfg: cfg, markers: markers}
}

// Detect counts marker hits across the full ingredient list and emits
// processing alerts when the configured thresholds are crossed.
func (d *ProcessingMarkerDetector) Detect(ingredients []string) ProcessingResult {
	count := 0
	for _, ing := range ingredients {
		if d.matches(ing) {
			count++
		}
	}

	res := ProcessingResult{MarkerCount: count}
	switch {
	case count >= d.cfg.UltraProcessedThreshold:
		res.Ultra = true
		res.Alerts = append(res.Alerts, fmt.Sprintf("ULTRA-PROCESSED: %d processing markers detected", count))
	case count >= d.cfg.HighlyProcessedThreshold:
		res.Alerts = append(res.Alerts, fmt.Sprintf("HIGHLY PROCESSED: %d processing markers", count))
	}
	return res
}

// matches reports whether one ingredient contains any known marker,
// tolerating hyphenation and plural/singular variants.
func (d *ProcessingMarkerDetector) matches(ingredient string) bool {
	folded := normalize.Dehyphenate(normalize.Fold(ingredient))
	if folded == "" {
		return false
	}
	singular := singularWords(folded)

	for _, m := range d.markers {
		if strings.Contains(folded, m) || strings.Contains(singular, m) {
			return true
		}
	}
	return false
}

// singularWords rewrites each word of s into singular form so that
// "emulsifiers" still matches the "emulsifier" marker.
func singularWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = normalize.Singular(w)
	}
	return strings.Join(words, " ")
}
