package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truelabel/truelabel/internal/registry"
)

func newTestDetector(t *testing.T) *ProcessingMarkerDetector {
	t.Helper()
	reg, err := registry.Load()
	require.NoError(t, err)
	return NewProcessingMarkerDetector(reg, DefaultConfig())
}

func TestDetectNoMarkers(t *testing.T) {
	d := newTestDetector(t)

	res := d.Detect([]string{"organic quinoa", "water", "sea salt"})
	assert.Zero(t, res.MarkerCount)
	assert.Empty(t, res.Alerts)
	assert.False(t, res.Ultra)
}

func TestDetectMarkerVariants(t *testing.T) {
	d := newTestDetector(t)

	tests := []struct {
		name       string
		ingredient string
	}{
		{"plain", "maltodextrin"},
		{"plural", "natural flavors"},
		{"hyphenated", "mono-glycerides"},
		{"solid-written", "anticaking agent"},
		{"embedded", "enriched wheat flour"},
		{"mixed case", "High Fructose Corn Syrup"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := d.Detect([]string{tt.ingredient})
			assert.Equal(t, 1, res.MarkerCount, tt.ingredient)
		})
	}
}

func TestDetectThresholdAlerts(t *testing.T) {
	d := newTestDetector(t)

	highly := d.Detect([]string{"maltodextrin", "natural flavors", "soy lecithin"})
	require.Len(t, highly.Alerts, 1)
	assert.Contains(t, highly.Alerts[0], "HIGHLY PROCESSED")
	assert.False(t, highly.Ultra)

	ultra := d.Detect([]string{
		"maltodextrin", "natural flavors", "soy lecithin",
		"high fructose corn syrup", "aspartame",
	})
	require.Len(t, ultra.Alerts, 1)
	assert.Contains(t, ultra.Alerts[0], "ULTRA-PROCESSED")
	assert.True(t, ultra.Ultra)
}

func TestDetectCountsIngredientOnce(t *testing.T) {
	d := newTestDetector(t)

	// One ingredient containing two markers counts once.
	res := d.Detect([]string{"maltodextrin and natural flavors blend"})
	assert.Equal(t, 1, res.MarkerCount)
}
