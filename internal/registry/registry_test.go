package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truelabel/truelabel/internal/model"
	"github.com/truelabel/truelabel/internal/normalize"
)

func mustLoad(t *testing.T) *Registry {
	t.Helper()
	r, err := Load()
	require.NoError(t, err)
	return r
}

func TestLoadEmbeddedData(t *testing.T) {
	r := mustLoad(t)
	assert.GreaterOrEqual(t, r.HazardCount(), 60)
	assert.NotEmpty(t, r.Markers())
}

func TestLookupHazardExact(t *testing.T) {
	r := mustLoad(t)

	tests := []struct {
		ingredient string
		grade      model.Grade
	}{
		{"tbhq", model.GradeD},
		{"TBHQ", model.GradeD},
		{"ractopamine", model.GradeF},
		{"potassium bromate", model.GradeF},
		{"red 3", model.GradeF},
		{"quinoa", model.GradeA},
		{"water", model.GradeA},
	}
	for _, tt := range tests {
		e := r.LookupHazard(normalize.Fold(tt.ingredient))
		require.NotNil(t, e, "expected %q in registry", tt.ingredient)
		assert.Equal(t, tt.grade, e.Grade, tt.ingredient)
	}
}

func TestLookupHazardSubstringWorstWins(t *testing.T) {
	r := mustLoad(t)

	// "organic palm oil" contains both "organic" (safe) and "palm oil"
	// (caution); the worse tier must win.
	e := r.LookupHazard(normalize.Fold("Organic Palm Oil"))
	require.NotNil(t, e)
	assert.Equal(t, "palm oil", normalize.Fold(e.Name))
}

func TestLookupHazardUnknown(t *testing.T) {
	r := mustLoad(t)
	assert.Nil(t, r.LookupHazard(normalize.Fold("xylotriptan blue")))
	assert.Nil(t, r.LookupHazard(""))
}

func TestMatchParent(t *testing.T) {
	r := mustLoad(t)

	p := r.MatchParent(normalize.Fold("Kit Kat"))
	require.NotNil(t, p)
	assert.Equal(t, "Nestlé", p.Name)
	assert.Greater(t, p.Penalty, 0)

	// Diacritic-folded brand should also match.
	p = r.MatchParent(normalize.Fold("Nestlé Toll House"))
	require.NotNil(t, p)
	assert.Equal(t, "Nestlé", p.Name)

	assert.Nil(t, r.MatchParent(normalize.Fold("Some Local Farm Co")))
	assert.Nil(t, r.MatchParent(""))
}

func TestTruths(t *testing.T) {
	r := mustLoad(t)

	for _, key := range []string{"ractopamine", "gras_unknown", "ultra_processed", "monoculture"} {
		truth, ok := r.Truth(key)
		require.True(t, ok, "missing truth %q", key)
		assert.NotEmpty(t, truth.Title)
		assert.NotEmpty(t, truth.Detail)
		assert.Contains(t, truth.Text(), truth.Title)
	}

	_, ok := r.Truth("nope")
	assert.False(t, ok)
}
