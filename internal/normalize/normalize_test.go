package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Sugar", "sugar"},
		{"trims space", "  water  ", "water"},
		{"collapses whitespace", "high   fructose\tcorn  syrup", "high fructose corn syrup"},
		{"strips diacritics", "Nestlé", "nestle"},
		{"keeps hyphens", "Häagen-Dazs", "haagen-dazs"},
		{"keeps additive punctuation", "FD&C Red 40", "fd&c red 40"},
		{"drops parens", "color (red 3)", "color red 3"},
		{"empty", "", ""},
		{"only punctuation", "***", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.in))
		})
	}
}

func TestFoldIdempotent(t *testing.T) {
	for _, s := range []string{"Nestlé", "  FD&C  Red  40 ", "Organic Palm Oil"} {
		once := Fold(s)
		assert.Equal(t, once, Fold(once))
	}
}

func TestSingular(t *testing.T) {
	assert.Equal(t, "emulsifier", Singular("emulsifiers"))
	assert.Equal(t, "oil", Singular("oils"))
	assert.Equal(t, "molasses", Singular("molasses"))
	assert.Equal(t, "gas", Singular("gas"))
	assert.Equal(t, "glass", Singular("glass"))
	assert.Equal(t, "preservative", Singular("preservatives"))
}

func TestDehyphenate(t *testing.T) {
	assert.Equal(t, "anti caking", Dehyphenate("anti-caking"))
	assert.Equal(t, "plain", Dehyphenate("plain"))
}
