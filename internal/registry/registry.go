// Package registry holds the static lookup data the scoring engine depends
// on: the ingredient hazard registry, NOVA ultra-processing markers, the
// corporate ownership registry and hidden truth texts. Registries are loaded
// once at startup and injected read-only, so scoring stays a pure function
// of (ingredients, brand, registries).
package registry

import (
	"embed"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/truelabel/truelabel/internal/model"
	"github.com/truelabel/truelabel/internal/normalize"
)

//go:embed data/*.yaml
var dataFS embed.FS

// HazardEntry is one ingredient record in the hazard registry.
type HazardEntry struct {
	Name   string      `yaml:"name"`
	Grade  model.Grade `yaml:"grade"`
	Hazard int         `yaml:"hazard"` // 0-100, higher is worse
	Reason string      `yaml:"reason"`
	Truth  string      `yaml:"truth,omitempty"` // key into the truths table
}

// Parent is one corporate ownership record.
type Parent struct {
	Name          string   `yaml:"name"`
	Penalty       int      `yaml:"penalty"` // subtracted from corporate ethics
	Brands        []string `yaml:"brands"`
	NotableBrands []string `yaml:"notable_brands"`
	Issues        []string `yaml:"issues"`
}

// Truth is a two-part hidden truth text.
type Truth struct {
	Title  string `yaml:"title"`
	Detail string `yaml:"detail"`
}

// Text renders the truth as title and detail joined by a line break.
func (t Truth) Text() string {
	return t.Title + "\n" + t.Detail
}

// Registry bundles all lookup tables. It is immutable after Load.
type Registry struct {
	hazards []HazardEntry
	exact   map[string]*HazardEntry
	markers []string
	parents []Parent
	truths  map[string]Truth

	// foldedBrands mirrors parents with pre-folded brand names.
	foldedBrands [][]string
}

// Load parses the embedded registry data. Called once at startup.
func Load() (*Registry, error) {
	var r Registry

	if err := readYAML("data/hazards.yaml", &r.hazards); err != nil {
		return nil, err
	}
	if err := readYAML("data/nova_markers.yaml", &r.markers); err != nil {
		return nil, err
	}
	if err := readYAML("data/corporate.yaml", &r.parents); err != nil {
		return nil, err
	}
	if err := readYAML("data/truths.yaml", &r.truths); err != nil {
		return nil, err
	}

	r.exact = make(map[string]*HazardEntry, len(r.hazards))
	for i := range r.hazards {
		e := &r.hazards[i]
		if !e.Grade.Valid() {
			return nil, eris.Errorf("registry: hazard %q has unknown grade %q", e.Name, e.Grade)
		}
		if e.Hazard < 0 || e.Hazard > 100 {
			return nil, eris.Errorf("registry: hazard %q score %d out of range", e.Name, e.Hazard)
		}
		r.exact[normalize.Fold(e.Name)] = e
	}

	r.foldedBrands = make([][]string, len(r.parents))
	for i, p := range r.parents {
		folded := make([]string, len(p.Brands))
		for j, b := range p.Brands {
			folded[j] = normalize.Fold(b)
		}
		r.foldedBrands[i] = folded
	}

	for key, e := range map[string]int{"hazards": len(r.hazards), "markers": len(r.markers), "parents": len(r.parents), "truths": len(r.truths)} {
		if e == 0 {
			return nil, eris.Errorf("registry: %s table is empty", key)
		}
	}

	return &r, nil
}

func readYAML(path string, out any) error {
	data, err := dataFS.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "registry: read %s", path)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return eris.Wrapf(err, "registry: unmarshal %s", path)
	}
	return nil
}

// LookupHazard resolves a folded ingredient name against the hazard
// registry: exact match first, then substring match for known synonyms.
// Returns nil when the ingredient is unknown.
func (r *Registry) LookupHazard(folded string) *HazardEntry {
	if folded == "" {
		return nil
	}
	if e, ok := r.exact[folded]; ok {
		return e
	}
	// Substring pass, worst tiers first so "organic palm oil" grades as
	// palm oil rather than as organic.
	var best *HazardEntry
	for i := range r.hazards {
		e := &r.hazards[i]
		if strings.Contains(folded, normalize.Fold(e.Name)) {
			if best == nil || e.Grade.WorseThan(best.Grade) {
				best = e
			}
		}
	}
	return best
}

// Markers returns the NOVA ultra-processing marker list.
func (r *Registry) Markers() []string {
	return r.markers
}

// MatchParent resolves a folded brand name to its parent company record, or
// nil for independent brands.
func (r *Registry) MatchParent(foldedBrand string) *Parent {
	if foldedBrand == "" {
		return nil
	}
	for i := range r.parents {
		for _, b := range r.foldedBrands[i] {
			if b != "" && strings.Contains(foldedBrand, b) {
				return &r.parents[i]
			}
		}
	}
	return nil
}

// Truth returns the hidden truth for a key.
func (r *Registry) Truth(key string) (Truth, bool) {
	t, ok := r.truths[key]
	return t, ok
}

// HazardCount reports the registry size, used by validation and stats.
func (r *Registry) HazardCount() int {
	return len(r.hazards)
}
