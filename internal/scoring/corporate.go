package scoring

import (
	"fmt"

	"github.com/truelabel/truelabel/internal/model"
	"github.com/truelabel/truelabel/internal/normalize"
	"github.com/truelabel/truelabel/internal/registry"
)

// CorporateDisclosureResolver maps a brand to its parent company record.
// Unmatched brands are treated as independent: no disclosure, zero penalty.
// Absence of data is never a negative signal.
type CorporateDisclosureResolver struct {
	reg *registry.Registry
}

// NewCorporateDisclosureResolver creates a resolver over the ownership registry.
func NewCorporateDisclosureResolver(reg *registry.Registry) *CorporateDisclosureResolver {
	return &CorporateDisclosureResolver{reg: reg}
}

// Resolve looks up the brand. Returns nil for independent brands.
func (r *CorporateDisclosureResolver) Resolve(brand string) *model.CorporateDisclosure {
	parent := r.reg.MatchParent(normalize.Fold(brand))
	if parent == nil {
		return nil
	}
	return &model.CorporateDisclosure{
		Brand:         brand,
		ParentCompany: parent.Name,
		Penalty:       parent.Penalty,
		Issues:        append([]string(nil), parent.Issues...),
		NotableBrands: append([]string(nil), parent.NotableBrands...),
	}
}

// Truth renders the ownership hidden truth for a resolved disclosure.
func (r *CorporateDisclosureResolver) Truth(d *model.CorporateDisclosure) string {
	t := registry.Truth{
		Title: fmt.Sprintf("CORPORATE OWNERSHIP ALERT: %s is owned by %s", d.Brand, d.ParentCompany),
	}
	detail := "Parent company issues:"
	for _, issue := range d.Issues {
		detail += "\n- " + issue
	}
	if len(d.NotableBrands) > 0 {
		detail += fmt.Sprintf("\n%s also makes: %s.", d.ParentCompany, joinMax(d.NotableBrands, 4))
		detail += " The same company selling this product also profits from ultra-processed foods."
	}
	t.Detail = detail
	return t.Text()
}

func joinMax(items []string, max int) string {
	if len(items) > max {
		items = items[:max]
	}
	out := ""
	for i, s := range items {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}
