package engine

import (
	"github.com/stacklok/instsrc/internal/resolvable"
)

// descriptor is the content.yaml document of a product directory
type descriptor struct {
	Type        string       `yaml:"type"`
	Autorefresh *bool        `yaml:"autorefresh"`
	Product     productEntry `yaml:"product"`
	Selections  []unitEntry  `yaml:"selections"`
	Patterns    []unitEntry  `yaml:"patterns"`
	Packages    []baseEntry  `yaml:"packages"`
}

type baseEntry struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Arch        string `yaml:"arch"`
	Summary     string `yaml:"summary"`
	Description string `yaml:"description"`
	Installed   bool   `yaml:"installed"`
}

type productEntry struct {
	baseEntry `yaml:",inline"`

	Vendor string `yaml:"vendor"`
	Label  string `yaml:"label"`
}

type unitEntry struct {
	baseEntry `yaml:",inline"`

	Category string              `yaml:"category"`
	Visible  *bool               `yaml:"visible"`
	Order    string              `yaml:"order"`
	Default  bool                `yaml:"default"`
	Icon     string              `yaml:"icon"`
	Script   string              `yaml:"script"`
	Packages map[string][]string `yaml:"packages"`
}

func (b baseEntry) resolvable(kind resolvable.Kind, details resolvable.Details) *resolvable.Resolvable {
	return &resolvable.Resolvable{
		Kind:        kind,
		Name:        b.Name,
		Version:     b.Version,
		Arch:        b.Arch,
		Summary:     b.Summary,
		Description: b.Description,
		Installed:   b.Installed,
		Details:     details,
	}
}

func (u unitEntry) visible() bool {
	return u.Visible == nil || *u.Visible
}

// resolvables converts the descriptor, product first
func (d *descriptor) resolvables() []*resolvable.Resolvable {
	out := make([]*resolvable.Resolvable, 0, 1+len(d.Selections)+len(d.Patterns)+len(d.Packages))

	out = append(out, d.Product.resolvable(resolvable.KindProduct, resolvable.ProductDetails{
		Vendor: d.Product.Vendor,
		Label:  d.Product.Label,
	}))

	for _, s := range d.Selections {
		out = append(out, s.resolvable(resolvable.KindSelection, resolvable.SelectionDetails{
			Category: s.Category,
			Visible:  s.visible(),
			Order:    s.Order,
			Packages: resolvable.Packages(s.Packages),
		}))
	}

	for _, p := range d.Patterns {
		out = append(out, p.resolvable(resolvable.KindPattern, resolvable.PatternDetails{
			Category: p.Category,
			Visible:  p.visible(),
			Order:    p.Order,
			Default:  p.Default,
			Icon:     p.Icon,
			Script:   p.Script,
			Packages: resolvable.Packages(p.Packages),
		}))
	}

	for _, p := range d.Packages {
		out = append(out, p.resolvable(resolvable.KindPackage, resolvable.PackageDetails{}))
	}

	return out
}
