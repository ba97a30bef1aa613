package resolvable

import "github.com/stacklok/instsrc/internal/source"

// Details is the kind-specific payload of a Resolvable.
// The set of implementations is closed.
type Details interface {
	detailsKind() Kind
}

// SelectionDetails describes a selection
type SelectionDetails struct {
	Category string
	Visible  bool
	Order    string
	Packages Packages
}

// PatternDetails describes a pattern
type PatternDetails struct {
	Category string
	Visible  bool
	Order    string
	Default  bool
	Icon     string
	Script   string
	Packages Packages
}

// ProductDetails describes a product
type ProductDetails struct {
	Vendor string
	Label  string
}

// PackageDetails describes a package
type PackageDetails struct{}

func (SelectionDetails) detailsKind() Kind { return KindSelection }
func (PatternDetails) detailsKind() Kind   { return KindPattern }
func (ProductDetails) detailsKind() Kind   { return KindProduct }
func (PackageDetails) detailsKind() Kind   { return KindPackage }

// Resolvable is an installable unit as reported by the resolution engine
type Resolvable struct {
	Kind        Kind
	Name        string
	Version     string
	Arch        string
	Summary     string
	Description string
	// Installed is the observed installed state on the target system
	Installed bool
	Details   Details
}

// Validate checks that the details payload matches the kind
func (r *Resolvable) Validate() error {
	if r.Name == "" {
		return errEmptyName
	}
	if _, ok := kindNames[r.Kind]; !ok {
		return errUnknownKind(r.Kind)
	}
	if r.Details != nil && r.Details.detailsKind() != r.Kind {
		return errDetailsMismatch(r.Kind, r.Details.detailsKind())
	}
	return nil
}

// Category returns the category of selections and patterns
func (r *Resolvable) Category() string {
	switch d := r.Details.(type) {
	case SelectionDetails:
		return d.Category
	case PatternDetails:
		return d.Category
	default:
		return ""
	}
}

// Packages returns the locale-qualified package list of selections and patterns
func (r *Resolvable) Packages() Packages {
	switch d := r.Details.(type) {
	case SelectionDetails:
		return d.Packages
	case PatternDetails:
		return d.Packages
	default:
		return nil
	}
}

// clone returns a deep copy of r
func (r *Resolvable) clone() Resolvable {
	out := *r
	switch d := r.Details.(type) {
	case SelectionDetails:
		d.Packages = d.Packages.Clone()
		out.Details = d
	case PatternDetails:
		d.Packages = d.Packages.Clone()
		out.Details = d
	}
	return out
}

// Metadata is an immutable snapshot of a pooled resolvable
type Metadata struct {
	Kind        Kind      `json:"kind"`
	Name        string    `json:"name"`
	Version     string    `json:"version,omitempty"`
	Arch        string    `json:"arch,omitempty"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	Visible     bool      `json:"visible"`
	Order       string    `json:"order,omitempty"`
	Default     bool      `json:"default,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Script      string    `json:"script,omitempty"`
	Vendor      string    `json:"vendor,omitempty"`
	Label       string    `json:"label,omitempty"`
	Status      Status    `json:"status"`
	Source      source.ID `json:"srcId"`
}
