// Package resolvable models installable units and the pool that tracks them.
//
// A Resolvable has a closed Kind and a kind-specific Details payload. The
// Pool stores copies of resolvables tagged with their owning source, answers
// status and category filtered queries and records install intent.
package resolvable

import (
	"fmt"
	"slices"
	"strings"
)

// Kind is the closed set of resolvable kinds
type Kind int

const (
	// KindSelection is a coarse-grained bundle of packages
	KindSelection Kind = iota + 1
	// KindPattern is a fine-grained, user-facing bundle of packages
	KindPattern
	// KindProduct describes the product a source provides
	KindProduct
	// KindPackage is a single package
	KindPackage
)

var kindNames = map[Kind]string{
	KindSelection: "selection",
	KindPattern:   "pattern",
	KindProduct:   "product",
	KindPackage:   "package",
}

// String returns the lower-case kind name
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind parses a kind name as produced by Kind.String
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown resolvable kind %q", s)
}

const (
	// BaseAlias is the category value callers use to request base units
	BaseAlias = "base"
	// SelectionBaseCategory marks a selection as a base selection
	SelectionBaseCategory = "baseconf"
	// PatternBaseCategory marks a pattern as a base pattern
	PatternBaseCategory = "Base Technologies"
)

// BaseCategory returns the category marking base units of the kind.
// Kinds without categories return the empty string.
func (k Kind) BaseCategory() string {
	switch k {
	case KindSelection:
		return SelectionBaseCategory
	case KindPattern:
		return PatternBaseCategory
	default:
		return ""
	}
}

// Status is the effective state of a resolvable
type Status int

const (
	// StatusAvailable is known to the pool and neither selected nor installed
	StatusAvailable Status = iota
	// StatusToBeInstalled carries install intent
	StatusToBeInstalled
	// StatusWasInstalled is installed on the target system
	StatusWasInstalled
)

// String returns the status name used in queries and JSON
func (s Status) String() string {
	switch s {
	case StatusToBeInstalled:
		return "selected"
	case StatusWasInstalled:
		return "installed"
	default:
		return "available"
	}
}

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// StatusFilter selects resolvables by status in queries
type StatusFilter string

const (
	// FilterAll matches every resolvable
	FilterAll StatusFilter = "all"
	// FilterAvailable matches every resolvable, like FilterAll
	FilterAvailable StatusFilter = "available"
	// FilterSelected matches resolvables with install intent
	FilterSelected StatusFilter = "selected"
	// FilterInstalled matches installed resolvables
	FilterInstalled StatusFilter = "installed"
)

// Known reports whether f is one of the defined filters
func (f StatusFilter) Known() bool {
	switch f {
	case FilterAll, FilterAvailable, FilterSelected, FilterInstalled:
		return true
	}
	return false
}

// Packages maps a locale to package names. The empty locale holds the
// locale-neutral names.
type Packages map[string][]string

// Clone returns a deep copy of p
func (p Packages) Clone() Packages {
	if p == nil {
		return nil
	}
	out := make(Packages, len(p))
	for locale, names := range p {
		out[locale] = slices.Clone(names)
	}
	return out
}

// For returns the sorted, de-duplicated union of the locale-neutral names
// and the names for locale. Empty names are dropped.
func (p Packages) For(locale string) []string {
	names := []string{}
	add := func(list []string) {
		for _, n := range list {
			if n != "" {
				names = append(names, n)
			}
		}
	}
	add(p[""])
	if locale != "" {
		add(p[locale])
	}
	slices.Sort(names)
	return slices.Compact(names)
}
