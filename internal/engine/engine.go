// Package engine defines the boundary to the resolution engine that reads
// installation media, and provides MediaEngine, an implementation reading
// product descriptors from local media trees.
package engine

import (
	"context"

	"github.com/stacklok/instsrc/internal/resolvable"
)

//go:generate mockgen -destination=mocks/mock_engine.go -package=mocks -source=engine.go Engine

// Engine discovers products on media and enumerates their resolvables
type Engine interface {
	// EnumerateProducts lists the products available below url
	EnumerateProducts(ctx context.Context, url string) ([]Product, error)

	// OpenSource validates and opens the product at url/productDir
	OpenSource(ctx context.Context, url, productDir string) (*Handle, error)

	// Resolvables enumerates the selections, patterns, products and
	// packages provided by an opened source
	Resolvables(ctx context.Context, h *Handle) ([]*resolvable.Resolvable, error)
}

// Product is a product found on media
type Product struct {
	// Dir is the product directory relative to the media root, "/" for the root itself
	Dir string `json:"productDir"`
	// Name is the product name as listed on the media
	Name string `json:"name"`
}

// Handle is an opened source
type Handle struct {
	URL         string
	ProductDir  string
	Type        string
	Autorefresh bool
	Product     Product

	location string
}
