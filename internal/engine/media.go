package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stacklok/instsrc/internal/errs"
	"github.com/stacklok/instsrc/internal/resolvable"
)

const (
	// ProductsFile lists the products of multi-product media
	ProductsFile = "media.1/products"
	// DescriptorFile is the product descriptor inside a product directory
	DescriptorFile = "content.yaml"
	// DefaultSourceType is reported for descriptors without a type
	DefaultSourceType = "YaST"
	// RootProductDir is the product directory of single-product media
	RootProductDir = "/"
)

// MediaEngine reads installation media from the local file system.
// Supported urls are dir:// and file:// urls and bare absolute paths.
type MediaEngine struct{}

var _ Engine = (*MediaEngine)(nil)

// NewMediaEngine creates a media engine
func NewMediaEngine() *MediaEngine {
	return &MediaEngine{}
}

// EnumerateProducts implements Engine.EnumerateProducts.
// Without a products file the media holds one product at its root.
func (*MediaEngine) EnumerateProducts(ctx context.Context, url string) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := mediaRoot(url)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // media root is supplied by the operator
	f, err := os.Open(filepath.Join(root, filepath.FromSlash(ProductsFile)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Product{{Dir: RootProductDir}}, nil
		}
		return nil, errs.Scan(url, err)
	}
	defer func() { _ = f.Close() }()

	products := []Product{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		products = append(products, Product{
			Dir:  normalizeProductDir(fields[0]),
			Name: strings.Join(fields[1:], " "),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.Scan(url, fmt.Errorf("failed to read products file: %w", err))
	}

	if len(products) == 0 {
		return nil, errs.Scan(url, errors.New("products file lists no products"))
	}
	return products, nil
}

// OpenSource implements Engine.OpenSource
func (*MediaEngine) OpenSource(ctx context.Context, url, productDir string) (*Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := mediaRoot(url)
	if err != nil {
		return nil, err
	}

	productDir = normalizeProductDir(productDir)
	location := filepath.Join(root, filepath.FromSlash(productDir))
	desc, err := readDescriptor(location)
	if err != nil {
		return nil, errs.Scan(url+productDir, err)
	}

	h := &Handle{
		URL:         url,
		ProductDir:  productDir,
		Type:        desc.Type,
		Autorefresh: true,
		Product:     Product{Dir: productDir, Name: desc.Product.Name},
		location:    location,
	}
	if h.Type == "" {
		h.Type = DefaultSourceType
	}
	if desc.Autorefresh != nil {
		h.Autorefresh = *desc.Autorefresh
	}
	return h, nil
}

// Resolvables implements Engine.Resolvables
func (*MediaEngine) Resolvables(ctx context.Context, h *Handle) ([]*resolvable.Resolvable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if h == nil || h.location == "" {
		return nil, errs.Scan("", errors.New("source handle was not opened by this engine"))
	}

	desc, err := readDescriptor(h.location)
	if err != nil {
		return nil, errs.Scan(h.URL+h.ProductDir, err)
	}

	items := desc.resolvables()
	slog.Debug("Enumerated resolvables", "url", h.URL, "product_dir", h.ProductDir, "count", len(items))
	return items, nil
}

// mediaRoot maps a media url to a local directory
func mediaRoot(url string) (string, error) {
	var root string
	switch {
	case strings.HasPrefix(url, "dir://"):
		root = strings.TrimPrefix(url, "dir://")
	case strings.HasPrefix(url, "file://"):
		root = strings.TrimPrefix(url, "file://")
	case strings.Contains(url, "://"):
		return "", errs.Scan(url, errors.New("unsupported media scheme"))
	default:
		root = url
	}

	if root == "" || !filepath.IsAbs(root) {
		return "", errs.Scan(url, errors.New("media path must be absolute"))
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", errs.Scan(url, err)
	}
	if !info.IsDir() {
		return "", errs.Scan(url, errors.New("media root is not a directory"))
	}
	return filepath.Clean(root), nil
}

// normalizeProductDir returns a clean, slash-rooted product directory
func normalizeProductDir(dir string) string {
	return path.Clean("/" + dir)
}

func readDescriptor(location string) (*descriptor, error) {
	//nolint:gosec // location is derived from the media root
	data, err := os.ReadFile(filepath.Join(location, DescriptorFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.New("no product descriptor found")
		}
		return nil, fmt.Errorf("failed to read product descriptor: %w", err)
	}

	var desc descriptor
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("failed to parse product descriptor: %w", err)
	}
	if desc.Product.Name == "" {
		return nil, errors.New("product descriptor has no product name")
	}
	return &desc, nil
}
