package catalog

import (
	"context"
	"fmt"
	"strings"

	"minibar/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Loader defines the interface for loading catalog files.
type Loader interface {
	// Load reads a gzipped catalog file and returns its products in file order.
	Load(ctx context.Context, path string) ([]model.Product, error)
}

// Catalog is the fixed, ordered list of products guests can order.
// It is built once at startup and never mutated.
type Catalog struct {
	products []model.Product
	byID     map[uuid.UUID]int
}

// New builds a catalog from products, rejecting empty or duplicate names and
// negative prices.
func New(products []model.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]model.Product, 0, len(products)),
		byID:     make(map[uuid.UUID]int, len(products)),
	}
	names := make(map[string]struct{}, len(products))

	for i, p := range products {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, fmt.Errorf("product %d: name is required", i)
		}
		if _, dup := names[strings.ToLower(name)]; dup {
			return nil, fmt.Errorf("product %d: duplicate name %q", i, name)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("product %q: price must not be negative", name)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("product %q: duplicate id %s", name, p.ID)
		}

		names[strings.ToLower(name)] = struct{}{}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}

	return c, nil
}

// Products returns a copy of the catalog in display order.
func (c *Catalog) Products() []model.Product {
	out := make([]model.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Lookup returns the product with the given ID.
func (c *Catalog) Lookup(id uuid.UUID) (model.Product, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return model.Product{}, false
	}
	return c.products[idx], true
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Default returns the built-in minibar menu.
func Default() []model.Product {
	menu := []struct {
		name  string
		price int64
	}{
		{"Stone Wood", 10},
		{"Young Henry", 10},
		{"Fellr", 10},
		{"Chardonnay", 24},
		{"Shiraz", 24},
		{"Coke", 5},
		{"No Sugar Coke", 5},
		{"Redbull", 5},
		{"Sparkling Water", 5},
		{"Pringle", 4},
		{"KitKat", 4},
		{"Cadbury", 4},
		{"Redrock Chips", 4},
	}

	products := make([]model.Product, len(menu))
	for i, item := range menu {
		products[i] = model.NewProduct(item.name, decimal.NewFromInt(item.price))
	}
	return products
}

// Open builds the startup catalog: the built-in menu when path is empty,
// otherwise the products read by loader.
func Open(ctx context.Context, loader Loader, path string) (*Catalog, error) {
	if path == "" {
		return New(Default())
	}

	products, err := loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	c, err := New(products)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return c, nil
}
