package catalog

import (
	"slices"

	"github.com/jcmexdev/maison-storefront/internal/catalog/domain"
)

// Catalog is a read-only product table.
type Catalog struct {
	products []domain.Product
}

// New builds a catalog over a copy of products. Lookup's fallback needs at
// least one entry.
func New(products []domain.Product) *Catalog {
	cp := make([]domain.Product, len(products))
	for i, p := range products {
		cp[i] = clone(p)
	}
	return &Catalog{products: cp}
}

// Default returns the built-in storefront catalog.
func Default() *Catalog {
	return New(seed)
}

func (c *Catalog) List() []domain.Product {
	out := make([]domain.Product, len(c.products))
	for i, p := range c.products {
		out[i] = clone(p)
	}
	return out
}

// Get is the strict lookup.
func (c *Catalog) Get(id int) (domain.Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return clone(p), true
		}
	}
	return domain.Product{}, false
}

// Lookup never fails: an unknown id yields the first catalog entry. Product
// pages depend on this fallback, keep it.
func (c *Catalog) Lookup(id int) domain.Product {
	if p, ok := c.Get(id); ok {
		return p
	}
	return clone(c.products[0])
}

type Query struct {
	Gender      domain.Gender
	Category    string
	InStockOnly bool
}

func (c *Catalog) Filter(q Query) []domain.Product {
	out := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		if q.Gender != "" && p.Gender != q.Gender {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.InStockOnly && !p.InStock {
			continue
		}
		out = append(out, clone(p))
	}
	return out
}

// Categories returns distinct categories in table order.
func (c *Catalog) Categories() []string {
	var out []string
	for _, p := range c.products {
		if !slices.Contains(out, p.Category) {
			out = append(out, p.Category)
		}
	}
	return out
}

func clone(p domain.Product) domain.Product {
	p.Images = slices.Clone(p.Images)
	p.Sizes = slices.Clone(p.Sizes)
	return p
}
