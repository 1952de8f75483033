package domain

import (
	catalog "github.com/jcmexdev/maison-storefront/internal/catalog/domain"
)

const (
	// FreeShippingThreshold is exclusive: a subtotal of exactly 500 still pays shipping.
	FreeShippingThreshold int64 = 500
	ShippingFee           int64 = 25
)

// Line is one product in the cart. Name, price, category and image are
// copied when the product is added and do not follow later catalog changes.
type Line struct {
	ProductID int    `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Category  string `json:"category"`
	Image     string `json:"image"`
	Quantity  int    `json:"quantity"`
}

func (l Line) LineTotal() int64 {
	return l.Price * int64(l.Quantity)
}

// Cart keeps lines in insertion order with at most one line per product.
// Quantities are always >= 1.
type Cart struct {
	lines []Line
}

// New rebuilds a cart from persisted lines, dropping non-positive quantities
// and merging duplicates.
func New(lines []Line) *Cart {
	c := &Cart{}
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		if idx := c.indexOf(l.ProductID); idx >= 0 {
			c.lines[idx].Quantity += l.Quantity
			continue
		}
		c.lines = append(c.lines, l)
	}
	return c
}

// Add inserts the product with quantity 1 or bumps an existing line by one.
func (c *Cart) Add(p catalog.Product) {
	if idx := c.indexOf(p.ID); idx >= 0 {
		c.lines[idx].Quantity++
		return
	}
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Category:  p.Category,
		Image:     p.PrimaryImage(),
		Quantity:  1,
	})
}

// Remove reports whether a line was removed.
func (c *Cart) Remove(productID int) bool {
	idx := c.indexOf(productID)
	if idx < 0 {
		return false
	}
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	return true
}

// SetQuantity removes the line when qty < 1. Unknown products are ignored.
func (c *Cart) SetQuantity(productID, qty int) {
	if qty < 1 {
		c.Remove(productID)
		return
	}
	if idx := c.indexOf(productID); idx >= 0 {
		c.lines[idx].Quantity = qty
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Line(productID int) (Line, bool) {
	if idx := c.indexOf(productID); idx >= 0 {
		return c.lines[idx], true
	}
	return Line{}, false
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Subtotal() int64 {
	var sum int64
	for _, l := range c.lines {
		sum += l.LineTotal()
	}
	return sum
}

func (c *Cart) Shipping() int64 {
	return ShippingFor(c.Subtotal())
}

func (c *Cart) Total() int64 {
	sub := c.Subtotal()
	return sub + ShippingFor(sub)
}

// Totals is a snapshot of the derived values.
type Totals struct {
	Count    int   `json:"count"`
	Subtotal int64 `json:"subtotal"`
	Shipping int64 `json:"shipping"`
	Total    int64 `json:"total"`
}

func (c *Cart) Totals() Totals {
	sub := c.Subtotal()
	ship := ShippingFor(sub)
	return Totals{
		Count:    c.Count(),
		Subtotal: sub,
		Shipping: ship,
		Total:    sub + ship,
	}
}

func ShippingFor(subtotal int64) int64 {
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return ShippingFee
}

func (c *Cart) indexOf(productID int) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}
