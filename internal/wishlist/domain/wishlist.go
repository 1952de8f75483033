package domain

import (
	catalog "github.com/jcmexdev/maison-storefront/internal/catalog/domain"
)

// Item is a snapshot of the product taken when it was saved.
type Item struct {
	ProductID int    `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Category  string `json:"category"`
	Image     string `json:"image"`
}

func ItemFrom(p catalog.Product) Item {
	return Item{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Category:  p.Category,
		Image:     p.PrimaryImage(),
	}
}

// Wishlist is a set of items keyed by product id, kept in the order they
// were saved.
type Wishlist struct {
	items []Item
}

// New drops duplicate product ids, keeping the first.
func New(items []Item) *Wishlist {
	w := &Wishlist{}
	for _, it := range items {
		if !w.Has(it.ProductID) {
			w.items = append(w.items, it)
		}
	}
	return w
}

// Toggle reports true when the product was added and false when removed.
func (w *Wishlist) Toggle(p catalog.Product) bool {
	if w.Remove(p.ID) {
		return false
	}
	w.items = append(w.items, ItemFrom(p))
	return true
}

func (w *Wishlist) Has(productID int) bool {
	return w.indexOf(productID) >= 0
}

// Remove reports whether the product was present.
func (w *Wishlist) Remove(productID int) bool {
	idx := w.indexOf(productID)
	if idx < 0 {
		return false
	}
	w.items = append(w.items[:idx], w.items[idx+1:]...)
	return true
}

func (w *Wishlist) Items() []Item {
	out := make([]Item, len(w.items))
	copy(out, w.items)
	return out
}

func (w *Wishlist) Len() int {
	return len(w.items)
}

func (w *Wishlist) indexOf(productID int) int {
	for i := range w.items {
		if w.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
