package app

import (
	"context"
	"fmt"
	"sync"

	catalog "github.com/jcmexdev/maison-storefront/internal/catalog/domain"
	"github.com/jcmexdev/maison-storefront/internal/notify"
	"github.com/jcmexdev/maison-storefront/internal/pkg/kvstore"
	"github.com/jcmexdev/maison-storefront/internal/wishlist/domain"
)

// CartAdder is the slice of the cart service MoveToCart needs.
type CartAdder interface {
	AddItem(ctx context.Context, p catalog.Product) error
}

// Service owns one browser's wishlist. Each toggle or removal of a present
// item emits exactly one notification.
type Service struct {
	mu       sync.RWMutex
	list     *domain.Wishlist
	store    kvstore.Store
	key      kvstore.Key
	notifier notify.Notifier
}

func NewService(ctx context.Context, store kvstore.Store, browserID string, notifier notify.Notifier) (*Service, error) {
	s := &Service{
		store:    store,
		key:      kvstore.Key{Namespace: kvstore.NamespaceWishlist, Owner: browserID},
		notifier: notifier,
	}

	var items []domain.Item
	if _, err := kvstore.LoadJSON(ctx, store, s.key, &items); err != nil {
		return nil, fmt.Errorf("wishlist: load: %w", err)
	}
	s.list = domain.New(items)
	return s, nil
}

// Toggle reports whether the product is now in the wishlist.
func (s *Service) Toggle(ctx context.Context, p catalog.Product) (bool, error) {
	var added bool
	err := s.mutate(ctx, func(w *domain.Wishlist) bool {
		added = w.Toggle(p)
		return true
	})

	if added {
		s.notifier.Push(fmt.Sprintf("%s added to wishlist", p.Name), notify.SeveritySuccess)
	} else {
		s.notifier.Push(fmt.Sprintf("%s removed from wishlist", p.Name), notify.SeverityInfo)
	}
	return added, err
}

// Remove reports whether the product was present. Absent products change
// nothing and stay silent.
func (s *Service) Remove(ctx context.Context, productID int) (bool, error) {
	var removed domain.Item
	var ok bool
	err := s.mutate(ctx, func(w *domain.Wishlist) bool {
		removed, ok = s.find(productID)
		return ok && w.Remove(productID)
	})
	if ok {
		s.notifier.Push(fmt.Sprintf("%s removed from wishlist", removed.Name), notify.SeverityInfo)
	}
	return ok, err
}

// MoveToCart removes p from the wishlist and adds it to the cart. It reports
// false, touching neither, when p was not saved.
func (s *Service) MoveToCart(ctx context.Context, p catalog.Product, cart CartAdder) (bool, error) {
	var moved bool
	err := s.mutate(ctx, func(w *domain.Wishlist) bool {
		moved = w.Remove(p.ID)
		return moved
	})
	if !moved {
		return false, err
	}
	if cartErr := cart.AddItem(ctx, p); cartErr != nil {
		return true, fmt.Errorf("wishlist: move to cart: %w", cartErr)
	}
	return true, err
}

func (s *Service) Has(productID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list.Has(productID)
}

func (s *Service) Items() []domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list.Items()
}

// find must be called with the lock held.
func (s *Service) find(productID int) (domain.Item, bool) {
	for _, it := range s.list.Items() {
		if it.ProductID == productID {
			return it, true
		}
	}
	return domain.Item{}, false
}

// mutate persists only when fn reports a change.
func (s *Service) mutate(ctx context.Context, fn func(w *domain.Wishlist) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !fn(s.list) {
		return nil
	}
	if err := kvstore.SaveJSON(ctx, s.store, s.key, s.list.Items()); err != nil {
		return fmt.Errorf("wishlist: persist: %w", err)
	}
	return nil
}
