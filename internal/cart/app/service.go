package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/jcmexdev/maison-storefront/internal/cart/domain"
	catalog "github.com/jcmexdev/maison-storefront/internal/catalog/domain"
	"github.com/jcmexdev/maison-storefront/internal/notify"
	"github.com/jcmexdev/maison-storefront/internal/pkg/kvstore"
)

// Service owns one browser's cart and writes the whole cart back to the
// store after every mutation. The in-memory change stands even when the
// write fails; the error is returned so the caller can log it.
type Service struct {
	mu       sync.RWMutex
	cart     *domain.Cart
	store    kvstore.Store
	key      kvstore.Key
	notifier notify.Notifier
}

func NewService(ctx context.Context, store kvstore.Store, browserID string, notifier notify.Notifier) (*Service, error) {
	s := &Service{
		store:    store,
		key:      kvstore.Key{Namespace: kvstore.NamespaceCart, Owner: browserID},
		notifier: notifier,
	}

	var lines []domain.Line
	if _, err := kvstore.LoadJSON(ctx, store, s.key, &lines); err != nil {
		return nil, fmt.Errorf("cart: load: %w", err)
	}
	s.cart = domain.New(lines)
	return s, nil
}

func (s *Service) AddItem(ctx context.Context, p catalog.Product) error {
	err := s.mutate(ctx, func(c *domain.Cart) { c.Add(p) })
	s.notifier.Push(fmt.Sprintf("%s added to cart", p.Name), notify.SeveritySuccess)
	return err
}

func (s *Service) RemoveItem(ctx context.Context, productID int) error {
	return s.mutate(ctx, func(c *domain.Cart) { c.Remove(productID) })
}

func (s *Service) SetQuantity(ctx context.Context, productID, qty int) error {
	return s.mutate(ctx, func(c *domain.Cart) { c.SetQuantity(productID, qty) })
}

func (s *Service) Clear(ctx context.Context) error {
	return s.mutate(ctx, func(c *domain.Cart) { c.Clear() })
}

// Replace swaps in a previously captured set of lines.
func (s *Service) Replace(ctx context.Context, lines []domain.Line) error {
	return s.mutate(ctx, func(c *domain.Cart) { *c = *domain.New(lines) })
}

func (s *Service) Lines() []domain.Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Lines()
}

func (s *Service) Totals() domain.Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Totals()
}

func (s *Service) mutate(ctx context.Context, fn func(c *domain.Cart)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.cart)
	// written under the lock so the stored cart never lags a newer mutation
	if err := kvstore.SaveJSON(ctx, s.store, s.key, s.cart.Lines()); err != nil {
		return fmt.Errorf("cart: persist: %w", err)
	}
	return nil
}
