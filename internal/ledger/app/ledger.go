// Package app keeps the signed-in identity's order history and coin balance.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	auth "github.com/jcmexdev/maison-storefront/internal/auth/domain"
	"github.com/jcmexdev/maison-storefront/internal/ledger/domain"
	"github.com/jcmexdev/maison-storefront/internal/pkg/kvstore"
)

var (
	ErrNoIdentity        = errors.New("ledger: no identity signed in")
	ErrInsufficientCoins = errors.New("ledger: insufficient coins")
	ErrInvalidRedemption = errors.New("ledger: coins redeemed must not be negative")
)

// Ledger holds the orders and balance of at most one identity at a time.
// Switching identity swaps both from the store; nothing leaks across users.
type Ledger struct {
	mu       sync.RWMutex
	identity *auth.Identity
	orders   []domain.Order
	balance  int64

	store kvstore.Store
	now   func() time.Time
}

type Options struct {
	Now func() time.Time
}

func New(store kvstore.Store, opts Options) *Ledger {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Ledger{store: store, now: opts.Now}
}

// Switch loads identity's ledger. A nil identity resets to empty, which is
// how logout is observed; stored records are kept.
func (l *Ledger) Switch(ctx context.Context, identity *auth.Identity) error {
	if identity == nil {
		l.Reset()
		return nil
	}

	var orders []domain.Order
	if _, err := kvstore.LoadJSON(ctx, l.store, ordersKey(identity.Username), &orders); err != nil {
		return fmt.Errorf("ledger: load orders: %w", err)
	}
	var balance int64
	if _, err := kvstore.LoadJSON(ctx, l.store, coinsKey(identity.Username), &balance); err != nil {
		return fmt.Errorf("ledger: load coins: %w", err)
	}
	if balance < 0 {
		slog.WarnContext(ctx, "negative coin balance reset", "username", identity.Username, "balance", balance)
		balance = 0
	}

	id := *identity
	l.mu.Lock()
	l.identity = &id
	l.orders = orders
	l.balance = balance
	l.mu.Unlock()
	return nil
}

func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.identity = nil
	l.orders = nil
	l.balance = 0
}

// Place records a new order at the head of the ledger and settles coins:
// balance' = balance + earned - redeemed. The balance never goes negative.
func (l *Ledger) Place(ctx context.Context, draft domain.Draft, coinsRedeemed int64) (domain.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.identity == nil {
		return domain.Order{}, ErrNoIdentity
	}
	if coinsRedeemed < 0 {
		return domain.Order{}, ErrInvalidRedemption
	}
	if coinsRedeemed > l.balance {
		return domain.Order{}, fmt.Errorf("%w: redeeming %d of %d", ErrInsufficientCoins, coinsRedeemed, l.balance)
	}

	now := l.now()
	order := domain.Order{
		ID:              uuid.NewString(),
		OrderNumber:     domain.NewOrderNumber(now),
		Items:           append([]domain.OrderItem(nil), draft.Items...),
		Subtotal:        draft.Subtotal,
		Discount:        draft.Discount,
		CouponCode:      draft.CouponCode,
		CoinDiscount:    draft.CoinDiscount,
		Shipping:        draft.Shipping,
		Total:           draft.Total,
		Status:          domain.StatusProcessing,
		Date:            now.UTC(),
		CoinsEarned:     domain.CoinsEarned(draft.Total, l.identity.Tier.EarnMultiplier()),
		CoinsRedeemed:   coinsRedeemed,
		ShippingAddress: draft.ShippingAddress,
	}

	orders := append([]domain.Order{order}, l.orders...)
	balance := l.balance + order.CoinsEarned - coinsRedeemed
	username := l.identity.Username

	if err := kvstore.SaveJSON(ctx, l.store, ordersKey(username), orders); err != nil {
		return domain.Order{}, fmt.Errorf("ledger: persist orders: %w", err)
	}
	if err := kvstore.SaveJSON(ctx, l.store, coinsKey(username), balance); err != nil {
		l.restoreOrders(ctx, username)
		return domain.Order{}, fmt.Errorf("ledger: persist coins: %w", err)
	}
	l.orders = orders
	l.balance = balance

	if err := kvstore.SaveJSON(ctx, l.store, lastOrderKey(username), order); err != nil {
		slog.WarnContext(ctx, "last order handoff not written", "order_number", order.OrderNumber, "error", err)
	}

	slog.InfoContext(ctx, "order placed",
		"order_number", order.OrderNumber,
		"username", username,
		"total", order.Total,
		"coins_earned", order.CoinsEarned,
		"coins_redeemed", coinsRedeemed,
	)
	return order, nil
}

// restoreOrders puts back the orders record as it was before a placement
// whose coin write failed. Callers hold l.mu.
func (l *Ledger) restoreOrders(ctx context.Context, username string) {
	ctx = context.WithoutCancel(ctx)
	var err error
	if len(l.orders) == 0 {
		err = l.store.Delete(ctx, ordersKey(username))
	} else {
		err = kvstore.SaveJSON(ctx, l.store, ordersKey(username), l.orders)
	}
	if err != nil {
		slog.ErrorContext(ctx, "orders record not restored", "username", username, "error", err)
	}
}

// Orders is most recent first.
func (l *Ledger) Orders() []domain.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Order, len(l.orders))
	copy(out, l.orders)
	return out
}

func (l *Ledger) Balance() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balance
}

func (l *Ledger) Find(orderNumber string) (domain.Order, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, o := range l.orders {
		if o.OrderNumber == orderNumber {
			return o, true
		}
	}
	return domain.Order{}, false
}

// TakeLastPlaced returns the most recently placed order once and deletes the
// handoff record, so a second call reports false.
func (l *Ledger) TakeLastPlaced(ctx context.Context) (domain.Order, bool, error) {
	l.mu.RLock()
	identity := l.identity
	l.mu.RUnlock()
	if identity == nil {
		return domain.Order{}, false, ErrNoIdentity
	}

	key := lastOrderKey(identity.Username)
	var order domain.Order
	found, err := kvstore.LoadJSON(ctx, l.store, key, &order)
	if err != nil || !found {
		return domain.Order{}, false, err
	}
	if err := l.store.Delete(ctx, key); err != nil {
		return domain.Order{}, false, fmt.Errorf("ledger: consume last order: %w", err)
	}
	return order, true, nil
}

func ordersKey(username string) kvstore.Key {
	return kvstore.Key{Namespace: kvstore.NamespaceOrders, Owner: username}
}

func coinsKey(username string) kvstore.Key {
	return kvstore.Key{Namespace: kvstore.NamespaceCoins, Owner: username}
}

func lastOrderKey(username string) kvstore.Key {
	return kvstore.Key{Namespace: kvstore.NamespaceLastOrder, Owner: username}
}
