package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	auth "github.com/jcmexdev/maison-storefront/internal/auth/domain"
	cart "github.com/jcmexdev/maison-storefront/internal/cart/domain"
	"github.com/jcmexdev/maison-storefront/internal/checkout/saga"
	ledger "github.com/jcmexdev/maison-storefront/internal/ledger/domain"
	"github.com/jcmexdev/maison-storefront/internal/notify"
)

var (
	ErrNoIdentity = errors.New("checkout: sign in required")
	ErrEmptyCart  = errors.New("checkout: cart is empty")
)

// Cart is the part of the cart service checkout reads and clears.
type Cart interface {
	Lines() []cart.Line
	Totals() cart.Totals
	Clear(ctx context.Context) error
	Replace(ctx context.Context, lines []cart.Line) error
}

// Ledger is the part of the order ledger checkout records into.
type Ledger interface {
	Place(ctx context.Context, draft ledger.Draft, coinsRedeemed int64) (ledger.Order, error)
	Balance() int64
}

// IdentitySource reports who is signed in.
type IdentitySource interface {
	Current() (auth.Identity, bool)
}

type Request struct {
	Address  ledger.ShippingAddress `json:"shippingAddress"`
	Coupon   string                 `json:"coupon"`
	UseCoins bool                   `json:"useCoins"`
}

// maxReplays bounds the idempotency keys remembered per service.
const maxReplays = 32

type Service struct {
	// mu serializes placements so one cart can only become one order.
	mu      sync.Mutex
	replays map[string]ledger.Order
	keys    []string

	cart     Cart
	ledger   Ledger
	identity IdentitySource
	products ProductSource
	payments PaymentGateway
	notifier notify.Notifier
	journal  saga.Journal
}

type Deps struct {
	Cart     Cart
	Ledger   Ledger
	Identity IdentitySource
	Products ProductSource
	Payments PaymentGateway
	Notifier notify.Notifier
	Journal  saga.Journal
}

func NewService(d Deps) *Service {
	return &Service{
		cart:     d.Cart,
		ledger:   d.Ledger,
		identity: d.Identity,
		products: d.Products,
		payments: d.Payments,
		notifier: d.Notifier,
		journal:  d.Journal,
		replays:  make(map[string]ledger.Order),
	}
}

// Quote prices the current cart against the signed-in balance.
func (s *Service) Quote(coupon string, useCoins bool) (Summary, error) {
	return Quote(s.cart.Totals(), coupon, useCoins, s.ledger.Balance())
}

// PlaceOrder validates the request and runs the placement saga:
// stock check, payment authorization, cart clear, ledger record. A failure
// voids the payment and restores the cart.
func (s *Service) PlaceOrder(ctx context.Context, req Request) (ledger.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placeOrder(ctx, req)
}

// PlaceOrderOnce places at most one order per signed-in user and key. A
// repeated key returns the order it placed with replayed set. Keys are
// remembered for the most recent placements only.
func (s *Service) PlaceOrderOnce(ctx context.Context, key string, req Request) (order ledger.Order, replayed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.identity.Current()
	if !ok {
		return ledger.Order{}, false, ErrNoIdentity
	}
	replayKey := id.Username + "\x00" + key
	if prev, ok := s.replays[replayKey]; ok {
		return prev, true, nil
	}

	order, err = s.placeOrder(ctx, req)
	if err != nil {
		return ledger.Order{}, false, err
	}
	s.remember(replayKey, order)
	return order, false, nil
}

func (s *Service) remember(key string, order ledger.Order) {
	if len(s.keys) == maxReplays {
		delete(s.replays, s.keys[0])
		s.keys = s.keys[1:]
	}
	s.keys = append(s.keys, key)
	s.replays[key] = order
}

func (s *Service) placeOrder(ctx context.Context, req Request) (ledger.Order, error) {
	if _, ok := s.identity.Current(); !ok {
		return ledger.Order{}, ErrNoIdentity
	}
	if err := ValidateAddress(req.Address); err != nil {
		return ledger.Order{}, err
	}

	lines := s.cart.Lines()
	if len(lines) == 0 {
		return ledger.Order{}, ErrEmptyCart
	}

	summary, err := Quote(cart.New(lines).Totals(), req.Coupon, req.UseCoins, s.ledger.Balance())
	if err != nil {
		return ledger.Order{}, err
	}

	draft := ledger.Draft{
		Items:           orderItems(lines),
		Subtotal:        summary.Subtotal,
		Discount:        summary.Discount,
		CouponCode:      summary.CouponCode,
		CoinDiscount:    summary.CoinDiscount,
		Shipping:        summary.Shipping,
		Total:           summary.Total,
		ShippingAddress: req.Address,
	}

	sagaID := uuid.NewString()
	record := NewRecordOrderStep(s.ledger, draft, summary.CoinDiscount)
	orchestrator := saga.NewOrchestrator(sagaID, s.journal,
		NewStockStep(s.products, lines),
		NewPaymentStep(s.payments, sagaID, summary.Total),
		NewClearCartStep(s.cart),
		record,
	)

	if err := orchestrator.Run(ctx); err != nil {
		slog.WarnContext(ctx, "order placement failed", "saga_id", sagaID, "error", err)
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			s.notifier.Push(placementFailureText(err), notify.SeverityError)
		}
		return ledger.Order{}, err
	}

	order := record.order
	s.notifier.Push(fmt.Sprintf("Order %s placed", order.OrderNumber), notify.SeveritySuccess)
	return order, nil
}

func placementFailureText(err error) string {
	switch {
	case errors.Is(err, ErrOutOfStock):
		return "Some items in your bag are no longer available"
	case errors.Is(err, ErrPaymentDeclined):
		return "Your payment was declined"
	default:
		return "We could not place your order, please try again"
	}
}

func orderItems(lines []cart.Line) []ledger.OrderItem {
	items := make([]ledger.OrderItem, len(lines))
	for i, l := range lines {
		items[i] = ledger.OrderItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
			Image:     l.Image,
		}
	}
	return items
}
