package checkout

import (
	"context"
	"errors"
	"fmt"

	cart "github.com/jcmexdev/maison-storefront/internal/cart/domain"
	catalog "github.com/jcmexdev/maison-storefront/internal/catalog/domain"
	"github.com/jcmexdev/maison-storefront/internal/checkout/saga"
	ledger "github.com/jcmexdev/maison-storefront/internal/ledger/domain"
)

var ErrOutOfStock = errors.New("checkout: product out of stock")

// --- StockStep ---

type StockStep struct {
	products ProductSource
	lines    []cart.Line
}

func NewStockStep(products ProductSource, lines []cart.Line) *StockStep {
	return &StockStep{products: products, lines: lines}
}

func (s *StockStep) Name() string { return "Stock_Check_Step" }

func (s *StockStep) Execute(ctx context.Context) error {
	for _, l := range s.lines {
		p, ok := s.products.Get(l.ProductID)
		if !ok || !p.InStock {
			return fmt.Errorf("%w: %s", ErrOutOfStock, l.Name)
		}
	}
	return nil
}

// Compensate has nothing to undo; the check reserves nothing.
func (s *StockStep) Compensate(ctx context.Context) error { return nil }

// --- PaymentStep ---

type PaymentStep struct {
	gateway         PaymentGateway
	reference       string
	amount          int64
	authorizationID string
}

func NewPaymentStep(gateway PaymentGateway, reference string, amount int64) *PaymentStep {
	return &PaymentStep{gateway: gateway, reference: reference, amount: amount}
}

func (s *PaymentStep) Name() string { return "Payment_Authorization_Step" }

// Execute skips the gateway when coins cover the whole order.
func (s *PaymentStep) Execute(ctx context.Context) error {
	if s.amount <= 0 {
		return nil
	}
	id, err := s.gateway.Authorize(ctx, s.reference, s.amount)
	if err != nil {
		return fmt.Errorf("authorize payment: %w", err)
	}
	s.authorizationID = id
	return nil
}

func (s *PaymentStep) Compensate(ctx context.Context) error {
	if s.authorizationID == "" {
		return nil
	}
	return s.gateway.Void(ctx, s.authorizationID)
}

// --- ClearCartStep ---

type ClearCartStep struct {
	cart  Cart
	saved []cart.Line
}

func NewClearCartStep(c Cart) *ClearCartStep {
	return &ClearCartStep{cart: c}
}

func (s *ClearCartStep) Name() string { return "Clear_Cart_Step" }

func (s *ClearCartStep) Execute(ctx context.Context) error {
	s.saved = s.cart.Lines()
	if err := s.cart.Clear(ctx); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *ClearCartStep) Compensate(ctx context.Context) error {
	return s.cart.Replace(ctx, s.saved)
}

// --- RecordOrderStep ---

// RecordOrderStep runs last: once the ledger holds the order the saga has
// succeeded and nothing needs to be undone.
type RecordOrderStep struct {
	ledger        Ledger
	draft         ledger.Draft
	coinsRedeemed int64
	order         ledger.Order
}

func NewRecordOrderStep(l Ledger, draft ledger.Draft, coinsRedeemed int64) *RecordOrderStep {
	return &RecordOrderStep{ledger: l, draft: draft, coinsRedeemed: coinsRedeemed}
}

func (s *RecordOrderStep) Name() string { return "Record_Order_Step" }

func (s *RecordOrderStep) Execute(ctx context.Context) error {
	order, err := s.ledger.Place(ctx, s.draft, s.coinsRedeemed)
	if err != nil {
		return fmt.Errorf("record order: %w", err)
	}
	s.order = order
	return nil
}

func (s *RecordOrderStep) Compensate(ctx context.Context) error { return nil }

var (
	_ saga.Step = (*StockStep)(nil)
	_ saga.Step = (*PaymentStep)(nil)
	_ saga.Step = (*ClearCartStep)(nil)
	_ saga.Step = (*RecordOrderStep)(nil)
)

// ProductSource is satisfied by *catalog.Catalog.
type ProductSource interface {
	Get(id int) (catalog.Product, bool)
}
