package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/maison-storefront/internal/pkg/async"
)

var ErrPaymentDeclined = errors.New("checkout: payment declined")

// PaymentGateway authorizes a charge and can void it again.
type PaymentGateway interface {
	Authorize(ctx context.Context, reference string, amount int64) (string, error)
	Void(ctx context.Context, authorizationID string) error
}

var _ PaymentGateway = (*SimulatedGateway)(nil)

// SimulatedGateway approves every charge after Latency unless DeclineAbove
// is set and the amount exceeds it. No money moves.
type SimulatedGateway struct {
	Latency      time.Duration
	DeclineAbove int64

	mu    sync.Mutex
	auths map[string]int64
}

func NewSimulatedGateway(latency time.Duration) *SimulatedGateway {
	return &SimulatedGateway{Latency: latency, auths: make(map[string]int64)}
}

func (g *SimulatedGateway) Authorize(ctx context.Context, reference string, amount int64) (string, error) {
	task := async.After(ctx, g.Latency, func(ctx context.Context) (string, error) {
		if g.DeclineAbove > 0 && amount > g.DeclineAbove {
			slog.InfoContext(ctx, "payment declined", "reference", reference, "amount", amount)
			return "", fmt.Errorf("%w: amount %d over limit", ErrPaymentDeclined, amount)
		}

		id := "auth_" + uuid.NewString()
		g.mu.Lock()
		g.auths[id] = amount
		g.mu.Unlock()

		slog.DebugContext(ctx, "payment authorized", "reference", reference, "authorization_id", id, "amount", amount)
		return id, nil
	})
	return task.Wait(ctx)
}

// Void is idempotent; unknown authorizations are ignored.
func (g *SimulatedGateway) Void(ctx context.Context, authorizationID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	amount, ok := g.auths[authorizationID]
	if !ok {
		slog.WarnContext(ctx, "no authorization to void", "authorization_id", authorizationID)
		return nil
	}
	delete(g.auths, authorizationID)
	slog.InfoContext(ctx, "payment voided", "authorization_id", authorizationID, "amount", amount)
	return nil
}

// Outstanding counts authorizations that were not voided.
func (g *SimulatedGateway) Outstanding() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.auths)
}
