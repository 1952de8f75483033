// Package storefront wires every service for one browser into a Scope.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jcmexdev/maison-storefront/internal/auth"
	authdomain "github.com/jcmexdev/maison-storefront/internal/auth/domain"
	cartapp "github.com/jcmexdev/maison-storefront/internal/cart/app"
	"github.com/jcmexdev/maison-storefront/internal/catalog"
	catalogdomain "github.com/jcmexdev/maison-storefront/internal/catalog/domain"
	"github.com/jcmexdev/maison-storefront/internal/checkout"
	"github.com/jcmexdev/maison-storefront/internal/checkout/saga"
	ledgerapp "github.com/jcmexdev/maison-storefront/internal/ledger/app"
	"github.com/jcmexdev/maison-storefront/internal/notify"
	"github.com/jcmexdev/maison-storefront/internal/pkg/kvstore"
	wishlistapp "github.com/jcmexdev/maison-storefront/internal/wishlist/app"
)

const signInRequiredMessage = "Please sign in to continue"

var (
	ErrNotAuthenticated = errors.New("storefront: not authenticated")
	ErrUnknownProduct   = errors.New("storefront: unknown product")
)

// Deps are shared by every scope of the process.
type Deps struct {
	Store        kvstore.Store
	Catalog      *catalog.Catalog
	Verifier     auth.CredentialVerifier
	Payments     checkout.PaymentGateway
	Journal      saga.Journal
	LoginLatency time.Duration
	Notify       notify.Options
}

// Scope owns the state of one browser session. Cart and wishlist belong to
// the browser; orders and coins follow whoever is signed in.
type Scope struct {
	BrowserID     string
	Catalog       *catalog.Catalog
	Session       *auth.Session
	Cart          *cartapp.Service
	Wishlist      *wishlistapp.Service
	Ledger        *ledgerapp.Ledger
	Notifications *notify.Queue
	Checkout      *checkout.Service
}

// NewScope restores the persisted identity and its ledger before returning.
func NewScope(ctx context.Context, browserID string, d Deps) (*Scope, error) {
	s := &Scope{
		BrowserID:     browserID,
		Catalog:       d.Catalog,
		Notifications: notify.NewQueue(d.Notify),
		Ledger:        ledgerapp.New(d.Store, ledgerapp.Options{}),
	}

	var err error
	if s.Session, err = auth.NewSession(ctx, d.Store, browserID, d.Verifier, auth.SessionOptions{Latency: d.LoginLatency}); err != nil {
		return nil, err
	}
	if id, ok := s.Session.Current(); ok {
		if err := s.Ledger.Switch(ctx, &id); err != nil {
			return nil, err
		}
	}
	s.Session.OnChange(s.Ledger.Switch)

	if s.Cart, err = cartapp.NewService(ctx, d.Store, browserID, s.Notifications); err != nil {
		return nil, err
	}
	if s.Wishlist, err = wishlistapp.NewService(ctx, d.Store, browserID, s.Notifications); err != nil {
		return nil, err
	}

	s.Checkout = checkout.NewService(checkout.Deps{
		Cart:     s.Cart,
		Ledger:   s.Ledger,
		Identity: s.Session,
		Products: d.Catalog,
		Payments: d.Payments,
		Notifier: s.Notifications,
		Journal:  d.Journal,
	})
	return s, nil
}

// RequireIdentity guards mutations that need a signed-in shopper. A refusal
// is surfaced to the shopper as an error toast.
func (s *Scope) RequireIdentity() (authdomain.Identity, error) {
	id, ok := s.Session.Current()
	if !ok {
		s.Notifications.Push(signInRequiredMessage, notify.SeverityError)
		return authdomain.Identity{}, ErrNotAuthenticated
	}
	return id, nil
}

func (s *Scope) Login(ctx context.Context, username, password string) (auth.LoginResult, error) {
	res, err := s.Session.Login(ctx, username, password)
	if err != nil {
		return res, err
	}
	if res.Success {
		s.Notifications.Push(fmt.Sprintf("Welcome back, %s", res.Identity.Name), notify.SeveritySuccess)
	}
	return res, nil
}

func (s *Scope) Logout(ctx context.Context) error {
	if err := s.Session.Logout(ctx); err != nil {
		return err
	}
	s.Notifications.Push("You have been signed out", notify.SeverityInfo)
	return nil
}

func (s *Scope) AddToCart(ctx context.Context, productID int) error {
	p, err := s.guardedProduct(productID)
	if err != nil {
		return err
	}
	return s.Cart.AddItem(ctx, p)
}

func (s *Scope) SetCartQuantity(ctx context.Context, productID, qty int) error {
	if _, err := s.RequireIdentity(); err != nil {
		return err
	}
	return s.Cart.SetQuantity(ctx, productID, qty)
}

func (s *Scope) RemoveFromCart(ctx context.Context, productID int) error {
	if _, err := s.RequireIdentity(); err != nil {
		return err
	}
	return s.Cart.RemoveItem(ctx, productID)
}

func (s *Scope) ClearCart(ctx context.Context) error {
	if _, err := s.RequireIdentity(); err != nil {
		return err
	}
	return s.Cart.Clear(ctx)
}

func (s *Scope) ToggleWishlist(ctx context.Context, productID int) (bool, error) {
	p, err := s.guardedProduct(productID)
	if err != nil {
		return false, err
	}
	return s.Wishlist.Toggle(ctx, p)
}

func (s *Scope) RemoveFromWishlist(ctx context.Context, productID int) (bool, error) {
	if _, err := s.RequireIdentity(); err != nil {
		return false, err
	}
	return s.Wishlist.Remove(ctx, productID)
}

func (s *Scope) MoveToCart(ctx context.Context, productID int) (bool, error) {
	p, err := s.guardedProduct(productID)
	if err != nil {
		return false, err
	}
	return s.Wishlist.MoveToCart(ctx, p, s.Cart)
}

// guardedProduct checks identity first so an anonymous shopper is asked to
// sign in even for unknown ids.
func (s *Scope) guardedProduct(productID int) (catalogdomain.Product, error) {
	if _, err := s.RequireIdentity(); err != nil {
		return catalogdomain.Product{}, err
	}
	p, ok := s.Catalog.Get(productID)
	if !ok {
		return catalogdomain.Product{}, fmt.Errorf("%w: %d", ErrUnknownProduct, productID)
	}
	return p, nil
}
