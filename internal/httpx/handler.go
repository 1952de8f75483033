package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/maison-storefront/internal/catalog"
	catalogdomain "github.com/jcmexdev/maison-storefront/internal/catalog/domain"
	"github.com/jcmexdev/maison-storefront/internal/checkout"
	ledgerapp "github.com/jcmexdev/maison-storefront/internal/ledger/app"
	"github.com/jcmexdev/maison-storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/maison-storefront/internal/storefront"
)

const loginPath = "/login"

// Pinger is implemented by store backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the storefront API. Every request runs against the scope of
// the calling browser.
type Handler struct {
	registry *storefront.Registry
	catalog  *catalog.Catalog
	health   Pinger
}

// NewHandler accepts a nil health pinger.
func NewHandler(registry *storefront.Registry, c *catalog.Catalog, health Pinger) *Handler {
	return &Handler{registry: registry, catalog: c, health: health}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- catalog ---

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	inStock, _ := strconv.ParseBool(q.Get("inStock"))
	writeJSON(w, http.StatusOK, h.catalog.Filter(catalog.Query{
		Gender:      catalogdomain.Gender(q.Get("gender")),
		Category:    q.Get("category"),
		InStockOnly: inStock,
	}))
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Categories())
}

// GetProduct keeps the catalog fallback: an unknown id answers with the
// first product.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.catalog.Lookup(id))
}

// --- cart ---

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.scope(w, r)
	if !ok {
		return
	}
	writeCart(w, http.StatusOK, s)
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.scope(w, r)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.AddToCart(r.Context(), req.ProductID); err != nil && !h.tolerate(w, r, err) {
		return
	}
	writeCart(w, http.StatusCreated, s)
}

func (h *Handler) SetCartQuantity(w http.ResponseWriter, r *http.Request) {
	s, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	var req SetQuantityRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.SetCartQuantity(r.Context(), id, req.Quantity); err != nil && !h.tolerate(w, r, err) {
		return
	}
	writeCart(w, http.StatusOK, s)
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	if err := s.RemoveFromCart(r.Context(), id); err != nil && !h.tolerate(w, r, err) {
		return
	}
	writeCart(w, http.StatusOK, s)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.scope(w, r)
	if !ok {
		return
	}
	if err := s.ClearCart(r.Context()); err != nil && !h.tolerate(w, r, err) {
		return
	}
	writeCart(w, http.StatusOK, s)
}

// --- wishlist ---

func (h *Handler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	s, ok := h.scope(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, WishlistResponse{Items: s.Wishlist.Items()})
}

func (h *Handler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	s, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	added, err := s.ToggleWishlist(r.Context(), id)
	if err != nil && !h.tolerate(w, r, err) {
		return
	}
	writeJSON(w, http.StatusOK, ToggleWishlistResponse{Added: added, Items: s.Wishlist.Items()})
}

func (h *Handler) RemoveWishlistItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	if _, err := s.RemoveFromWishlist(r.Context(), id); err != nil && !h.tolerate(w, r, err) {
		return
	}
	writeJSON(w, http.StatusOK, WishlistResponse{Items: s.Wishlist.Items()})
}

func (h *Handler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	moved, err := s.MoveToCart(r.Context(), id)
	if err != nil && !h.tolerate(w, r, err) {
		return
	}
	if !moved {
		writeError(w, http.StatusNotFound, "not_in_wishlist", "product is not in the wishlist")
		return
	}
	writeCart(w, http.StatusOK, s)
}

// --- auth ---

// Login answers 200 for rejected credentials too; the body carries the
// outcome.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	s, ok := h.scope(w, r)
	if !ok {
		return
	}
	var req LoginRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := s.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	s, ok := h.scope(w, r)
	if !ok {
		return
	}
	if err := s.Logout(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	s, ok := h.scope(w, r)
	if !ok {
		return
	}
	resp := MeResponse{EarnMultiplier: s.Session.EarnMultiplier()}
	if id, ok := s.Session.Current(); ok {
		resp.Authenticated = true
		resp.Identity = &id
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- checkout ---

func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	s, ok := h.scope(w, r)
	if !ok {
		return
	}
	var req QuoteRequest
	if !decode(w, r, &req) {
		return
	}
	summary, err := s.Checkout.Quote(req.Coupon, req.UseCoins)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.scope(w, r)
	if !ok {
		return
	}
	if _, err := s.RequireIdentity(); err != nil {
		h.fail(w, r, err)
		return
	}
	var req checkout.Request
	if !decode(w, r, &req) {
		return
	}

	// a retried request with the same X-Idempotency-Key gets the order it
	// already placed for the signed-in user
	if key := idempotencyKey(r.Context()); key != "" {
		order, replayed, err := s.Checkout.PlaceOrderOnce(r.Context(), key, req)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		status := http.StatusCreated
		if replayed {
			status = http.StatusOK
		}
		writeJSON(w, status, order)
		return
	}

	order, err := s.Checkout.PlaceOrder(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// --- orders and loyalty ---

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	s, ok := h.scope(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Ledger.Orders())
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.scope(w, r)
	if !ok {
		return
	}
	order, ok := s.Ledger.Find(chi.URLParam(r, "number"))
	if !ok {
		writeError(w, http.StatusNotFound, "order_not_found", "")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// LastOrder hands the confirmation view the order just placed. It answers
// 404 on every call after the first.
func (h *Handler) LastOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.scope(w, r)
	if !ok {
		return
	}
	order, found, err := s.Ledger.TakeLastPlaced(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "no_recent_order", "")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) Loyalty(w http.ResponseWriter, r *http.Request) {
	s, ok := h.scope(w, r)
	if !ok {
		return
	}
	resp := LoyaltyResponse{Balance: s.Ledger.Balance(), EarnMultiplier: s.Session.EarnMultiplier()}
	if id, ok := s.Session.Current(); ok {
		resp.Tier = id.Tier
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- notifications ---

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	s, ok := h.scope(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Notifications.Active())
}

func (h *Handler) DismissNotification(w http.ResponseWriter, r *http.Request) {
	s, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error())
		return
	}
	if !s.Notifications.Dismiss(id) {
		writeError(w, http.StatusNotFound, "notification_not_found", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- helpers ---

func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (*storefront.Scope, bool) {
	s, err := h.registry.Scope(r.Context(), browserID(r.Context()))
	if err != nil {
		slog.ErrorContext(r.Context(), "open scope failed", "error", err)
		writeError(w, http.StatusInternalServerError, "scope_unavailable", err.Error())
		return nil, false
	}
	return s, true
}

// tolerate logs persistence failures and lets the request succeed, since the
// in-memory state already changed. Any other error is written and reported
// as not tolerated.
func (h *Handler) tolerate(w http.ResponseWriter, r *http.Request, err error) bool {
	if status, _, _ := classify(err); status != http.StatusInternalServerError {
		h.fail(w, r, err)
		return false
	}
	slog.WarnContext(r.Context(), "state not persisted", "error", err)
	return true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := classify(err)
	resp := ErrorResponse{Error: code, Message: msg}

	switch status {
	case http.StatusUnauthorized:
		resp.Redirect = loginPath
	case http.StatusUnprocessableEntity:
		resp.Fields = checkout.FieldErrors(err)
	case http.StatusInternalServerError:
		slog.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"request_id", interceptors.RequestIDFromContext(r.Context()),
			"error", err,
		)
	}
	writeJSON(w, status, resp)
}

func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, storefront.ErrNotAuthenticated), errors.Is(err, checkout.ErrNoIdentity):
		return http.StatusUnauthorized, "not_authenticated", "Please sign in to continue"
	case errors.Is(err, storefront.ErrUnknownProduct):
		return http.StatusNotFound, "product_not_found", err.Error()
	case errors.Is(err, checkout.ErrInvalidCoupon):
		return http.StatusBadRequest, "invalid_coupon", "Invalid coupon code"
	case errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusBadRequest, "empty_cart", "Your bag is empty"
	case len(checkout.FieldErrors(err)) > 0:
		return http.StatusUnprocessableEntity, "validation_failed", err.Error()
	case errors.Is(err, checkout.ErrOutOfStock):
		return http.StatusConflict, "out_of_stock", err.Error()
	case errors.Is(err, checkout.ErrPaymentDeclined):
		return http.StatusPaymentRequired, "payment_declined", err.Error()
	case errors.Is(err, ledgerapp.ErrInsufficientCoins):
		return http.StatusConflict, "insufficient_coins", err.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "cancelled", err.Error()
	default:
		return http.StatusInternalServerError, "internal_error", "something went wrong"
	}
}

func writeCart(w http.ResponseWriter, status int, s *storefront.Scope) {
	writeJSON(w, status, CartResponse{Lines: s.Cart.Lines(), Totals: s.Cart.Totals()})
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_"+name, err.Error())
		return 0, false
	}
	return v, true
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
