package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/maison-storefront/internal/auth"
	"github.com/jcmexdev/maison-storefront/internal/catalog"
	catalogdomain "github.com/jcmexdev/maison-storefront/internal/catalog/domain"
	"github.com/jcmexdev/maison-storefront/internal/checkout"
	"github.com/jcmexdev/maison-storefront/internal/checkout/saga"
	ledger "github.com/jcmexdev/maison-storefront/internal/ledger/domain"
	"github.com/jcmexdev/maison-storefront/internal/notify"
	"github.com/jcmexdev/maison-storefront/internal/notify/notifytest"
	"github.com/jcmexdev/maison-storefront/internal/pkg/interceptors/constants"
	"github.com/jcmexdev/maison-storefront/internal/pkg/kvstore"
	"github.com/jcmexdev/maison-storefront/internal/storefront"
)

type client struct {
	t       *testing.T
	handler http.Handler
	browser string
}

func newClient(t *testing.T) *client {
	t.Helper()
	c := catalog.Default()
	registry := storefront.NewRegistry(storefront.Deps{
		Store:    kvstore.NewMemory(),
		Catalog:  c,
		Verifier: auth.DefaultVerifier(),
		Payments: checkout.NewSimulatedGateway(0),
		Journal:  &saga.MemoryJournal{},
		Notify:   notify.Options{Scheduler: &notifytest.ManualScheduler{}},
	}, storefront.RegistryOptions{})
	return &client{t: t, handler: NewRouter(NewHandler(registry, c, nil)), browser: "browser-test"}
}

func (c *client) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(constants.HeaderXBrowserId, c.browser)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func (c *client) login(username, password string) {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/auth/login", LoginRequest{Username: username, Password: password})
	require.Equal(c.t, http.StatusOK, rec.Code)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	c := newClient(t)
	rec := c.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestProducts(t *testing.T) {
	c := newClient(t)

	all := decodeBody[[]catalogdomain.Product](t, c.do(http.MethodGet, "/products", nil))
	assert.Len(t, all, 10)

	inStock := decodeBody[[]catalogdomain.Product](t, c.do(http.MethodGet, "/products?inStock=true", nil))
	assert.Len(t, inStock, 8)

	p := decodeBody[catalogdomain.Product](t, c.do(http.MethodGet, "/products/4", nil))
	assert.Equal(t, 4, p.ID)

	fallback := decodeBody[catalogdomain.Product](t, c.do(http.MethodGet, "/products/9999", nil))
	assert.Equal(t, all[0].ID, fallback.ID)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/products/abc", nil).Code)
}

func TestAnonymousCartMutationRedirectsToLogin(t *testing.T) {
	c := newClient(t)

	rec := c.do(http.MethodPost, "/cart/items", AddCartItemRequest{ProductID: 1})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "/login", resp.Redirect)

	toasts := decodeBody[[]notify.Toast](t, c.do(http.MethodGet, "/notifications", nil))
	require.Len(t, toasts, 1)
	assert.Equal(t, "Please sign in to continue", toasts[0].Text)

	cart := decodeBody[CartResponse](t, c.do(http.MethodGet, "/cart", nil))
	assert.Empty(t, cart.Lines)
}

func TestCartFlow(t *testing.T) {
	c := newClient(t)
	c.login("od", "password")

	rec := c.do(http.MethodPost, "/cart/items", AddCartItemRequest{ProductID: 7})
	require.Equal(t, http.StatusCreated, rec.Code)
	c.do(http.MethodPost, "/cart/items", AddCartItemRequest{ProductID: 7})

	cart := decodeBody[CartResponse](t, c.do(http.MethodGet, "/cart", nil))
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Totals.Count)
	assert.Equal(t, int64(680), cart.Totals.Subtotal)
	assert.Equal(t, int64(0), cart.Totals.Shipping)

	cart = decodeBody[CartResponse](t, c.do(http.MethodPut, "/cart/items/7", SetQuantityRequest{Quantity: 1}))
	assert.Equal(t, int64(25), cart.Totals.Shipping)
	assert.Equal(t, int64(365), cart.Totals.Total)

	cart = decodeBody[CartResponse](t, c.do(http.MethodPut, "/cart/items/7", SetQuantityRequest{Quantity: 0}))
	assert.Empty(t, cart.Lines)

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/cart/items", AddCartItemRequest{ProductID: 999}).Code)
}

func TestWishlistFlow(t *testing.T) {
	c := newClient(t)
	c.login("guest", "guest123")

	resp := decodeBody[ToggleWishlistResponse](t, c.do(http.MethodPost, "/wishlist/3/toggle", nil))
	assert.True(t, resp.Added)
	require.Len(t, resp.Items, 1)

	cart := decodeBody[CartResponse](t, c.do(http.MethodPost, "/wishlist/3/move-to-cart", nil))
	require.Len(t, cart.Lines, 1)

	wl := decodeBody[WishlistResponse](t, c.do(http.MethodGet, "/wishlist", nil))
	assert.Empty(t, wl.Items)

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/wishlist/3/move-to-cart", nil).Code)
}

func TestLoginRejected(t *testing.T) {
	c := newClient(t)

	res := decodeBody[auth.LoginResult](t, c.do(http.MethodPost, "/auth/login", LoginRequest{Username: "od", Password: "wrong"}))
	assert.False(t, res.Success)
	assert.Equal(t, "Invalid username or password", res.Error)

	me := decodeBody[MeResponse](t, c.do(http.MethodGet, "/auth/me", nil))
	assert.False(t, me.Authenticated)
	assert.Equal(t, int64(1), me.EarnMultiplier)
}

func TestCheckoutFlow(t *testing.T) {
	c := newClient(t)
	c.login("vip", "password")
	c.do(http.MethodPost, "/cart/items", AddCartItemRequest{ProductID: 4})

	quote := decodeBody[checkout.Summary](t, c.do(http.MethodPost, "/checkout/quote", QuoteRequest{Coupon: "welcome15"}))
	assert.Equal(t, int64(510), quote.Discount)
	assert.Equal(t, int64(2890), quote.Total)

	rec := c.do(http.MethodPost, "/checkout/quote", QuoteRequest{Coupon: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, "/checkout/orders", checkout.Request{Coupon: "WELCOME15"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Len(t, decodeBody[ErrorResponse](t, rec).Fields, 6)

	req := checkout.Request{
		Coupon: "WELCOME15",
		Address: ledger.ShippingAddress{
			FullName: "Victor Laurent", Email: "victor@maison.example", Address: "1 Place Vendome",
			City: "Paris", PostalCode: "75001", Phone: "0100000000",
		},
	}
	rec = c.do(http.MethodPost, "/checkout/orders", req, constants.HeaderXIdempotencyKey, "attempt-1")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decodeBody[ledger.Order](t, rec)
	assert.Equal(t, int64(2890), order.Total)
	assert.Equal(t, int64(56), order.CoinsEarned)

	replay := c.do(http.MethodPost, "/checkout/orders", req, constants.HeaderXIdempotencyKey, "attempt-1")
	assert.Equal(t, http.StatusOK, replay.Code)
	assert.Equal(t, order.ID, decodeBody[ledger.Order](t, replay).ID)

	orders := decodeBody[[]ledger.Order](t, c.do(http.MethodGet, "/orders", nil))
	assert.Len(t, orders, 1)

	last := c.do(http.MethodGet, "/orders/last", nil)
	require.Equal(t, http.StatusOK, last.Code)
	assert.Equal(t, order.OrderNumber, decodeBody[ledger.Order](t, last).OrderNumber)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/orders/last", nil).Code)

	found := c.do(http.MethodGet, "/orders/"+order.OrderNumber, nil)
	assert.Equal(t, http.StatusOK, found.Code)

	loyalty := decodeBody[LoyaltyResponse](t, c.do(http.MethodGet, "/loyalty", nil))
	assert.Equal(t, int64(56), loyalty.Balance)
	assert.Equal(t, int64(2), loyalty.EarnMultiplier)

	cart := decodeBody[CartResponse](t, c.do(http.MethodGet, "/cart", nil))
	assert.Empty(t, cart.Lines)
}

func TestPlaceOrderAnonymous(t *testing.T) {
	c := newClient(t)
	rec := c.do(http.MethodPost, "/checkout/orders", checkout.Request{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDismissNotification(t *testing.T) {
	c := newClient(t)
	c.login("od", "password")

	toasts := decodeBody[[]notify.Toast](t, c.do(http.MethodGet, "/notifications", nil))
	require.Len(t, toasts, 1)

	path := "/notifications/" + jsonNumber(toasts[0].ID)
	assert.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodDelete, path, nil).Code)

	toasts = decodeBody[[]notify.Toast](t, c.do(http.MethodGet, "/notifications", nil))
	assert.Empty(t, toasts)
}

func TestBrowserCookieIssued(t *testing.T) {
	c := newClient(t)
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	id := rec.Header().Get(constants.HeaderXBrowserId)
	assert.NotEmpty(t, id)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, constants.CookieBrowserID, cookies[0].Name)
	assert.Equal(t, id, cookies[0].Value)
}

func jsonNumber(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestIdempotencyKeyDoesNotCrossUsers(t *testing.T) {
	c := newClient(t)
	req := checkout.Request{Address: ledger.ShippingAddress{
		FullName: "Ada", Email: "ada@maison.example", Address: "2 Rue de la Paix",
		City: "Paris", PostalCode: "75002", Phone: "0100000001",
	}}

	c.login("od", "password")
	c.do(http.MethodPost, "/cart/items", AddCartItemRequest{ProductID: 2})
	rec := c.do(http.MethodPost, "/checkout/orders", req, constants.HeaderXIdempotencyKey, "k1")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	odOrder := decodeBody[ledger.Order](t, rec)

	require.Equal(t, http.StatusNoContent, c.do(http.MethodPost, "/auth/logout", nil).Code)
	c.login("vip", "password")
	c.do(http.MethodPost, "/cart/items", AddCartItemRequest{ProductID: 3})

	rec = c.do(http.MethodPost, "/checkout/orders", req, constants.HeaderXIdempotencyKey, "k1")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	vipOrder := decodeBody[ledger.Order](t, rec)
	assert.NotEqual(t, odOrder.OrderNumber, vipOrder.OrderNumber)

	orders := decodeBody[[]ledger.Order](t, c.do(http.MethodGet, "/orders", nil))
	require.Len(t, orders, 1)
	assert.Equal(t, vipOrder.ID, orders[0].ID)
}

func TestListCategories(t *testing.T) {
	c := newClient(t)

	rec := c.do(http.MethodGet, "/products/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	categories := decodeBody[[]string](t, rec)
	assert.Contains(t, categories, "Rings")

	seen := map[string]bool{}
	for _, name := range categories {
		assert.False(t, seen[name], "duplicate category %q", name)
		seen[name] = true
	}
}
