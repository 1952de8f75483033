package httpx

import (
	authdomain "github.com/jcmexdev/maison-storefront/internal/auth/domain"
	cart "github.com/jcmexdev/maison-storefront/internal/cart/domain"
	"github.com/jcmexdev/maison-storefront/internal/checkout"
	wishlist "github.com/jcmexdev/maison-storefront/internal/wishlist/domain"
)

type AddCartItemRequest struct {
	ProductID int `json:"productId"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type QuoteRequest struct {
	Coupon   string `json:"coupon"`
	UseCoins bool   `json:"useCoins"`
}

type CartResponse struct {
	Lines  []cart.Line `json:"lines"`
	Totals cart.Totals `json:"totals"`
}

type WishlistResponse struct {
	Items []wishlist.Item `json:"items"`
}

type ToggleWishlistResponse struct {
	Added bool            `json:"added"`
	Items []wishlist.Item `json:"items"`
}

type MeResponse struct {
	Authenticated  bool                 `json:"authenticated"`
	Identity       *authdomain.Identity `json:"identity,omitempty"`
	EarnMultiplier int64                `json:"earnMultiplier"`
}

type LoyaltyResponse struct {
	Balance        int64           `json:"balance"`
	Tier           authdomain.Tier `json:"tier,omitempty"`
	EarnMultiplier int64           `json:"earnMultiplier"`
}

type ErrorResponse struct {
	Error    string                      `json:"error"`
	Message  string                      `json:"message,omitempty"`
	Redirect string                      `json:"redirect,omitempty"`
	Fields   []*checkout.ValidationError `json:"fields,omitempty"`
}
