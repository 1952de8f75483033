// Package checkout prices a cart, validates the shipping form and places
// the order.
package checkout

import (
	"errors"
	"strings"

	cart "github.com/jcmexdev/maison-storefront/internal/cart/domain"
)

var ErrInvalidCoupon = errors.New("checkout: invalid coupon code")

// coupons maps a normalized code to its percentage off the subtotal.
var coupons = map[string]int64{
	"MAISON10":  10,
	"LUXE20":    20,
	"WELCOME15": 15,
}

// NormalizeCoupon trims and upper-cases a code as typed by the shopper.
func NormalizeCoupon(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CouponPercent reports the discount for code. The empty code is valid and
// worth zero.
func CouponPercent(code string) (int64, error) {
	code = NormalizeCoupon(code)
	if code == "" {
		return 0, nil
	}
	pct, ok := coupons[code]
	if !ok {
		return 0, ErrInvalidCoupon
	}
	return pct, nil
}

// Summary is the priced checkout. Payable is what is owed before coins;
// Total is what is charged.
type Summary struct {
	Count           int    `json:"count"`
	Subtotal        int64  `json:"subtotal"`
	CouponCode      string `json:"couponCode,omitempty"`
	DiscountPercent int64  `json:"discountPercent"`
	Discount        int64  `json:"discount"`
	Shipping        int64  `json:"shipping"`
	Payable         int64  `json:"payable"`
	CoinDiscount    int64  `json:"coinDiscount"`
	Total           int64  `json:"total"`
}

// Quote prices totals. Coins cover at most min(balance, payable), so the
// total never drops below zero and redemption never exceeds the balance.
func Quote(totals cart.Totals, coupon string, useCoins bool, balance int64) (Summary, error) {
	pct, err := CouponPercent(coupon)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{
		Count:           totals.Count,
		Subtotal:        totals.Subtotal,
		DiscountPercent: pct,
		Discount:        totals.Subtotal * pct / 100,
		Shipping:        totals.Shipping,
	}
	if pct > 0 {
		s.CouponCode = NormalizeCoupon(coupon)
	}
	s.Payable = s.Subtotal - s.Discount + s.Shipping

	if useCoins && balance > 0 && s.Payable > 0 {
		s.CoinDiscount = min(balance, s.Payable)
	}
	s.Total = s.Payable - s.CoinDiscount
	return s, nil
}
