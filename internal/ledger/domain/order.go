package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	Items           []OrderItem     `json:"items"`
	Subtotal        int64           `json:"subtotal"`
	Discount        int64           `json:"discount"`
	CouponCode      string          `json:"couponCode,omitempty"`
	CoinDiscount    int64           `json:"coinDiscount"`
	Shipping        int64           `json:"shipping"`
	Total           int64           `json:"total"`
	Status          OrderStatus     `json:"status"`
	Date            time.Time       `json:"date"`
	CoinsEarned     int64           `json:"coinsEarned"`
	CoinsRedeemed   int64           `json:"coinsRedeemed"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
}

type OrderItem struct {
	ProductID int    `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image,omitempty"`
}

func (i OrderItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

type ShippingAddress struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone"`
}

type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// Draft is an order as priced by checkout, before the ledger assigns
// identifiers and loyalty figures.
type Draft struct {
	Items           []OrderItem
	Subtotal        int64
	Discount        int64
	CouponCode      string
	CoinDiscount    int64
	Shipping        int64
	Total           int64
	ShippingAddress ShippingAddress
}

// CoinsEarned is one coin per full 100 units of the final total, times the
// tier multiplier.
func CoinsEarned(total, multiplier int64) int64 {
	if total <= 0 {
		return 0
	}
	return (total / 100) * multiplier
}

// NewOrderNumber returns a number like MSN-261017-3F9A1C. The suffix comes
// from a random uuid, so two placements on the same day practically never
// collide.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("MSN-%s-%s", now.Format("060102"), strings.ToUpper(suffix))
}
