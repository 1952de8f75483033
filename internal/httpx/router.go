package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(AttachRequestMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(BrowserSession)

		r.Get("/products", h.ListProducts)
		r.Get("/products/categories", h.ListCategories)
		r.Get("/products/{id}", h.GetProduct)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddCartItem)
			r.Put("/items/{id}", h.SetCartQuantity)
			r.Delete("/items/{id}", h.RemoveCartItem)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", h.GetWishlist)
			r.Post("/{id}/toggle", h.ToggleWishlist)
			r.Post("/{id}/move-to-cart", h.MoveToCart)
			r.Delete("/{id}", h.RemoveWishlistItem)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
		})

		r.Post("/checkout/quote", h.Quote)
		r.Post("/checkout/orders", h.PlaceOrder)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.ListOrders)
			r.Get("/last", h.LastOrder)
			r.Get("/{number}", h.GetOrder)
		})
		r.Get("/loyalty", h.Loyalty)

		r.Get("/notifications", h.ListNotifications)
		r.Delete("/notifications/{id}", h.DismissNotification)
	})
	return r
}
