// Package http exposes the storefront over a JSON HTTP API.
package http

import (
	"net/http"
	"time"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/idempotency"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Deps struct {
	Cart     CartService
	Checkout CheckoutService
	Orders   OrderService
	Catalog  CatalogService

	Auth        *Authenticator
	RateLimiter *RateLimiter
	// Idempotency is optional; without it Idempotency-Key headers are ignored.
	Idempotency *idempotency.Store
	Payment     PaymentConfig

	RequestTimeout     time.Duration
	PaymentTimeout     time.Duration
	MaxRequestBodySize int64
}

func NewRouter(d Deps) http.Handler {
	cartHandler := NewCartHandler(d.Cart, d.RequestTimeout)
	checkoutHandler := NewCheckoutHandler(d.Checkout, d.RequestTimeout, d.PaymentTimeout)
	ordersHandler := NewOrdersHandler(d.Orders, d.RequestTimeout)
	productHandler := NewProductHandler(d.Catalog, d.RequestTimeout)

	idempotent := func(next http.Handler) http.Handler { return next }
	if d.Idempotency != nil {
		idempotent = idempotency.Middleware(d.Idempotency, userScope)
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", idempotency.HeaderKey, middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, idempotency.HeaderReplayed},
		MaxAge:         300,
	}))
	if d.RateLimiter != nil {
		r.Use(d.RateLimiter.Middleware)
	}
	if d.MaxRequestBodySize > 0 {
		r.Use(MaxBodySize(d.MaxRequestBodySize))
	}

	health := func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
	r.Get("/health", health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", health)
		r.Get("/config/payment", paymentConfigHandler(d.Payment))
		r.Get("/products", productHandler.ListProducts)
		r.Get("/products/{id}", productHandler.GetProduct)
		r.Get("/categories", productHandler.ListCategories)

		r.Group(func(r chi.Router) {
			r.Use(d.Auth.Middleware)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{productId}", cartHandler.UpdateQuantity)
				r.Delete("/items/{productId}", cartHandler.RemoveItem)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", checkoutHandler.GetCheckout)
				r.Post("/proceed", checkoutHandler.Proceed)
				r.Put("/shipping", checkoutHandler.SaveShipping)
				r.With(idempotent).Post("/place-order", checkoutHandler.PlaceOrder)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/mine", ordersHandler.ListMine)
				r.Get("/{id}", ordersHandler.GetOrder)
				r.With(idempotent).Post("/{id}/pay", checkoutHandler.Pay)

				r.Group(func(r chi.Router) {
					r.Use(RequireAdmin)
					r.Get("/", ordersHandler.ListOrders)
					r.Put("/{id}/deliver", checkoutHandler.Deliver)
					r.Delete("/{id}", ordersHandler.DeleteOrder)
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)
				r.Post("/products", productHandler.CreateProduct)
				r.Post("/categories", productHandler.CreateCategory)
			})
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
