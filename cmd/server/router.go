package main

import (
	"net/http"

	"storefront-be/internal/cart"
	"storefront-be/internal/category"
	"storefront-be/internal/config"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/middleware"
	"storefront-be/internal/order"
	"storefront-be/internal/payment"
	"storefront-be/internal/product"
	"storefront-be/internal/transport"
	"storefront-be/internal/user"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type handlers struct {
	products   *product.Handler
	categories *category.Handler
	users      *user.Handler
	carts      *cart.Handler
	orders     *order.Handler
	payments   *payment.Handler
}

func setupRouter(cfg *config.Config, h handlers, tokens middleware.TokenParser, limiter *middleware.RateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Use(logger.RequestIDMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(middleware.LoggingMiddleware)
	r.Use(metrics.Middleware)
	r.Use(middleware.CORS(cfg.ClientURL))
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Authenticate(tokens))
	r.Use(limiter.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", transport.Handle(h.users.Register))
			r.Post("/login", transport.Handle(h.users.Login))
		})

		r.Route("/users", func(r chi.Router) {
			r.With(middleware.RequireAuth).Get("/profile", transport.Handle(h.users.Profile))
			r.With(middleware.RequireAuth).Patch("/profile", transport.Handle(h.users.UpdateProfile))
			r.With(middleware.RequireAdmin).Get("/", transport.Handle(h.users.List))
			r.With(middleware.RequireAdmin).Delete("/{id}", transport.Handle(h.users.Delete))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", transport.Handle(h.products.List))
			r.Get("/{id}", transport.Handle(h.products.Get))
			r.With(middleware.RequireAdmin).Post("/", transport.Handle(h.products.Create))
			r.With(middleware.RequireAdmin).Put("/{id}", transport.Handle(h.products.Update))
			r.With(middleware.RequireAdmin).Delete("/{id}", transport.Handle(h.products.Delete))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", transport.Handle(h.categories.List))
			r.Get("/{id}", transport.Handle(h.categories.Get))
			r.With(middleware.RequireAdmin).Post("/", transport.Handle(h.categories.Create))
			r.With(middleware.RequireAdmin).Patch("/{id}", transport.Handle(h.categories.Update))
			r.With(middleware.RequireAdmin).Delete("/{id}", transport.Handle(h.categories.Delete))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/", transport.Handle(h.carts.Get))
			r.Post("/", transport.Handle(h.carts.Add))
			r.Post("/merge", transport.Handle(h.carts.Merge))
			r.Patch("/update", transport.Handle(h.carts.Update))
			r.Delete("/remove", transport.Handle(h.carts.Remove))
			r.Delete("/clear", transport.Handle(h.carts.Clear))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/", transport.Handle(h.orders.Place))
			r.With(middleware.RequireAdmin).Get("/", transport.Handle(h.orders.List))
			r.Get("/myorders", transport.Handle(h.orders.MyOrders))
			r.With(middleware.RequireAdmin).Put("/deliver-bulk", transport.Handle(h.orders.DeliverBulk))
			r.With(middleware.RequireAdmin).Get("/dashboard-stats", transport.Handle(h.orders.DashboardStats))
			r.Post("/create-payment-intent", transport.Handle(h.payments.CreateIntent))
			r.Get("/{id}", transport.Handle(h.orders.Get))
			r.Delete("/{id}", transport.Handle(h.orders.Cancel))
			r.Put("/{id}/pay", transport.Handle(h.orders.Pay))
			r.With(middleware.RequireAdmin).Put("/{id}/deliver", transport.Handle(h.orders.Deliver))
		})
	})

	return otelhttp.NewHandler(r, "storefront-api")
}
