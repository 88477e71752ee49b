package http

import (
	"net/http"
	"time"

	"github.com/GeoAziz/cyberfeast/internal/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterConfig struct {
	Tokens         *auth.Tokens
	Logger         zerolog.Logger
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

type Handlers struct {
	Auth      *AuthHandler
	Checkout  *CheckoutHandler
	Orders    *OrdersHandler
	Webhook   *WebhookHandler
	Catalog   *CatalogHandler
	Account   *AccountHandler
	Admin     *AdminHandler
	Concierge *ConciergeHandler
}

// NewRouter mounts every route. The returned handler is traced with otelhttp.
func NewRouter(cfg RouterConfig, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(auth.Middleware(cfg.Tokens))
	r.Use(LoggerMiddleware(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	// The webhook reads its own raw body with a tighter cap.
	r.Post("/api/stripe/webhook", h.Webhook.Handle)

	r.Route("/api/auth/session", func(r chi.Router) {
		r.Post("/", h.Auth.CreateSession)
		r.Delete("/", h.Auth.DeleteSession)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(MaxBodyMiddleware(cfg.MaxBodyBytes))

		r.Post("/checkout", h.Checkout.InitiateCheckout)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Orders.ListOrders)
			r.Post("/", h.Orders.PlaceOrder)
			r.Get("/{order_id}", h.Orders.GetOrder)
		})

		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", h.Catalog.ListRestaurants)
			r.Get("/by-slug/{slug}", h.Catalog.GetRestaurantBySlug)
			r.Get("/{id}", h.Catalog.GetRestaurant)
			r.Get("/{id}/meals", h.Catalog.ListMeals)
		})

		r.Get("/me", h.Account.GetProfile)
		r.Put("/me", h.Account.UpdateProfile)
		r.Put("/me/avatar", h.Account.UpdateAvatar)
		r.Post("/favorites", h.Account.ToggleFavorite)

		r.Post("/concierge", h.Concierge.Ask)
		r.Post("/search/suggestions", h.Concierge.Suggestions)
		r.Post("/recommendations", h.Concierge.Recommend)

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdminMiddleware(h.Admin.admin))
			r.Get("/restaurants", h.Admin.ListOwned)
			r.Get("/restaurants/{id}", h.Admin.GetRestaurant)
			r.Put("/restaurants/{id}", h.Admin.UpdateRestaurant)
			r.Post("/restaurants/{id}/meals", h.Admin.AddMeal)
			r.Put("/restaurants/{id}/meals/{meal_id}", h.Admin.UpdateMeal)
			r.Delete("/restaurants/{id}/meals/{meal_id}", h.Admin.DeleteMeal)
		})
	})

	return otelhttp.NewHandler(r, "cyberfeast")
}
