package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nikolayk812/surplus/internal/auth"
)

const requestTimeout = 5 * time.Second

func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, logRequests, middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", h.health)

	r.Get("/products", h.listAvailableProducts)
	r.Get("/products/{id}", h.getProduct)

	r.Group(func(r chi.Router) {
		r.Use(authenticate(h.tokens), requireRole(auth.RoleClient))

		r.Get("/cart", h.getCart)
		r.Post("/cart/lines", h.addCartLine)
		r.Delete("/cart/lines/{productID}", h.removeCartLine)
		r.Delete("/cart", h.clearCart)

		r.Post("/checkout", h.placeOrder)

		r.Get("/orders", h.listClientOrders)
		r.Get("/orders/{id}", h.getOrderState)
		r.Post("/orders/{id}/cancel", h.cancelOrder)
	})

	r.Route("/seller", func(r chi.Router) {
		r.Use(authenticate(h.tokens), requireRole(auth.RoleSeller))

		r.Get("/orders", h.listSellerOrders)
		r.Post("/orders/{id}/approve", h.approveOrder)
		r.Post("/orders/{id}/reject", h.rejectOrder)
		r.Post("/orders/{id}/complete", h.completeOrder)

		r.Get("/products", h.listSellerProducts)
		r.Post("/products", h.createProduct)
		r.Put("/products/{id}", h.updateProduct)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := runHealthChecks(r.Context(), h.healthChecks); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
