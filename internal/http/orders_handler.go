package http

import (
	"context"
	"net/http"

	"github.com/GeoAziz/cyberfeast/internal/domain"
	"github.com/go-chi/chi/v5"
)

type OrderService interface {
	ListRecent(ctx context.Context, userID string) ([]domain.Order, error)
	Get(ctx context.Context, userID, orderID string) (*domain.Order, error)
	PlacePending(ctx context.Context, userID string, items []domain.CartItem) (*domain.Order, error)
}

type OrdersHandler struct {
	orders OrderService
}

func NewOrdersHandler(orders OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// GET /api/v1/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := requireUser(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.ListRecent(r.Context(), id.UserID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	dtos := make([]OrderResponseDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, convertOrder(o))
	}
	respondJSON(w, http.StatusOK, dtos)
}

// GET /api/v1/orders/{order_id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := requireUser(w, r)
	if !ok {
		return
	}

	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, http.StatusBadRequest, "missing_order_id", "order_id is required")
		return
	}

	order, err := h.orders.Get(r.Context(), id.UserID, orderID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, convertOrder(*order))
}

// POST /api/v1/orders places a pending order without payment.
func (h *OrdersHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req ItemsRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.orders.PlacePending(r.Context(), id.UserID, toCartItems(req.Items))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, convertOrder(*order))
}
