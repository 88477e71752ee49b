package http

import (
	"context"
	"net/http"

	"github.com/GeoAziz/cyberfeast/internal/checkout"
	"github.com/GeoAziz/cyberfeast/internal/payment"
)

type CheckoutInitiator interface {
	Initiate(ctx context.Context, req checkout.Request) (*payment.Session, error)
}

type CheckoutHandler struct {
	initiator CheckoutInitiator
}

func NewCheckoutHandler(initiator CheckoutInitiator) *CheckoutHandler {
	return &CheckoutHandler{initiator: initiator}
}

type CheckoutResponseDTO struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// POST /api/v1/checkout
func (h *CheckoutHandler) InitiateCheckout(w http.ResponseWriter, r *http.Request) {
	id, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req ItemsRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.initiator.Initiate(r.Context(), checkout.Request{
		UserID: id.UserID,
		Items:  toCartItems(req.Items),
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, CheckoutResponseDTO{
		SessionID: session.ID,
		URL:       session.URL,
	})
}
