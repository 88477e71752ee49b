package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/GeoAziz/cyberfeast/internal/account"
	"github.com/GeoAziz/cyberfeast/internal/admin"
	"github.com/GeoAziz/cyberfeast/internal/auth"
	"github.com/GeoAziz/cyberfeast/internal/checkout"
	"github.com/GeoAziz/cyberfeast/internal/concierge"
	"github.com/GeoAziz/cyberfeast/internal/logging"
	"github.com/GeoAziz/cyberfeast/internal/orders"
	"github.com/GeoAziz/cyberfeast/internal/repository"
	"github.com/rs/zerolog/log"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
			return false
		}
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}

// requireUser writes 401 and returns false for anonymous requests.
func requireUser(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
	}
	return id, ok
}

// handleServiceError maps service sentinels to HTTP statuses. 5xx are logged.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := classify(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error().Err(err).Str("code", code).Msg("request failed")
	}
	respondError(w, status, code, message)
}

func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, checkout.ErrUnauthenticated), errors.Is(err, orders.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthorized", "missing user authentication"
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, orders.ErrNoItems):
		return http.StatusBadRequest, "empty_cart", "cart is empty"
	case errors.Is(err, checkout.ErrCartTooLarge):
		return http.StatusBadRequest, "cart_too_large", err.Error()
	case errors.Is(err, account.ErrInvalidInput), errors.Is(err, admin.ErrInvalidInput),
		errors.Is(err, concierge.ErrEmptyQuery):
		return http.StatusBadRequest, "invalid_request", err.Error()
	case errors.Is(err, admin.ErrNotAdmin):
		return http.StatusForbidden, "forbidden", "administrator access required"
	case errors.Is(err, admin.ErrNotOwner):
		return http.StatusForbidden, "not_owner", "you do not own this restaurant"
	case errors.Is(err, orders.ErrNotFound), errors.Is(err, account.ErrNotFound),
		errors.Is(err, admin.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found", "resource not found"
	case errors.Is(err, checkout.ErrSessionCreationFailed):
		return http.StatusBadGateway, "checkout_failed", "could not create checkout session"
	case errors.Is(err, concierge.ErrNotConfigured), errors.Is(err, concierge.ErrUnavailable):
		return http.StatusServiceUnavailable, "concierge_unavailable", "concierge is unavailable"
	case errors.Is(err, concierge.ErrBadModelOutput), errors.Is(err, concierge.ErrToolLoop):
		return http.StatusBadGateway, "concierge_failed", "concierge could not answer"
	case errors.Is(err, orders.ErrLoyaltyNotCredited):
		return http.StatusInternalServerError, "loyalty_not_credited", "order recorded but loyalty points were not credited"
	default:
		return http.StatusInternalServerError, "internal_error", "internal server error"
	}
}
