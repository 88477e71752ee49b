package http

import (
	"context"
	"net/http"

	"github.com/GeoAziz/cyberfeast/internal/domain"
)

type AccountService interface {
	Profile(ctx context.Context, uid string) (*domain.User, error)
	ToggleFavorite(ctx context.Context, uid string, kind domain.FavoriteKind, itemID string, isFavorited bool) error
	UpdateProfile(ctx context.Context, uid, displayName string, addresses []domain.Address) ([]domain.Address, error)
	UpdateAvatar(ctx context.Context, uid, photoURL string) error
}

type AccountHandler struct {
	accounts AccountService
}

func NewAccountHandler(accounts AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type ToggleFavoriteRequestDTO struct {
	ItemID      string `json:"item_id"`
	ItemType    string `json:"item_type"`
	IsFavorited bool   `json:"is_favorited"`
}

type ToggleFavoriteResponseDTO struct {
	IsFavorited bool `json:"is_favorited"`
}

type UpdateProfileRequestDTO struct {
	DisplayName string       `json:"display_name"`
	Addresses   []AddressDTO `json:"addresses"`
}

type UpdateProfileResponseDTO struct {
	Addresses []AddressDTO `json:"addresses"`
}

type UpdateAvatarRequestDTO struct {
	PhotoURL string `json:"photo_url"`
}

// GET /api/v1/me
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := requireUser(w, r)
	if !ok {
		return
	}
	u, err := h.accounts.Profile(r.Context(), id.UserID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, convertProfile(*u))
}

// POST /api/v1/favorites
func (h *AccountHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req ToggleFavoriteRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.accounts.ToggleFavorite(r.Context(), id.UserID, domain.FavoriteKind(req.ItemType), req.ItemID, req.IsFavorited)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ToggleFavoriteResponseDTO{IsFavorited: !req.IsFavorited})
}

// PUT /api/v1/me
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req UpdateProfileRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	addresses := make([]domain.Address, 0, len(req.Addresses))
	for _, a := range req.Addresses {
		addresses = append(addresses, domain.Address{ID: a.ID, Name: a.Name, Details: a.Details})
	}
	stored, err := h.accounts.UpdateProfile(r.Context(), id.UserID, req.DisplayName, addresses)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, UpdateProfileResponseDTO{Addresses: convertAddresses(stored)})
}

// PUT /api/v1/me/avatar
func (h *AccountHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	id, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req UpdateAvatarRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.accounts.UpdateAvatar(r.Context(), id.UserID, req.PhotoURL); err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, StatusResponse{Status: "success"})
}
