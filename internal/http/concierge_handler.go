package http

import (
	"context"
	"net/http"

	"github.com/GeoAziz/cyberfeast/internal/auth"
	"github.com/GeoAziz/cyberfeast/internal/concierge"
)

type Concierge interface {
	Ask(ctx context.Context, userID, query string) (string, error)
	Suggestions(ctx context.Context, text string) ([]string, error)
	Recommend(ctx context.Context, preferences string) (*concierge.Recommendation, error)
}

type ConciergeHandler struct {
	concierge Concierge
}

func NewConciergeHandler(c Concierge) *ConciergeHandler {
	return &ConciergeHandler{concierge: c}
}

type AskRequestDTO struct {
	Query string `json:"query"`
}

type AskResponseDTO struct {
	Response string `json:"response"`
}

type SuggestionsRequestDTO struct {
	SearchText string `json:"search_text"`
}

type SuggestionsResponseDTO struct {
	Suggestions []string `json:"suggestions"`
}

type RecommendRequestDTO struct {
	Preferences string `json:"preferences"`
}

type RecommendResponseDTO struct {
	MealName       string `json:"meal_name"`
	RestaurantName string `json:"restaurant_name"`
	Description    string `json:"description"`
}

// POST /api/v1/concierge works for anonymous callers too.
func (h *ConciergeHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := ""
	if id, ok := auth.IdentityFrom(r.Context()); ok {
		userID = id.UserID
	}

	answer, err := h.concierge.Ask(r.Context(), userID, req.Query)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, AskResponseDTO{Response: answer})
}

// POST /api/v1/search/suggestions
func (h *ConciergeHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	var req SuggestionsRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	suggestions, err := h.concierge.Suggestions(r.Context(), req.SearchText)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	respondJSON(w, http.StatusOK, SuggestionsResponseDTO{Suggestions: suggestions})
}

// POST /api/v1/recommendations
func (h *ConciergeHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	rec, err := h.concierge.Recommend(r.Context(), req.Preferences)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, RecommendResponseDTO{
		MealName:       rec.MealName,
		RestaurantName: rec.RestaurantName,
		Description:    rec.Description,
	})
}
