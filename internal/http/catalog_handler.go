package http

import (
	"context"
	"net/http"

	"github.com/GeoAziz/cyberfeast/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CatalogReader interface {
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error)
	GetRestaurantBySlug(ctx context.Context, slug string) (*domain.Restaurant, error)
	ListMeals(ctx context.Context, restaurantID string) ([]domain.Meal, error)
}

type CatalogHandler struct {
	catalog CatalogReader
}

func NewCatalogHandler(catalog CatalogReader) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type RestaurantsResponse struct {
	Restaurants []RestaurantDTO `json:"restaurants"`
}

type MealsResponse struct {
	Meals []MealDTO `json:"meals"`
}

// GET /api/v1/restaurants
func (h *CatalogHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	rs, err := h.catalog.ListRestaurants(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, RestaurantsResponse{Restaurants: convertRestaurants(rs)})
}

// GET /api/v1/restaurants/{id}
func (h *CatalogHandler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	rest, err := h.catalog.GetRestaurant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, convertRestaurant(*rest))
}

// GET /api/v1/restaurants/by-slug/{slug}
func (h *CatalogHandler) GetRestaurantBySlug(w http.ResponseWriter, r *http.Request) {
	rest, err := h.catalog.GetRestaurantBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, convertRestaurant(*rest))
}

// GET /api/v1/restaurants/{id}/meals
func (h *CatalogHandler) ListMeals(w http.ResponseWriter, r *http.Request) {
	meals, err := h.catalog.ListMeals(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, MealsResponse{Meals: convertMeals(meals)})
}
