package http

import (
	"context"
	"net/http"

	"github.com/GeoAziz/cyberfeast/internal/admin"
	"github.com/GeoAziz/cyberfeast/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type AdminService interface {
	AdminChecker
	ListOwned(ctx context.Context, actorID string) ([]domain.Restaurant, error)
	Restaurant(ctx context.Context, actorID, restaurantID string) (*domain.Restaurant, []domain.Meal, error)
	UpdateRestaurant(ctx context.Context, actorID, restaurantID string, in admin.RestaurantUpdate) (*domain.Restaurant, error)
	AddMeal(ctx context.Context, actorID, restaurantID string, in admin.MealInput) (*domain.Meal, error)
	UpdateMeal(ctx context.Context, actorID, restaurantID, mealID string, in admin.MealInput) (*domain.Meal, error)
	DeleteMeal(ctx context.Context, actorID, restaurantID, mealID string) error
}

// AdminHandler serves restaurant owners. Routes sit behind
// RequireAdminMiddleware, so an identity is always present.
type AdminHandler struct {
	admin AdminService
}

func NewAdminHandler(svc AdminService) *AdminHandler {
	return &AdminHandler{admin: svc}
}

type RestaurantUpdateRequestDTO struct {
	Name      string `json:"name"`
	Cuisine   string `json:"cuisine"`
	ImageURL  string `json:"image_url"`
	ImageHint string `json:"image_hint"`
}

type MealRequestDTO struct {
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
	ImageHint string          `json:"image_hint"`
}

func (d MealRequestDTO) input() admin.MealInput {
	return admin.MealInput{
		Name:      d.Name,
		Price:     d.Price,
		ImageURL:  d.ImageURL,
		ImageHint: d.ImageHint,
	}
}

type AdminRestaurantResponse struct {
	Restaurant RestaurantDTO `json:"restaurant"`
	Meals      []MealDTO     `json:"meals"`
}

// GET /api/v1/admin/restaurants
func (h *AdminHandler) ListOwned(w http.ResponseWriter, r *http.Request) {
	id, ok := requireUser(w, r)
	if !ok {
		return
	}
	rs, err := h.admin.ListOwned(r.Context(), id.UserID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, RestaurantsResponse{Restaurants: convertRestaurants(rs)})
}

// GET /api/v1/admin/restaurants/{id}
func (h *AdminHandler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := requireUser(w, r)
	if !ok {
		return
	}
	rest, meals, err := h.admin.Restaurant(r.Context(), id.UserID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, AdminRestaurantResponse{
		Restaurant: convertRestaurant(*rest),
		Meals:      convertMeals(meals),
	})
}

// PUT /api/v1/admin/restaurants/{id}
func (h *AdminHandler) UpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req RestaurantUpdateRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	rest, err := h.admin.UpdateRestaurant(r.Context(), id.UserID, chi.URLParam(r, "id"), admin.RestaurantUpdate{
		Name:      req.Name,
		Cuisine:   req.Cuisine,
		ImageURL:  req.ImageURL,
		ImageHint: req.ImageHint,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, convertRestaurant(*rest))
}

// POST /api/v1/admin/restaurants/{id}/meals
func (h *AdminHandler) AddMeal(w http.ResponseWriter, r *http.Request) {
	id, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req MealRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	meal, err := h.admin.AddMeal(r.Context(), id.UserID, chi.URLParam(r, "id"), req.input())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, convertMeal(*meal))
}

// PUT /api/v1/admin/restaurants/{id}/meals/{meal_id}
func (h *AdminHandler) UpdateMeal(w http.ResponseWriter, r *http.Request) {
	id, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req MealRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	meal, err := h.admin.UpdateMeal(r.Context(), id.UserID, chi.URLParam(r, "id"), chi.URLParam(r, "meal_id"), req.input())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, convertMeal(*meal))
}

// DELETE /api/v1/admin/restaurants/{id}/meals/{meal_id}
func (h *AdminHandler) DeleteMeal(w http.ResponseWriter, r *http.Request) {
	id, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.admin.DeleteMeal(r.Context(), id.UserID, chi.URLParam(r, "id"), chi.URLParam(r, "meal_id")); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
