package http

import (
	"time"

	"github.com/GeoAziz/cyberfeast/internal/domain"
	"github.com/shopspring/decimal"
)

type CartItemDTO struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	ImageURL string          `json:"image_url,omitempty"`
}

type ItemsRequestDTO struct {
	Items []CartItemDTO `json:"items"`
}

type OrderResponseDTO struct {
	ID        string        `json:"id"`
	SessionID string        `json:"session_id,omitempty"`
	Total     string        `json:"total"`
	Status    string        `json:"status"`
	Items     []CartItemDTO `json:"items"`
	CreatedAt string        `json:"created_at"`
}

type RestaurantDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	Cuisine   string  `json:"cuisine"`
	Rating    float64 `json:"rating"`
	ImageURL  string  `json:"image_url"`
	ImageHint string  `json:"image_hint,omitempty"`
}

type MealDTO struct {
	ID             string `json:"id"`
	RestaurantID   string `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name"`
	Name           string `json:"name"`
	Price          string `json:"price"`
	ImageURL       string `json:"image_url"`
	ImageHint      string `json:"image_hint,omitempty"`
}

type AddressDTO struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Details string `json:"details"`
}

type ProfileDTO struct {
	UID                 string       `json:"uid"`
	DisplayName         string       `json:"display_name"`
	Email               string       `json:"email"`
	PhotoURL            string       `json:"photo_url,omitempty"`
	Addresses           []AddressDTO `json:"addresses"`
	FavoriteRestaurants []string     `json:"favorite_restaurants"`
	FavoriteMeals       []string     `json:"favorite_meals"`
	LoyaltyPoints       int64        `json:"loyalty_points"`
	IsAdmin             bool         `json:"is_admin"`
}

func toCartItems(dtos []CartItemDTO) []domain.CartItem {
	items := make([]domain.CartItem, 0, len(dtos))
	for _, d := range dtos {
		items = append(items, domain.CartItem{
			ID:       d.ID,
			Name:     d.Name,
			Price:    d.Price,
			Quantity: d.Quantity,
			ImageURL: d.ImageURL,
		})
	}
	return items
}

func convertOrder(o domain.Order) OrderResponseDTO {
	items := make([]CartItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, CartItemDTO{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			ImageURL: item.ImageURL,
		})
	}
	return OrderResponseDTO{
		ID:        o.ID,
		SessionID: o.SessionID,
		Total:     o.Total.StringFixed(2),
		Status:    o.Status.String(),
		Items:     items,
		CreatedAt: o.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func convertRestaurant(r domain.Restaurant) RestaurantDTO {
	return RestaurantDTO{
		ID:        r.ID,
		Name:      r.Name,
		Slug:      r.Slug,
		Cuisine:   r.Cuisine,
		Rating:    r.Rating,
		ImageURL:  r.ImageURL,
		ImageHint: r.ImageHint,
	}
}

func convertRestaurants(rs []domain.Restaurant) []RestaurantDTO {
	out := make([]RestaurantDTO, 0, len(rs))
	for _, r := range rs {
		out = append(out, convertRestaurant(r))
	}
	return out
}

func convertMeal(m domain.Meal) MealDTO {
	return MealDTO{
		ID:             m.ID,
		RestaurantID:   m.RestaurantID,
		RestaurantName: m.RestaurantName,
		Name:           m.Name,
		Price:          m.Price.StringFixed(2),
		ImageURL:       m.ImageURL,
		ImageHint:      m.ImageHint,
	}
}

func convertMeals(ms []domain.Meal) []MealDTO {
	out := make([]MealDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, convertMeal(m))
	}
	return out
}

func convertAddresses(as []domain.Address) []AddressDTO {
	out := make([]AddressDTO, 0, len(as))
	for _, a := range as {
		out = append(out, AddressDTO{ID: a.ID, Name: a.Name, Details: a.Details})
	}
	return out
}

func convertProfile(u domain.User) ProfileDTO {
	favR, favM := u.FavoriteRestaurants, u.FavoriteMeals
	if favR == nil {
		favR = []string{}
	}
	if favM == nil {
		favM = []string{}
	}
	return ProfileDTO{
		UID:                 u.ID,
		DisplayName:         u.DisplayName,
		Email:               u.Email,
		PhotoURL:            u.PhotoURL,
		Addresses:           convertAddresses(u.Addresses),
		FavoriteRestaurants: favR,
		FavoriteMeals:       favM,
		LoyaltyPoints:       u.LoyaltyPoints,
		IsAdmin:             u.IsAdmin,
	}
}
