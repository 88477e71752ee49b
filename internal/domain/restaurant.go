package domain

import "github.com/shopspring/decimal"

type Restaurant struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	Cuisine   string  `json:"cuisine"`
	Rating    float64 `json:"rating"`
	ImageURL  string  `json:"imageUrl"`
	ImageHint string  `json:"imageHint,omitempty"`
	OwnerID   string  `json:"ownerId,omitempty"`
}

// Public returns a copy without the owner, which is never exposed to shoppers.
func (r Restaurant) Public() Restaurant {
	r.OwnerID = ""
	return r
}

type Meal struct {
	ID             string          `json:"id"`
	RestaurantID   string          `json:"restaurantId"`
	RestaurantName string          `json:"restaurantName"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	ImageURL       string          `json:"imageUrl"`
	ImageHint      string          `json:"imageHint,omitempty"`
}
