package domain

import "time"

type Address struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Details string `json:"details"`
}

// User is the account document. Orders reference it through UserID.
type User struct {
	ID                  string    `json:"uid"`
	DisplayName         string    `json:"displayName"`
	Email               string    `json:"email"`
	PhotoURL            string    `json:"photoURL,omitempty"`
	Addresses           []Address `json:"addresses"`
	FavoriteRestaurants []string  `json:"favoriteRestaurants"`
	FavoriteMeals       []string  `json:"favoriteMeals"`
	LoyaltyPoints       int64     `json:"loyaltyPoints"`
	IsAdmin             bool      `json:"isAdmin"`
	CreatedAt           time.Time `json:"createdAt"`
}

// FavoriteKind selects which favorites set an item belongs to.
type FavoriteKind string

const (
	FavoriteRestaurant FavoriteKind = "restaurant"
	FavoriteMeal       FavoriteKind = "meal"
)

func (k FavoriteKind) Valid() bool {
	return k == FavoriteRestaurant || k == FavoriteMeal
}
