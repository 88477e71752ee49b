package repository

import (
	"fmt"
	"time"

	"github.com/GeoAziz/cyberfeast/internal/domain"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Money is stored as Decimal128 so totals survive round trips exactly.

type itemDocument struct {
	ID       string               `bson:"id"`
	Name     string               `bson:"name"`
	Price    primitive.Decimal128 `bson:"price"`
	Quantity int                  `bson:"quantity"`
	ImageURL string               `bson:"image_url"`
}

type orderDocument struct {
	ID              primitive.ObjectID   `bson:"_id"`
	UserID          string               `bson:"user_id"`
	SessionID       string               `bson:"session_id,omitempty"`
	Items           []itemDocument       `bson:"items"`
	Total           primitive.Decimal128 `bson:"total"`
	Status          string               `bson:"status"`
	LoyaltyCredited bool                 `bson:"loyalty_credited"`
	CreatedAt       time.Time            `bson:"created_at"`
}

type addressDocument struct {
	ID      string `bson:"id"`
	Name    string `bson:"name"`
	Details string `bson:"details"`
}

type userDocument struct {
	ID                  string            `bson:"_id"`
	DisplayName         string            `bson:"display_name"`
	Email               string            `bson:"email"`
	PhotoURL            string            `bson:"photo_url,omitempty"`
	Addresses           []addressDocument `bson:"addresses"`
	FavoriteRestaurants []string          `bson:"favorite_restaurants"`
	FavoriteMeals       []string          `bson:"favorite_meals"`
	LoyaltyPoints       int64             `bson:"loyalty_points"`
	IsAdmin             bool              `bson:"is_admin"`
	CreatedAt           time.Time         `bson:"created_at"`
}

type restaurantDocument struct {
	ID        string  `bson:"_id"`
	Name      string  `bson:"name"`
	Slug      string  `bson:"slug"`
	Cuisine   string  `bson:"cuisine"`
	Rating    float64 `bson:"rating"`
	ImageURL  string  `bson:"image_url"`
	ImageHint string  `bson:"image_hint,omitempty"`
	OwnerID   string  `bson:"owner_id,omitempty"`
}

type mealDocument struct {
	ID             string               `bson:"_id"`
	RestaurantID   string               `bson:"restaurant_id"`
	RestaurantName string               `bson:"restaurant_name"`
	Name           string               `bson:"name"`
	Price          primitive.Decimal128 `bson:"price"`
	ImageURL       string               `bson:"image_url"`
	ImageHint      string               `bson:"image_hint,omitempty"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode decimal %s: %w", d.String(), err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("decode decimal %s: %w", v.String(), err)
	}
	return d, nil
}

func toItemDocuments(items []domain.CartItem) ([]itemDocument, error) {
	docs := make([]itemDocument, 0, len(items))
	for _, it := range items {
		price, err := toDecimal128(it.Price)
		if err != nil {
			return nil, err
		}
		docs = append(docs, itemDocument{
			ID:       it.ID,
			Name:     it.Name,
			Price:    price,
			Quantity: it.Quantity,
			ImageURL: it.ImageURL,
		})
	}
	return docs, nil
}

func (d orderDocument) toDomain() (domain.Order, error) {
	items := make([]domain.CartItem, 0, len(d.Items))
	for _, it := range d.Items {
		price, err := fromDecimal128(it.Price)
		if err != nil {
			return domain.Order{}, err
		}
		items = append(items, domain.CartItem{
			ID:       it.ID,
			Name:     it.Name,
			Price:    price,
			Quantity: it.Quantity,
			ImageURL: it.ImageURL,
		})
	}
	total, err := fromDecimal128(d.Total)
	if err != nil {
		return domain.Order{}, err
	}
	return domain.Order{
		ID:              d.ID.Hex(),
		UserID:          d.UserID,
		SessionID:       d.SessionID,
		Items:           items,
		Total:           total,
		Status:          domain.OrderStatus(d.Status),
		LoyaltyCredited: d.LoyaltyCredited,
		CreatedAt:       d.CreatedAt,
	}, nil
}

func (d userDocument) toDomain() domain.User {
	addresses := make([]domain.Address, 0, len(d.Addresses))
	for _, a := range d.Addresses {
		addresses = append(addresses, domain.Address{ID: a.ID, Name: a.Name, Details: a.Details})
	}
	return domain.User{
		ID:                  d.ID,
		DisplayName:         d.DisplayName,
		Email:               d.Email,
		PhotoURL:            d.PhotoURL,
		Addresses:           addresses,
		FavoriteRestaurants: nonNil(d.FavoriteRestaurants),
		FavoriteMeals:       nonNil(d.FavoriteMeals),
		LoyaltyPoints:       d.LoyaltyPoints,
		IsAdmin:             d.IsAdmin,
		CreatedAt:           d.CreatedAt,
	}
}

func toAddressDocuments(addresses []domain.Address) []addressDocument {
	docs := make([]addressDocument, 0, len(addresses))
	for _, a := range addresses {
		docs = append(docs, addressDocument{ID: a.ID, Name: a.Name, Details: a.Details})
	}
	return docs
}

func (d restaurantDocument) toDomain() domain.Restaurant {
	return domain.Restaurant{
		ID:        d.ID,
		Name:      d.Name,
		Slug:      d.Slug,
		Cuisine:   d.Cuisine,
		Rating:    d.Rating,
		ImageURL:  d.ImageURL,
		ImageHint: d.ImageHint,
		OwnerID:   d.OwnerID,
	}
}

func (d mealDocument) toDomain() (domain.Meal, error) {
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return domain.Meal{}, err
	}
	return domain.Meal{
		ID:             d.ID,
		RestaurantID:   d.RestaurantID,
		RestaurantName: d.RestaurantName,
		Name:           d.Name,
		Price:          price,
		ImageURL:       d.ImageURL,
		ImageHint:      d.ImageHint,
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
