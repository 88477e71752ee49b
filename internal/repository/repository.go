package repository

import (
	"context"
	"errors"

	"github.com/GeoAziz/cyberfeast/internal/domain"
)

var (
	ErrNotFound         = errors.New("document not found")
	ErrDuplicateSession = errors.New("an order already exists for this checkout session")
)

// OrderRepository stores orders. Insert assigns the id and the server
// creation timestamp.
//
// SetLoyaltyCredited flips the order's loyalty flag only when it currently
// holds the opposite value, and reports whether it did.
type OrderRepository interface {
	Insert(ctx context.Context, order *domain.Order) error
	SetLoyaltyCredited(ctx context.Context, id string, credited bool) (bool, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindBySession(ctx context.Context, sessionID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string, limit int64) ([]domain.Order, error)
}

type UserRepository interface {
	Get(ctx context.Context, uid string) (*domain.User, error)
	EnsureUser(ctx context.Context, user domain.User) (*domain.User, error)
	IncrementLoyalty(ctx context.Context, uid string, points int64) error
	AddFavorite(ctx context.Context, uid string, kind domain.FavoriteKind, itemID string) error
	RemoveFavorite(ctx context.Context, uid string, kind domain.FavoriteKind, itemID string) error
	UpdateProfile(ctx context.Context, uid, displayName string, addresses []domain.Address) error
	UpdateAvatar(ctx context.Context, uid, photoURL string) error
}

type RestaurantRepository interface {
	List(ctx context.Context) ([]domain.Restaurant, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Restaurant, error)
	GetByID(ctx context.Context, id string) (*domain.Restaurant, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Restaurant, error)
	GetByName(ctx context.Context, name string) (*domain.Restaurant, error)
	Update(ctx context.Context, r domain.Restaurant) error
	ListMeals(ctx context.Context, restaurantID string) ([]domain.Meal, error)
	AddMeal(ctx context.Context, meal *domain.Meal) error
	UpdateMeal(ctx context.Context, meal domain.Meal) error
	DeleteMeal(ctx context.Context, restaurantID, mealID string) error
}
