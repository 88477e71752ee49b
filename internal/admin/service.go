// Package admin implements the restaurant owner panel. Every mutation is
// gated by CheckOwnership.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/GeoAziz/cyberfeast/internal/account"
	"github.com/GeoAziz/cyberfeast/internal/domain"
	"github.com/GeoAziz/cyberfeast/internal/logging"
	"github.com/GeoAziz/cyberfeast/internal/repository"
	"github.com/shopspring/decimal"
)

const minNameLen = 3

var (
	ErrNotAdmin     = errors.New("administrator access required")
	ErrNotOwner     = errors.New("restaurant is owned by another account")
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// CacheInvalidator drops cached catalogue reads after a write.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, r domain.Restaurant)
}

type RestaurantUpdate struct {
	Name      string
	Cuisine   string
	ImageURL  string
	ImageHint string
}

type MealInput struct {
	Name      string
	Price     decimal.Decimal
	ImageURL  string
	ImageHint string
}

type Service struct {
	users       repository.UserRepository
	restaurants repository.RestaurantRepository
	cache       CacheInvalidator
}

func NewService(users repository.UserRepository, restaurants repository.RestaurantRepository, cache CacheInvalidator) *Service {
	return &Service{
		users:       users,
		restaurants: restaurants,
		cache:       cache,
	}
}

// RequireAdmin fails unless the account document carries the admin flag.
func (s *Service) RequireAdmin(ctx context.Context, uid string) error {
	u, err := s.users.Get(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotAdmin
	}
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}
	if !u.IsAdmin {
		return ErrNotAdmin
	}
	return nil
}

// CheckOwnership is the authorization policy for restaurant mutations.
func (s *Service) CheckOwnership(ctx context.Context, actorID, restaurantID string) error {
	_, err := s.owned(ctx, actorID, restaurantID)
	return err
}

func (s *Service) owned(ctx context.Context, actorID, restaurantID string) (*domain.Restaurant, error) {
	r, err := s.restaurants.GetByID(ctx, restaurantID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load restaurant: %w", err)
	}
	if actorID == "" || r.OwnerID != actorID {
		logging.FromContext(ctx).Warn().
			Str("actor_id", actorID).
			Str("restaurant_id", restaurantID).
			Msg("ownership check failed")
		return nil, ErrNotOwner
	}
	return r, nil
}

func (s *Service) ListOwned(ctx context.Context, actorID string) ([]domain.Restaurant, error) {
	rs, err := s.restaurants.ListByOwner(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("list owned restaurants: %w", err)
	}
	return rs, nil
}

// Restaurant returns an owned restaurant with its menu.
func (s *Service) Restaurant(ctx context.Context, actorID, restaurantID string) (*domain.Restaurant, []domain.Meal, error) {
	r, err := s.owned(ctx, actorID, restaurantID)
	if err != nil {
		return nil, nil, err
	}
	meals, err := s.restaurants.ListMeals(ctx, restaurantID)
	if err != nil {
		return nil, nil, fmt.Errorf("list meals: %w", err)
	}
	return r, meals, nil
}

func (s *Service) UpdateRestaurant(ctx context.Context, actorID, restaurantID string, in RestaurantUpdate) (*domain.Restaurant, error) {
	r, err := s.owned(ctx, actorID, restaurantID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if utf8.RuneCountInString(name) < minNameLen {
		return nil, fmt.Errorf("%w: restaurant name must be at least %d characters", ErrInvalidInput, minNameLen)
	}
	if in.ImageURL != "" && !account.IsWebURL(in.ImageURL) {
		return nil, fmt.Errorf("%w: image url must be an absolute http(s) url", ErrInvalidInput)
	}

	previous := *r
	r.Name = name
	r.Cuisine = strings.TrimSpace(in.Cuisine)
	if in.ImageURL != "" {
		r.ImageURL = in.ImageURL
	}
	r.ImageHint = in.ImageHint

	if err := s.restaurants.Update(ctx, *r); err != nil {
		return nil, mapErr(err)
	}
	s.invalidate(ctx, previous)
	return r, nil
}

func (s *Service) AddMeal(ctx context.Context, actorID, restaurantID string, in MealInput) (*domain.Meal, error) {
	r, err := s.owned(ctx, actorID, restaurantID)
	if err != nil {
		return nil, err
	}
	if err := ValidateMeal(in); err != nil {
		return nil, err
	}

	meal := &domain.Meal{
		RestaurantID:   r.ID,
		RestaurantName: r.Name,
		Name:           strings.TrimSpace(in.Name),
		Price:          in.Price,
		ImageURL:       in.ImageURL,
		ImageHint:      in.ImageHint,
	}
	if err := s.restaurants.AddMeal(ctx, meal); err != nil {
		return nil, fmt.Errorf("add meal: %w", err)
	}
	s.invalidate(ctx, *r)
	return meal, nil
}

func (s *Service) UpdateMeal(ctx context.Context, actorID, restaurantID, mealID string, in MealInput) (*domain.Meal, error) {
	r, err := s.owned(ctx, actorID, restaurantID)
	if err != nil {
		return nil, err
	}
	if err := ValidateMeal(in); err != nil {
		return nil, err
	}

	meal := domain.Meal{
		ID:             mealID,
		RestaurantID:   r.ID,
		RestaurantName: r.Name,
		Name:           strings.TrimSpace(in.Name),
		Price:          in.Price,
		ImageURL:       in.ImageURL,
		ImageHint:      in.ImageHint,
	}
	if err := s.restaurants.UpdateMeal(ctx, meal); err != nil {
		return nil, mapErr(err)
	}
	s.invalidate(ctx, *r)
	return &meal, nil
}

func (s *Service) DeleteMeal(ctx context.Context, actorID, restaurantID, mealID string) error {
	r, err := s.owned(ctx, actorID, restaurantID)
	if err != nil {
		return err
	}
	if err := s.restaurants.DeleteMeal(ctx, restaurantID, mealID); err != nil {
		return mapErr(err)
	}
	s.invalidate(ctx, *r)
	return nil
}

// ValidateMeal: name of at least 3 characters, positive price, absolute
// http(s) image URL.
func ValidateMeal(in MealInput) error {
	if utf8.RuneCountInString(strings.TrimSpace(in.Name)) < minNameLen {
		return fmt.Errorf("%w: meal name must be at least %d characters", ErrInvalidInput, minNameLen)
	}
	if !in.Price.IsPositive() {
		return fmt.Errorf("%w: price must be a positive number", ErrInvalidInput)
	}
	if !account.IsWebURL(in.ImageURL) {
		return fmt.Errorf("%w: image url must be an absolute http(s) url", ErrInvalidInput)
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, r domain.Restaurant) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, r)
	}
}

func mapErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
