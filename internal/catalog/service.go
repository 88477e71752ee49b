// Package catalog serves restaurant and menu reads through the Redis cache.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/GeoAziz/cyberfeast/internal/cache"
	"github.com/GeoAziz/cyberfeast/internal/domain"
	"github.com/GeoAziz/cyberfeast/internal/logging"
	"github.com/GeoAziz/cyberfeast/internal/metrics"
	"github.com/GeoAziz/cyberfeast/internal/repository"
	"golang.org/x/sync/singleflight"
)

const keyRestaurants = "restaurants"

func restaurantKey(id string) string { return "restaurant:" + id }
func slugKey(slug string) string     { return "slug:" + slug }
func mealsKey(id string) string      { return "meals:" + id }

type Service struct {
	repo  repository.RestaurantRepository
	cache cache.CatalogCache
	sfg   singleflight.Group
}

func NewService(repo repository.RestaurantRepository, cache cache.CatalogCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

// ListRestaurants returns every restaurant without owner ids.
func (s *Service) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	return readThrough(ctx, s, keyRestaurants, func(ctx context.Context) ([]domain.Restaurant, error) {
		rs, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]domain.Restaurant, 0, len(rs))
		for _, r := range rs {
			out = append(out, r.Public())
		}
		return out, nil
	})
}

func (s *Service) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	return readThrough(ctx, s, restaurantKey(id), func(ctx context.Context) (*domain.Restaurant, error) {
		r, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		pub := r.Public()
		return &pub, nil
	})
}

func (s *Service) GetRestaurantBySlug(ctx context.Context, slug string) (*domain.Restaurant, error) {
	return readThrough(ctx, s, slugKey(slug), func(ctx context.Context) (*domain.Restaurant, error) {
		r, err := s.repo.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		pub := r.Public()
		return &pub, nil
	})
}

// FindRestaurantByName matches case-insensitively and is not cached.
func (s *Service) FindRestaurantByName(ctx context.Context, name string) (*domain.Restaurant, error) {
	r, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	pub := r.Public()
	return &pub, nil
}

func (s *Service) ListMeals(ctx context.Context, restaurantID string) ([]domain.Meal, error) {
	return readThrough(ctx, s, mealsKey(restaurantID), func(ctx context.Context) ([]domain.Meal, error) {
		return s.repo.ListMeals(ctx, restaurantID)
	})
}

// Invalidate drops every cached entry derived from the restaurant.
func (s *Service) Invalidate(ctx context.Context, r domain.Restaurant) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()

	keys := []string{keyRestaurants, restaurantKey(r.ID), mealsKey(r.ID)}
	if r.Slug != "" {
		keys = append(keys, slugKey(r.Slug))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("restaurant_id", r.ID).Msg("cache invalidate error")
	}
}

// readThrough collapses concurrent misses for the same key into one load and
// treats cache failures as misses.
func readThrough[T any](ctx context.Context, s *Service, key string, load func(context.Context) (T, error)) (T, error) {
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		var cached T
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logging.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("cache get error")
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()

		loaded, err := load(ctx)
		if err != nil {
			return nil, err
		}

		if errSet := s.cache.Set(ctx, key, loaded); errSet != nil {
			logging.FromContext(ctx).Warn().Err(errSet).Str("key", key).Msg("cache set error")
		}
		return loaded, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
