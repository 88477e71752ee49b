// Package account manages the signed-in user's profile and favorites.
package account

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/GeoAziz/cyberfeast/internal/auth"
	"github.com/GeoAziz/cyberfeast/internal/domain"
	"github.com/GeoAziz/cyberfeast/internal/repository"
	"github.com/google/uuid"
)

const minDisplayNameLen = 3

var (
	ErrNotFound     = errors.New("account not found")
	ErrInvalidInput = errors.New("invalid account input")
)

type Service struct {
	users repository.UserRepository
}

func NewService(users repository.UserRepository) *Service {
	return &Service{users: users}
}

// EnsureAccount creates the account document on first sign-in.
func (s *Service) EnsureAccount(ctx context.Context, id auth.Identity) (*domain.User, error) {
	u, err := s.users.EnsureUser(ctx, domain.User{
		ID:          id.UserID,
		DisplayName: id.Name,
		Email:       id.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("ensure account: %w", err)
	}
	return u, nil
}

func (s *Service) Profile(ctx context.Context, uid string) (*domain.User, error) {
	u, err := s.users.Get(ctx, uid)
	return u, mapErr(err)
}

// ToggleFavorite removes itemID from the set when isFavorited, else adds it.
func (s *Service) ToggleFavorite(ctx context.Context, uid string, kind domain.FavoriteKind, itemID string, isFavorited bool) error {
	if itemID == "" || !kind.Valid() {
		return fmt.Errorf("%w: item id and item type (restaurant or meal) are required", ErrInvalidInput)
	}
	var err error
	if isFavorited {
		err = s.users.RemoveFavorite(ctx, uid, kind, itemID)
	} else {
		err = s.users.AddFavorite(ctx, uid, kind, itemID)
	}
	return mapErr(err)
}

// UpdateProfile stores the display name and addresses; addresses without an
// id get a fresh one. The stored addresses are returned.
func (s *Service) UpdateProfile(ctx context.Context, uid, displayName string, addresses []domain.Address) ([]domain.Address, error) {
	displayName = strings.TrimSpace(displayName)
	if utf8.RuneCountInString(displayName) < minDisplayNameLen {
		return nil, fmt.Errorf("%w: display name must be at least %d characters", ErrInvalidInput, minDisplayNameLen)
	}

	out := make([]domain.Address, 0, len(addresses))
	for i, a := range addresses {
		if strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.Details) == "" {
			return nil, fmt.Errorf("%w: address %d requires name and details", ErrInvalidInput, i)
		}
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		out = append(out, a)
	}

	if err := s.users.UpdateProfile(ctx, uid, displayName, out); err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (s *Service) UpdateAvatar(ctx context.Context, uid, photoURL string) error {
	if !IsWebURL(photoURL) {
		return fmt.Errorf("%w: photo url must be an absolute http(s) url", ErrInvalidInput)
	}
	return mapErr(s.users.UpdateAvatar(ctx, uid, photoURL))
}

// IsWebURL reports whether raw is an absolute http or https URL with a host.
func IsWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func mapErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
