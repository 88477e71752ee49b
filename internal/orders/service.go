// Package orders materializes orders and credits loyalty points.
package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GeoAziz/cyberfeast/internal/cart"
	"github.com/GeoAziz/cyberfeast/internal/domain"
	"github.com/GeoAziz/cyberfeast/internal/logging"
	"github.com/GeoAziz/cyberfeast/internal/metrics"
	"github.com/GeoAziz/cyberfeast/internal/repository"
	"github.com/shopspring/decimal"
)

const (
	RecentLimit = 10

	// DefaultWriteTimeout bounds the order and loyalty writes once started.
	DefaultWriteTimeout = 10 * time.Second
)

var (
	ErrPersistence        = errors.New("order persistence failed")
	ErrLoyaltyNotCredited = errors.New("order recorded but loyalty points not credited")
	ErrAlreadyRecorded    = errors.New("order already recorded for checkout session")
	ErrNotFound           = errors.New("order not found")
	ErrNoItems            = errors.New("order has no items")
	ErrUnauthenticated    = errors.New("order requires an authenticated user")
)

type Publisher interface {
	PublishOrderCreated(ctx context.Context, order domain.Order, points int64) error
}

type Input struct {
	UserID    string
	SessionID string
	Items     []domain.CartItem
	Total     decimal.Decimal
	Status    domain.OrderStatus
}

type Service struct {
	orders       repository.OrderRepository
	users        repository.UserRepository
	publisher    Publisher
	writeTimeout time.Duration
}

// NewService builds the service; publisher may be nil.
func NewService(orders repository.OrderRepository, users repository.UserRepository, publisher Publisher) *Service {
	return &Service{
		orders:       orders,
		users:        users,
		publisher:    publisher,
		writeTimeout: DefaultWriteTimeout,
	}
}

// LoyaltyPoints is one point per whole currency unit.
func LoyaltyPoints(total decimal.Decimal) int64 {
	if total.IsNegative() {
		return 0
	}
	return total.Floor().IntPart()
}

// Materialize inserts the order and then increments the owner's loyalty
// balance by floor(total). Both writes run on a context detached from the
// caller, bounded by the write timeout, so a dropped request cannot stop
// between them. The two writes are not atomic together: when the increment
// fails the order stays recorded, uncredited, and the returned error wraps
// both ErrPersistence and ErrLoyaltyNotCredited.
//
// An order carrying a SessionID is recorded at most once. A repeat returns the
// existing order with ErrAlreadyRecorded; if that order was never credited the
// repeat credits it first.
func (s *Service) Materialize(ctx context.Context, in Input) (*domain.Order, error) {
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
	defer cancel()

	order := &domain.Order{
		UserID:    in.UserID,
		SessionID: in.SessionID,
		Items:     in.Items,
		Total:     in.Total,
		Status:    in.Status,
	}
	if err := s.orders.Insert(wctx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicateSession) {
			return s.settleRepeat(wctx, in.SessionID)
		}
		return nil, fmt.Errorf("%w: insert order: %v", ErrPersistence, err)
	}
	metrics.OrdersMaterialized.WithLabelValues(order.Status.String()).Inc()

	return order, s.credit(wctx, order)
}

func (s *Service) settleRepeat(ctx context.Context, sessionID string) (*domain.Order, error) {
	existing, err := s.orders.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: load recorded order: %v", ErrPersistence, err)
	}
	if !existing.LoyaltyCredited {
		logging.FromContext(ctx).Info().
			Str("order_id", existing.ID).
			Msg("crediting loyalty for previously recorded order")
		if err := s.credit(ctx, existing); err != nil {
			return existing, err
		}
	}
	return existing, ErrAlreadyRecorded
}

// credit claims the order's loyalty flag, then increments the balance. A
// failed increment hands the flag back so a later delivery can retry.
func (s *Service) credit(ctx context.Context, order *domain.Order) error {
	log := logging.FromContext(ctx)
	points := LoyaltyPoints(order.Total)

	claimed, err := s.orders.SetLoyaltyCredited(ctx, order.ID, true)
	if err != nil {
		return s.creditFailed(ctx, order, points, err)
	}
	if !claimed {
		order.LoyaltyCredited = true
		return nil
	}
	if err := s.users.IncrementLoyalty(ctx, order.UserID, points); err != nil {
		if _, rerr := s.orders.SetLoyaltyCredited(ctx, order.ID, false); rerr != nil {
			log.Error().Err(rerr).Str("order_id", order.ID).Msg("loyalty flag rollback error")
		}
		return s.creditFailed(ctx, order, points, err)
	}
	order.LoyaltyCredited = true

	log.Info().
		Str("order_id", order.ID).
		Str("user_id", order.UserID).
		Str("status", order.Status.String()).
		Str("total", order.Total.StringFixed(2)).
		Int64("points", points).
		Msg("order materialized")

	if s.publisher != nil {
		if err := s.publisher.PublishOrderCreated(ctx, *order, points); err != nil {
			log.Warn().Err(err).Str("order_id", order.ID).Msg("order event publish error")
		}
	}
	return nil
}

func (s *Service) creditFailed(ctx context.Context, order *domain.Order, points int64, err error) error {
	metrics.LoyaltyCreditFailures.Inc()
	logging.FromContext(ctx).Error().Err(err).
		Str("order_id", order.ID).
		Str("user_id", order.UserID).
		Int64("points", points).
		Msg("order recorded without loyalty credit")
	return fmt.Errorf("%w: %w: %v", ErrPersistence, ErrLoyaltyNotCredited, err)
}

// RecordPaid is the webhook path: total is the amount the provider captured.
func (s *Service) RecordPaid(ctx context.Context, userID, sessionID string, items []domain.CartItem, total decimal.Decimal) (*domain.Order, error) {
	return s.Materialize(ctx, Input{
		UserID:    userID,
		SessionID: sessionID,
		Items:     items,
		Total:     total,
		Status:    domain.OrderStatusPaid,
	})
}

// PlacePending is the direct path without payment confirmation. The total is
// computed from the normalized items.
func (s *Service) PlacePending(ctx context.Context, userID string, items []domain.CartItem) (*domain.Order, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	items = cart.Normalize(items)
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	return s.Materialize(ctx, Input{
		UserID: userID,
		Items:  items,
		Total:  cart.Total(items),
		Status: domain.OrderStatusPending,
	})
}

// ListRecent returns the user's latest orders, newest first.
func (s *Service) ListRecent(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID, RecentLimit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// Get returns the order only when it belongs to userID.
func (s *Service) Get(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.UserID != userID {
		return nil, ErrNotFound
	}
	return order, nil
}
