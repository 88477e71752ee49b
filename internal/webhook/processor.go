// Package webhook turns verified payment provider events into orders.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GeoAziz/cyberfeast/internal/cache"
	"github.com/GeoAziz/cyberfeast/internal/checkout"
	"github.com/GeoAziz/cyberfeast/internal/domain"
	"github.com/GeoAziz/cyberfeast/internal/logging"
	"github.com/GeoAziz/cyberfeast/internal/orders"
	"github.com/GeoAziz/cyberfeast/internal/payment"
	"github.com/shopspring/decimal"
)

const lockScope = "webhook"

var (
	ErrMalformedPayload = errors.New("malformed webhook payload")
	ErrInProgress       = errors.New("checkout session is being processed by another delivery")
)

type EventParser interface {
	ParseEvent(payload []byte, signature string) (*payment.Event, error)
}

type OrderRecorder interface {
	RecordPaid(ctx context.Context, userID, sessionID string, items []domain.CartItem, total decimal.Decimal) (*domain.Order, error)
}

type Outcome string

const (
	OutcomeIgnored   Outcome = "ignored"
	OutcomeCreated   Outcome = "created"
	OutcomeDuplicate Outcome = "duplicate"
)

type Result struct {
	Outcome   Outcome
	EventType string
	OrderID   string
}

type Processor struct {
	parser   EventParser
	recorder OrderRecorder
	locks    cache.IdempotencyStore
}

// NewProcessor builds a processor; locks may be nil, in which case concurrent
// duplicates are settled by the order store alone.
func NewProcessor(parser EventParser, recorder OrderRecorder, locks cache.IdempotencyStore) *Processor {
	return &Processor{
		parser:   parser,
		recorder: recorder,
		locks:    locks,
	}
}

// Process verifies the delivery and, for a completed checkout, records the
// paid order. Nothing is written unless the signature verifies and the
// metadata is complete.
func (p *Processor) Process(ctx context.Context, payload []byte, signature string) (Result, error) {
	ev, err := p.parser.ParseEvent(payload, signature)
	if err != nil {
		if errors.Is(err, payment.ErrMalformedEvent) {
			return Result{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return Result{}, err
	}

	res := Result{Outcome: OutcomeIgnored, EventType: ev.Type}
	if ev.Type != payment.EventCheckoutSessionCompleted {
		return res, nil
	}
	if ev.Session == nil {
		return res, fmt.Errorf("%w: event carries no checkout session", ErrMalformedPayload)
	}

	userID, items, err := decodeMetadata(ev.Session.Metadata)
	if err != nil {
		return res, err
	}
	total := payment.FromMinorUnits(ev.Session.AmountTotal)
	log := logging.FromContext(ctx).With().
		Str("event_id", ev.ID).
		Str("session_id", ev.Session.ID).
		Str("user_id", userID).
		Logger()

	if p.locks != nil && ev.Session.ID != "" {
		token, locked, err := p.locks.TryLock(ctx, lockScope, ev.Session.ID)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("idempotency lock unavailable, relying on order store")
		case !locked:
			return res, ErrInProgress
		default:
			defer p.release(ctx, ev.Session.ID, token)
		}
	}

	order, err := p.recorder.RecordPaid(ctx, userID, ev.Session.ID, items, total)
	if errors.Is(err, orders.ErrAlreadyRecorded) {
		res.Outcome = OutcomeDuplicate
		if order != nil {
			res.OrderID = order.ID
		}
		log.Info().Str("order_id", res.OrderID).Msg("duplicate delivery acknowledged")
		return res, nil
	}
	if err != nil {
		return res, err
	}

	res.Outcome = OutcomeCreated
	res.OrderID = order.ID
	return res, nil
}

func (p *Processor) release(ctx context.Context, sessionID, token string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()
	if err := p.locks.Release(ctx, lockScope, sessionID, token); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("session_id", sessionID).Msg("idempotency lock release error")
	}
}

func decodeMetadata(md map[string]string) (string, []domain.CartItem, error) {
	userID := md[checkout.MetadataUserID]
	raw, ok := md[checkout.MetadataItems]
	if userID == "" || !ok || raw == "" {
		return "", nil, fmt.Errorf("%w: metadata requires %s and %s", ErrMalformedPayload, checkout.MetadataUserID, checkout.MetadataItems)
	}

	items, err := checkout.DecodeSnapshot(md)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return userID, items, nil
}
