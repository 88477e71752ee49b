// Package checkout turns a cart into a hosted checkout session. The cart
// snapshot travels in the session metadata so the payment webhook can rebuild
// the order without asking the client again.
package checkout

import (
	"context"
	"fmt"

	"github.com/GeoAziz/cyberfeast/internal/cart"
	"github.com/GeoAziz/cyberfeast/internal/domain"
	"github.com/GeoAziz/cyberfeast/internal/logging"
	"github.com/GeoAziz/cyberfeast/internal/payment"
)

// Metadata keys shared with the webhook.
const (
	MetadataUserID = "userId"
	MetadataItems  = "items"
)

type SessionCreator interface {
	CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error)
}

type Request struct {
	UserID string
	Items  []domain.CartItem
}

type Initiator struct {
	provider   SessionCreator
	currency   string
	successURL string
	cancelURL  string
}

func NewInitiator(provider SessionCreator, currency, successURL, cancelURL string) *Initiator {
	return &Initiator{
		provider:   provider,
		currency:   currency,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

func (in *Initiator) Initiate(ctx context.Context, req Request) (*payment.Session, error) {
	if req.UserID == "" {
		return nil, ErrUnauthenticated
	}

	items := cart.Normalize(req.Items)
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	metadata, err := EncodeSnapshot(items)
	if err != nil {
		return nil, err
	}
	metadata[MetadataUserID] = req.UserID

	lineItems := make([]payment.LineItem, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, payment.LineItem{
			Name:       item.Name,
			ImageURL:   item.ImageURL,
			ProductID:  item.ID,
			UnitAmount: payment.MinorUnits(item.Price),
			Quantity:   int64(item.Quantity),
		})
	}

	session, err := in.provider.CreateSession(ctx, payment.SessionRequest{
		Currency:   in.currency,
		LineItems:  lineItems,
		SuccessURL: in.successURL,
		CancelURL:  in.cancelURL,
		Metadata:   metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionCreationFailed, err)
	}
	if session == nil || session.ID == "" {
		return nil, ErrSessionCreationFailed
	}

	logging.FromContext(ctx).Info().
		Str("user_id", req.UserID).
		Str("session_id", session.ID).
		Int("line_items", len(lineItems)).
		Str("total", cart.Total(items).StringFixed(2)).
		Msg("checkout session created")

	return session, nil
}
