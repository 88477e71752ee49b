package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

type sessionsAPI interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type StripeGateway struct {
	sessions      sessionsAPI
	webhookSecret string
	breaker       *gobreaker.CircuitBreaker[*stripe.CheckoutSession]
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	api := client.New(secretKey, nil)
	return newStripeGateway(api.CheckoutSessions, webhookSecret)
}

func newStripeGateway(sessions sessionsAPI, webhookSecret string) *StripeGateway {
	breaker := gobreaker.NewCircuitBreaker[*stripe.CheckoutSession](gobreaker.Settings{
		Name:        "stripe-checkout",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// card-level or validation errors are the caller's problem, not an outage
			var stripeErr *stripe.Error
			if errors.As(err, &stripeErr) {
				return stripeErr.HTTPStatusCode < 500
			}
			return err == nil
		},
	})
	return &StripeGateway{
		sessions:      sessions,
		webhookSecret: webhookSecret,
		breaker:       breaker,
	}
}

func (g *StripeGateway) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	params := sessionParams(req)
	params.Context = ctx

	s, err := g.breaker.Execute(func() (*stripe.CheckoutSession, error) {
		return g.sessions.New(params)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	if s == nil || s.ID == "" {
		return nil, ErrMissingSessionIdentity
	}
	return &Session{ID: s.ID, URL: s.URL}, nil
}

func sessionParams(req SessionRequest) *stripe.CheckoutSessionParams {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.LineItems))
	for _, li := range req.LineItems {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(li.Name),
		}
		if li.ImageURL != "" {
			product.Images = stripe.StringSlice([]string{li.ImageURL})
		}
		if li.ProductID != "" {
			product.Metadata = map[string]string{"productId": li.ProductID}
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(req.Currency),
				ProductData: product,
				UnitAmount:  stripe.Int64(li.UnitAmount),
			},
			Quantity: stripe.Int64(li.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	return params
}

// ParseEvent verifies the signature header against the raw body and decodes
// the event. Only checkout.session.completed carries a Session.
func (g *StripeGateway) ParseEvent(payload []byte, signature string) (*Event, error) {
	if g.webhookSecret == "" {
		return nil, ErrWebhookNotConfigured
	}

	ev, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{ID: ev.ID, Type: string(ev.Type)}
	if out.Type != EventCheckoutSessionCompleted || ev.Data == nil {
		return out, nil
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &cs); err != nil {
		return nil, fmt.Errorf("%w: decode checkout session: %v", ErrMalformedEvent, err)
	}
	out.Session = &CompletedSession{
		ID:          cs.ID,
		AmountTotal: cs.AmountTotal,
		Metadata:    cs.Metadata,
	}
	return out, nil
}
