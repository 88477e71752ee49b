// Package payment talks to the hosted checkout provider. Callers only see the
// provider-neutral types below.
package payment

import "errors"

const EventCheckoutSessionCompleted = "checkout.session.completed"

var (
	ErrInvalidSignature       = errors.New("invalid webhook signature")
	ErrWebhookNotConfigured   = errors.New("webhook secret not configured")
	ErrProviderUnavailable    = errors.New("payment provider unavailable")
	ErrMissingSessionIdentity = errors.New("provider returned no session id")
	ErrMalformedEvent         = errors.New("malformed webhook event")
)

type LineItem struct {
	Name       string
	ImageURL   string
	ProductID  string
	UnitAmount int64 // minor currency units
	Quantity   int64
}

type SessionRequest struct {
	Currency   string
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

type Session struct {
	ID  string
	URL string
}

// CompletedSession is the part of a checkout.session.completed payload the
// order flow needs.
type CompletedSession struct {
	ID          string
	AmountTotal int64
	Metadata    map[string]string
}

type Event struct {
	ID      string
	Type    string
	Session *CompletedSession
}
