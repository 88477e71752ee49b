package checkout

import "errors"

var (
	ErrUnauthenticated       = errors.New("checkout requires an authenticated user")
	ErrEmptyCart             = errors.New("cart is empty, nothing to checkout")
	ErrSessionCreationFailed = errors.New("checkout session creation failed")
	ErrCartTooLarge          = errors.New("cart is too large for a single checkout session")
)
