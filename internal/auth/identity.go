// Package auth issues and verifies session tokens and carries the caller
// identity through request contexts.
package auth

import "context"

// Identity is the authenticated caller. The zero value is anonymous.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the caller identity, or false for anonymous requests.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || !id.Authenticated() {
		return Identity{}, false
	}
	return id, true
}
