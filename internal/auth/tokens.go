package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName      = "__session"
	sessionIssuer   = "cyberfeast-session"
	clockSkewLeeway = 30 * time.Second
)

var (
	ErrMissingToken = errors.New("no token provided")
	ErrInvalidToken = errors.New("invalid token")
)

type claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Tokens verifies identity provider id tokens and mints the session tokens
// stored in the session cookie. Both use HS256 with separate secrets.
type Tokens struct {
	sessionSecret []byte
	idTokenSecret []byte
	sessionTTL    time.Duration
	now           func() time.Time
}

func NewTokens(sessionSecret, idTokenSecret string, sessionTTL time.Duration) *Tokens {
	return &Tokens{
		sessionSecret: []byte(sessionSecret),
		idTokenSecret: []byte(idTokenSecret),
		sessionTTL:    sessionTTL,
		now:           time.Now,
	}
}

func (t *Tokens) SessionTTL() time.Duration {
	return t.sessionTTL
}

// VerifyIDToken checks a token minted by the identity provider.
func (t *Tokens) VerifyIDToken(raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, ErrMissingToken
	}
	if len(t.idTokenSecret) == 0 {
		return Identity{}, fmt.Errorf("%w: id token verification not configured", ErrInvalidToken)
	}
	return t.parse(raw, t.idTokenSecret)
}

// IssueSession returns a signed session token and its expiry.
func (t *Tokens) IssueSession(id Identity) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.sessionTTL)
	c := claims{
		Email: id.Email,
		Name:  id.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.sessionSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, exp, nil
}

func (t *Tokens) VerifySession(raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, ErrMissingToken
	}
	return t.parse(raw, t.sessionSecret, jwt.WithIssuer(sessionIssuer))
}

func (t *Tokens) parse(raw string, secret []byte, opts ...jwt.ParserOption) (Identity, error) {
	opts = append(opts,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(clockSkewLeeway),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	var c claims
	token, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Subject == "" {
		return Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return Identity{UserID: c.Subject, Email: c.Email, Name: c.Name}, nil
}
