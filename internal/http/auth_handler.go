package http

import (
	"context"
	"net/http"

	"github.com/GeoAziz/cyberfeast/internal/auth"
	"github.com/GeoAziz/cyberfeast/internal/domain"
)

type AccountEnsurer interface {
	EnsureAccount(ctx context.Context, id auth.Identity) (*domain.User, error)
}

type AuthHandler struct {
	tokens   *auth.Tokens
	accounts AccountEnsurer
}

func NewAuthHandler(tokens *auth.Tokens, accounts AccountEnsurer) *AuthHandler {
	return &AuthHandler{
		tokens:   tokens,
		accounts: accounts,
	}
}

// POST /api/auth/session exchanges an id token for the session cookie.
func (h *AuthHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	raw := auth.BearerToken(r)
	if raw == "" {
		respondError(w, http.StatusBadRequest, "missing_token", "no token provided")
		return
	}

	id, err := h.tokens.VerifyIDToken(raw)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if _, err := h.accounts.EnsureAccount(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}

	session, _, err := h.tokens.IssueSession(id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	http.SetCookie(w, auth.SessionCookie(session, int(h.tokens.SessionTTL().Seconds())))
	respondJSON(w, http.StatusOK, StatusResponse{Status: "success"})
}

// DELETE /api/auth/session
func (h *AuthHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.ClearedSessionCookie())
	respondJSON(w, http.StatusOK, StatusResponse{Status: "success"})
}
