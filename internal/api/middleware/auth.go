package middleware

import (
	"context"
	"net/http"
	"strings"

	apiContext "workhive/internal/api/context"
	"workhive/internal/pkg/errors"
	"workhive/internal/platform/auth"
	"workhive/internal/platform/models"
)

// PrincipalStore resolves the token's subject to a live user row.
type PrincipalStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// AuthMiddleware is the authenticate stage of the gate: extract the bearer
// credential, verify it, and resolve the principal. The three failure cases
// are distinct error kinds internally but render as one generic 401.
type AuthMiddleware struct {
	tokenSvc *auth.TokenService
	users    PrincipalStore
}

func NewAuthMiddleware(tokenSvc *auth.TokenService, users PrincipalStore) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, users: users}
}

func (m *AuthMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			errors.Render(w, errors.ErrAuthRequired)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			errors.Render(w, errors.ErrAuthRequired)
			return
		}

		claims, err := m.tokenSvc.ValidateToken(parts[1])
		if err != nil {
			errors.Render(w, errors.ErrAuthInvalid)
			return
		}

		user, err := m.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to load user", nil)
			return
		}
		if user == nil {
			errors.Render(w, errors.ErrAuthPrincipalMissing)
			return
		}

		ctx := context.WithValue(r.Context(), apiContext.Claims, claims)
		ctx = context.WithValue(ctx, apiContext.CurrentUser, user)
		next(w, r.WithContext(ctx))
	}
}
