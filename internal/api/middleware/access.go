package middleware

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "workhive/internal/api/context"
	"workhive/internal/engine/permissions"
	"workhive/internal/pkg/errors"
	"workhive/internal/platform/models"
)

// The gate stages below compose left-to-right behind the authenticate stage;
// each short-circuits its failure kind without running later stages.

// RequireRole fails with RoleForbidden unless the principal's role is in the
// allowed set.
func RequireRole(roles ...models.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user, ok := r.Context().Value(apiContext.CurrentUser).(*models.User)
			if !ok {
				errors.Render(w, errors.ErrAuthRequired)
				return
			}

			for _, role := range roles {
				if user.Role == role {
					next(w, r)
					return
				}
			}

			errors.Render(w, errors.ErrRoleForbidden)
		}
	}
}

// RequirePermission resolves the principal's effective permission set on
// every request and fails with PermissionDenied unless ALL required
// permissions are present.
func RequirePermission(resolver *permissions.Resolver, required ...models.PermissionName) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user, ok := r.Context().Value(apiContext.CurrentUser).(*models.User)
			if !ok {
				errors.Render(w, errors.ErrAuthRequired)
				return
			}

			set, err := resolver.Resolve(r.Context(), user)
			if err != nil {
				errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to resolve permissions", nil)
				return
			}

			if !set.HasAll(required...) {
				errors.Render(w, errors.ErrPermissionDenied)
				return
			}

			next(w, r)
		}
	}
}

// RequireOwnership compares the addressed resource's owner against the
// principal. Administrative roles bypass the check.
func RequireOwnership(param string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user, ok := r.Context().Value(apiContext.CurrentUser).(*models.User)
			if !ok {
				errors.Render(w, errors.ErrAuthRequired)
				return
			}

			if user.Role.Administrative() {
				next(w, r)
				return
			}

			params, _ := r.Context().Value(apiContext.Params).(httprouter.Params)
			resourceID := params.ByName(param)
			if resourceID != user.ID {
				errors.Render(w, errors.ErrNotResourceOwner)
				return
			}

			next(w, r)
		}
	}
}
