package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "workhive/internal/api/context"
	"workhive/internal/api/middleware"
	"workhive/internal/engine/permissions"
	"workhive/internal/pkg/errors"
	"workhive/internal/platform/models"
	"workhive/internal/platform/repositories"
)

type PermissionHandler struct {
	perms    *repositories.PermissionRepository
	users    *repositories.UserRepository
	resolver *permissions.Resolver
}

func NewPermissionHandler(perms *repositories.PermissionRepository, users *repositories.UserRepository, resolver *permissions.Resolver) *PermissionHandler {
	return &PermissionHandler{perms: perms, users: users, resolver: resolver}
}

type GrantRequest struct {
	Permission models.PermissionName `json:"permission"`
}

// Grant attaches a permission override to a user, independent of role.
func (h *PermissionHandler) Grant(w http.ResponseWriter, r *http.Request) {
	params, _ := r.Context().Value(apiContext.Params).(httprouter.Params)
	userID := params.ByName("user_id")

	var req GrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	user, perm, ok := h.lookup(w, r, userID, req.Permission)
	if !ok {
		return
	}

	if err := h.perms.GrantUserPermission(r.Context(), user.ID, perm.ID); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to grant permission", nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PermissionHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	params, _ := r.Context().Value(apiContext.Params).(httprouter.Params)
	userID := params.ByName("user_id")
	permName := models.PermissionName(params.ByName("permission"))

	user, perm, ok := h.lookup(w, r, userID, permName)
	if !ok {
		return
	}

	if err := h.perms.RevokeUserPermission(r.Context(), user.ID, perm.ID); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to revoke permission", nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListEffective returns the user's resolved permission set: role grants
// unioned with individual overrides.
func (h *PermissionHandler) ListEffective(w http.ResponseWriter, r *http.Request) {
	params, _ := r.Context().Value(apiContext.Params).(httprouter.Params)
	tenant := r.Context().Value(apiContext.Tenant).(*middleware.TenantContext)
	userID := params.ByName("user_id")

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if user == nil || user.OrganizationID != tenant.OrgID {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "User not found", nil)
		return
	}

	set, err := h.resolver.Resolve(r.Context(), user)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to resolve permissions", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user_id":     user.ID,
		"role":        user.Role,
		"permissions": set.Names(),
	})
}

func (h *PermissionHandler) lookup(w http.ResponseWriter, r *http.Request, userID string, permName models.PermissionName) (*models.User, *models.Permission, bool) {
	tenant := r.Context().Value(apiContext.Tenant).(*middleware.TenantContext)

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return nil, nil, false
	}
	if user == nil || user.OrganizationID != tenant.OrgID {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "User not found", nil)
		return nil, nil, false
	}

	perm, err := h.perms.GetByName(r.Context(), permName)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return nil, nil, false
	}
	if perm == nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Unknown permission", nil)
		return nil, nil, false
	}

	return user, perm, true
}
