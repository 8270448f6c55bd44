package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/crypto/bcrypt"

	apiContext "workhive/internal/api/context"
	"workhive/internal/api/middleware"
	"workhive/internal/engine/plans"
	"workhive/internal/pkg/errors"
	"workhive/internal/pkg/validator"
	"workhive/internal/platform/models"
	"workhive/internal/platform/repositories"
)

type UserHandler struct {
	users    *repositories.UserRepository
	enforcer *plans.Enforcer
}

func NewUserHandler(users *repositories.UserRepository, enforcer *plans.Enforcer) *UserHandler {
	return &UserHandler{users: users, enforcer: enforcer}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant := r.Context().Value(apiContext.Tenant).(*middleware.TenantContext)

	users, err := h.users.ListByOrganization(r.Context(), tenant.OrgID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

type CreateMemberRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	FullName string      `json:"full_name"`
	Role     models.Role `json:"role"`
}

// CreateMember adds a user to the caller's organization. The member quota is
// checked first; the count and the insert are separate statements, so two
// concurrent calls can jointly overshoot the quota by one.
func (h *UserHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	tenant := r.Context().Value(apiContext.Tenant).(*middleware.TenantContext)

	var req CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if err := validator.ValidEmail(req.Email); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}
	role := req.Role
	if role == "" {
		role = models.RoleMember
	}
	if !role.Valid() || role == models.RoleSuperAdmin {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid role", nil)
		return
	}

	if err := h.enforcer.CheckLimit(r.Context(), tenant.OrgID, plans.ResourceMembers); err != nil {
		errors.Render(w, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to hash password", nil)
		return
	}

	now := time.Now().Unix()
	user := &models.User{
		ID:             "usr_" + uuid.NewString(),
		OrganizationID: tenant.OrgID,
		Email:          req.Email,
		PasswordHash:   string(hashed),
		FullName:       req.FullName,
		Role:           role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.users.Create(r.Context(), user); err != nil {
		errors.Render(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	params, _ := r.Context().Value(apiContext.Params).(httprouter.Params)
	userID := params.ByName("user_id")

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if user == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "User not found", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

type UpdateRoleRequest struct {
	Role models.Role `json:"role"`
}

func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	params, _ := r.Context().Value(apiContext.Params).(httprouter.Params)
	tenant := r.Context().Value(apiContext.Tenant).(*middleware.TenantContext)
	userID := params.ByName("user_id")

	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if !req.Role.Valid() || req.Role == models.RoleSuperAdmin {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid role", nil)
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if user == nil || user.OrganizationID != tenant.OrgID {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "User not found", nil)
		return
	}

	if err := h.users.UpdateRole(r.Context(), userID, req.Role, time.Now().Unix()); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to update role", nil)
		return
	}

	user.Role = req.Role
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
