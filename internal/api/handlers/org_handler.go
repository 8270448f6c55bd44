package handlers

import (
	"encoding/json"
	"net/http"

	apiContext "workhive/internal/api/context"
	"workhive/internal/api/middleware"
	"workhive/internal/engine/provisioning"
	"workhive/internal/pkg/errors"
	"workhive/internal/pkg/notify"
	"workhive/internal/pkg/validator"
	"workhive/internal/platform/auth"
	"workhive/internal/platform/models"
)

type OrgHandler struct {
	orchestrator *provisioning.Orchestrator
	orgs         middleware.OrganizationStore
	tokenSvc     *auth.TokenService
	notifier     notify.Notifier
}

func NewOrgHandler(orchestrator *provisioning.Orchestrator, orgs middleware.OrganizationStore, tokenSvc *auth.TokenService, notifier notify.Notifier) *OrgHandler {
	return &OrgHandler{
		orchestrator: orchestrator,
		orgs:         orgs,
		tokenSvc:     tokenSvc,
		notifier:     notifier,
	}
}

type RegisterOrgRequest struct {
	Name      string          `json:"name"`
	Subdomain string          `json:"subdomain"`
	PlanTier  models.PlanTier `json:"plan_tier"`
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	FullName  string          `json:"full_name"`
}

type RegisterOrgResponse struct {
	Organization *models.Organization `json:"organization"`
	User         *models.User         `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// Register creates an organization together with its first user and
// provisions the tenant store. All failure handling, including compensation,
// is resolved inside the orchestrator before this handler responds.
func (h *OrgHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterOrgRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if req.Name == "" || req.Password == "" || req.FullName == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Name, password and full_name are required", nil)
		return
	}
	if err := validator.ValidEmail(req.Email); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}
	if err := validator.ValidSubdomain(req.Subdomain); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	result, err := h.orchestrator.Provision(r.Context(), provisioning.RegisterRequest{
		OrganizationName: req.Name,
		Subdomain:        req.Subdomain,
		PlanTier:         req.PlanTier,
		AdminEmail:       req.Email,
		AdminPassword:    req.Password,
		AdminFullName:    req.FullName,
	})
	if err != nil {
		errors.Render(w, err)
		return
	}

	// Onboarding notification is fire-and-forget; its failure never affects
	// the committed registration.
	go h.notifier.OrganizationProvisioned(r.Context(), result.Organization, result.User)

	accessToken, err := h.tokenSvc.GenerateAccessToken(result.User)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to generate token", nil)
		return
	}
	refreshToken, err := h.tokenSvc.GenerateRefreshToken(result.User.ID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to generate token", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(RegisterOrgResponse{
		Organization: result.Organization,
		User:         result.User,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

func (h *OrgHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	tenant := r.Context().Value(apiContext.Tenant).(*middleware.TenantContext)

	org, err := h.orgs.GetByID(r.Context(), tenant.OrgID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if org == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Organization not found", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(org)
}
