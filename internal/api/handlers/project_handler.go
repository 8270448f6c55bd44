package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	apiContext "workhive/internal/api/context"
	"workhive/internal/api/middleware"
	"workhive/internal/engine/plans"
	"workhive/internal/pkg/errors"
	"workhive/internal/platform/models"
	"workhive/internal/platform/repositories"
)

// ProjectHandler writes into the tenant store attached by the tenant
// middleware; project and task creation sit behind plan quotas.
type ProjectHandler struct {
	enforcer *plans.Enforcer
}

func NewProjectHandler(enforcer *plans.Enforcer) *ProjectHandler {
	return &ProjectHandler{enforcer: enforcer}
}

type CreateProjectRequest struct {
	Name string `json:"name"`
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenant := r.Context().Value(apiContext.Tenant).(*middleware.TenantContext)
	user := r.Context().Value(apiContext.CurrentUser).(*models.User)

	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if err := h.enforcer.CheckLimit(r.Context(), tenant.OrgID, plans.ResourceProjects); err != nil {
		errors.Render(w, err)
		return
	}

	project := &models.Project{
		ID:        "proj_" + uuid.NewString(),
		Name:      req.Name,
		CreatedBy: user.ID,
		CreatedAt: time.Now().Unix(),
	}

	repo := repositories.NewProjectRepository(tenant.DB)
	if err := repo.Create(r.Context(), project); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to create project", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(project)
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant := r.Context().Value(apiContext.Tenant).(*middleware.TenantContext)

	repo := repositories.NewProjectRepository(tenant.DB)
	projects, err := repo.List(r.Context())
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to list projects", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(projects)
}

type CreateTaskRequest struct {
	Title string `json:"title"`
}

func (h *ProjectHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	tenant := r.Context().Value(apiContext.Tenant).(*middleware.TenantContext)
	user := r.Context().Value(apiContext.CurrentUser).(*models.User)
	params, _ := r.Context().Value(apiContext.Params).(httprouter.Params)
	projectID := params.ByName("project_id")

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	repo := repositories.NewProjectRepository(tenant.DB)
	project, err := repo.GetByID(r.Context(), projectID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if project == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Project not found", nil)
		return
	}

	if err := h.enforcer.CheckTaskLimit(r.Context(), tenant.OrgID, projectID); err != nil {
		errors.Render(w, err)
		return
	}

	task := &models.Task{
		ID:        "task_" + uuid.NewString(),
		ProjectID: projectID,
		Title:     req.Title,
		CreatedBy: user.ID,
		CreatedAt: time.Now().Unix(),
	}

	if err := repo.CreateTask(r.Context(), task); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to create task", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(task)
}
