package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	apiContext "workhive/internal/api/context"
	"workhive/internal/api/middleware"
	"workhive/internal/pkg/errors"
	"workhive/internal/platform/audit"
)

type AuditHandler struct {
	log *audit.Logger
}

func NewAuditHandler(log *audit.Logger) *AuditHandler {
	return &AuditHandler{log: log}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant := r.Context().Value(apiContext.Tenant).(*middleware.TenantContext)

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.log.List(r.Context(), tenant.OrgID, limit)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	if entries == nil {
		entries = []audit.Entry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
