package middleware

import (
	"context"
	"database/sql"
	"net/http"

	apiContext "workhive/internal/api/context"
	"workhive/internal/pkg/errors"
	"workhive/internal/platform/auth"
	"workhive/internal/platform/database"
	"workhive/internal/platform/models"
)

type TenantContext struct {
	OrgID     string
	Subdomain string
	PlanTier  models.PlanTier
	DB        *sql.DB
}

// OrganizationStore loads the claims' organization from the catalog.
type OrganizationStore interface {
	GetByID(ctx context.Context, id string) (*models.Organization, error)
}

// TenantMiddleware resolves the authenticated principal's organization and
// attaches its tenant store connection to the request.
type TenantMiddleware struct {
	orgs   OrganizationStore
	dbPool *database.TenantDBPool
}

func NewTenantMiddleware(orgs OrganizationStore, dbPool *database.TenantDBPool) *TenantMiddleware {
	return &TenantMiddleware{
		orgs:   orgs,
		dbPool: dbPool,
	}
}

func (m *TenantMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(apiContext.Claims).(*auth.Claims)
		if !ok {
			errors.Render(w, errors.ErrAuthRequired)
			return
		}

		org, err := m.orgs.GetByID(r.Context(), claims.OrganizationID)
		if err != nil {
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to load organization", nil)
			return
		}
		if org == nil {
			errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Organization not found", nil)
			return
		}

		db, err := m.dbPool.Get(org.ID, org.TenantDBPath)
		if err != nil {
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to connect to tenant database", nil)
			return
		}

		ctx := context.WithValue(r.Context(), apiContext.Tenant, &TenantContext{
			OrgID:     org.ID,
			Subdomain: org.Subdomain,
			PlanTier:  org.PlanTier,
			DB:        db,
		})

		next(w, r.WithContext(ctx))
	}
}
