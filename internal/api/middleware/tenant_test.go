package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiContext "workhive/internal/api/context"
	"workhive/internal/platform/auth"
	"workhive/internal/platform/config"
	"workhive/internal/platform/database"
	"workhive/internal/platform/models"
	"workhive/internal/platform/repositories"
)

func TestTenantMiddleware(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orgs := repositories.NewOrganizationRepository(db)
	pool := database.NewTenantDBPool(config.TenantDBConfig{BasePath: t.TempDir(), MaxConnectionsPerOrg: 1})
	defer pool.CloseAll()

	mw := NewTenantMiddleware(orgs, pool)

	withClaims := func(orgID string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := context.WithValue(req.Context(), apiContext.Claims, &auth.Claims{OrganizationID: orgID})
		return req.WithContext(ctx)
	}

	t.Run("valid tenant", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "name", "subdomain", "tenant_db_path", "plan_tier", "created_at", "updated_at"}).
			AddRow("org_123", "Acme Inc", "acme", ":memory:", "WORKER_BEE", 1234567890, 1234567890)
		mock.ExpectQuery("SELECT (.+) FROM organizations WHERE id = ?").
			WithArgs("org_123").
			WillReturnRows(rows)

		rec := httptest.NewRecorder()
		handler := mw.Handle(func(w http.ResponseWriter, r *http.Request) {
			tenant, ok := r.Context().Value(apiContext.Tenant).(*TenantContext)
			require.True(t, ok)
			assert.Equal(t, "org_123", tenant.OrgID)
			assert.Equal(t, "acme", tenant.Subdomain)
			assert.Equal(t, models.PlanWorkerBee, tenant.PlanTier)
			assert.NotNil(t, tenant.DB)
			w.WriteHeader(http.StatusOK)
		})
		handler(rec, withClaims("org_123"))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown organization", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM organizations WHERE id = ?").
			WithArgs("org_999").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "subdomain", "tenant_db_path", "plan_tier", "created_at", "updated_at"}))

		rec := httptest.NewRecorder()
		handler := mw.Handle(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler must not run")
		})
		handler(rec, withClaims("org_999"))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing claims", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler := mw.Handle(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler must not run")
		})
		handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
