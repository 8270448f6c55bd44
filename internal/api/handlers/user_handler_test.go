package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiContext "workhive/internal/api/context"
	"workhive/internal/api/middleware"
	"workhive/internal/engine/plans"
	"workhive/internal/pkg/errors"
	"workhive/internal/platform/config"
	"workhive/internal/platform/database"
	"workhive/internal/platform/models"
	"workhive/internal/platform/repositories"
)

type memberFixture struct {
	handler *UserHandler
	org     *models.Organization
	users   *repositories.UserRepository
}

func newMemberFixture(t *testing.T, tier models.PlanTier) *memberFixture {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	_, err = db.Exec(database.CatalogSchema)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	orgs := repositories.NewOrganizationRepository(db)
	users := repositories.NewUserRepository(db)
	perms := repositories.NewPermissionRepository(db)
	pool := database.NewTenantDBPool(config.TenantDBConfig{BasePath: t.TempDir(), MaxConnectionsPerOrg: 1})
	t.Cleanup(pool.CloseAll)

	now := time.Now().Unix()
	org := &models.Organization{
		ID:           "org_" + uuid.NewString(),
		Name:         "Acme",
		Subdomain:    "acme",
		TenantDBPath: ":memory:",
		PlanTier:     tier,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	owner := &models.User{
		ID:             "usr_" + uuid.NewString(),
		OrganizationID: org.ID,
		Email:          "owner@acme.test",
		PasswordHash:   "$2a$10$notarealhash",
		FullName:       "Owner",
		Role:           models.RoleOrgOwner,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, orgs.CreateWithOwner(context.Background(), org, owner))

	counter := repositories.NewResourceCounter(orgs, users, perms, pool)
	enforcer := plans.NewEnforcer(orgs, counter)

	return &memberFixture{
		handler: NewUserHandler(users, enforcer),
		org:     org,
		users:   users,
	}
}

func (f *memberFixture) createMember(t *testing.T, body CreateMemberRequest) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewReader(payload))
	ctx := context.WithValue(req.Context(), apiContext.Tenant, &middleware.TenantContext{
		OrgID:    f.org.ID,
		PlanTier: f.org.PlanTier,
	})
	rec := httptest.NewRecorder()
	f.handler.CreateMember(rec, req.WithContext(ctx))
	return rec
}

func TestCreateMember(t *testing.T) {
	f := newMemberFixture(t, models.PlanWorkerBee)

	rec := f.createMember(t, CreateMemberRequest{
		Email:    "bob@acme.test",
		Password: "pw-long-enough",
		FullName: "Bob Builder",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, f.org.ID, created.OrganizationID)
	assert.Equal(t, models.RoleMember, created.Role, "role defaults to MEMBER")
}

func TestCreateMemberAtPlanLimit(t *testing.T) {
	f := newMemberFixture(t, models.PlanWorkerBee)
	ctx := context.Background()

	// The owner occupies one seat; fill the remaining nine.
	for i := 0; i < 9; i++ {
		now := time.Now().Unix()
		require.NoError(t, f.users.Create(ctx, &models.User{
			ID:             "usr_" + uuid.NewString(),
			OrganizationID: f.org.ID,
			Email:          fmt.Sprintf("member%d@acme.test", i),
			PasswordHash:   "$2a$10$notarealhash",
			FullName:       "Member",
			Role:           models.RoleMember,
			CreatedAt:      now,
			UpdatedAt:      now,
		}))
	}

	rec := f.createMember(t, CreateMemberRequest{
		Email:    "eleventh@acme.test",
		Password: "pw-long-enough",
		FullName: "One Too Many",
	})
	require.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())

	var resp errors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, errors.ErrCodePlanLimit, resp.Code)
	assert.Contains(t, resp.Message, "members")
	assert.Contains(t, resp.Message, "10")

	// Nothing was inserted by the rejected request.
	blocked, err := f.users.GetByEmail(ctx, "eleventh@acme.test")
	require.NoError(t, err)
	assert.Nil(t, blocked)
}

func TestCreateMemberUnlimitedTier(t *testing.T) {
	f := newMemberFixture(t, models.PlanQueenHive)

	for i := 0; i < 12; i++ {
		rec := f.createMember(t, CreateMemberRequest{
			Email:    fmt.Sprintf("m%d@acme.test", i),
			Password: "pw-long-enough",
			FullName: "Member",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
}

func TestCreateMemberRejectsSuperAdminRole(t *testing.T) {
	f := newMemberFixture(t, models.PlanWorkerBee)

	rec := f.createMember(t, CreateMemberRequest{
		Email:    "sneaky@acme.test",
		Password: "pw-long-enough",
		FullName: "Sneaky",
		Role:     models.RoleSuperAdmin,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateMemberDuplicateEmail(t *testing.T) {
	f := newMemberFixture(t, models.PlanWorkerBee)

	body := CreateMemberRequest{Email: "bob@acme.test", Password: "pw-long-enough", FullName: "Bob"}
	require.Equal(t, http.StatusCreated, f.createMember(t, body).Code)

	rec := f.createMember(t, body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
