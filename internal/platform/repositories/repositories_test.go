package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workhive/internal/pkg/errors"
	"workhive/internal/platform/database"
	"workhive/internal/platform/models"
)

func openCatalog(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Every pool connection gets its own :memory: database; keep one.
	db.SetMaxOpenConns(1)
	_, err = db.Exec(database.CatalogSchema)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testOrg(name, subdomain string) *models.Organization {
	now := time.Now().Unix()
	return &models.Organization{
		ID:           "org_" + uuid.NewString(),
		Name:         name,
		Subdomain:    subdomain,
		TenantDBPath: "/tmp/tenants/" + subdomain + ".db",
		PlanTier:     models.PlanWorkerBee,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func testUser(orgID, email string, role models.Role) *models.User {
	now := time.Now().Unix()
	return &models.User{
		ID:             "usr_" + uuid.NewString(),
		OrganizationID: orgID,
		Email:          email,
		PasswordHash:   "$2a$10$notarealhash",
		FullName:       "Test User",
		Role:           role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestCreateWithOwner(t *testing.T) {
	db := openCatalog(t)
	orgs := NewOrganizationRepository(db)
	ctx := context.Background()

	org := testOrg("Acme Inc", "acme")
	owner := testUser(org.ID, "ada@acme.test", models.RoleOrgOwner)
	require.NoError(t, orgs.CreateWithOwner(ctx, org, owner))

	got, err := orgs.GetBySubdomain(ctx, "acme")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, org.ID, got.ID)
	assert.Equal(t, models.PlanWorkerBee, got.PlanTier)

	stored, err := NewUserRepository(db).GetByEmail(ctx, "ada@acme.test")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, org.ID, stored.OrganizationID)
}

func TestCreateWithOwnerPromotesFirstCatalogUser(t *testing.T) {
	db := openCatalog(t)
	orgs := NewOrganizationRepository(db)
	ctx := context.Background()

	first := testOrg("Acme", "acme")
	firstOwner := testUser(first.ID, "first@acme.test", models.RoleOrgOwner)
	require.NoError(t, orgs.CreateWithOwner(ctx, first, firstOwner))
	assert.Equal(t, models.RoleSuperAdmin, firstOwner.Role)

	second := testOrg("Globex", "globex")
	secondOwner := testUser(second.ID, "owner@globex.test", models.RoleOrgOwner)
	require.NoError(t, orgs.CreateWithOwner(ctx, second, secondOwner))
	assert.Equal(t, models.RoleOrgOwner, secondOwner.Role)
}

func TestCreateWithOwnerDuplicateSubdomain(t *testing.T) {
	db := openCatalog(t)
	orgs := NewOrganizationRepository(db)
	users := NewUserRepository(db)
	ctx := context.Background()

	org := testOrg("Acme Inc", "acme")
	require.NoError(t, orgs.CreateWithOwner(ctx, org, testUser(org.ID, "one@acme.test", models.RoleOrgOwner)))

	// Same subdomain, different casing of the display name: the UNIQUE
	// constraint is the arbiter, the second registration loses whole.
	again := testOrg("acme", "acme")
	err := orgs.CreateWithOwner(ctx, again, testUser(again.ID, "two@acme.test", models.RoleOrgOwner))
	assert.ErrorIs(t, err, errors.ErrDuplicateSubdomain)

	count, err := users.CountByOrganization(ctx, again.ID)
	require.NoError(t, err)
	assert.Zero(t, count, "losing transaction must leave no partial user row")
}

func TestCreateWithOwnerDuplicateEmail(t *testing.T) {
	db := openCatalog(t)
	orgs := NewOrganizationRepository(db)
	ctx := context.Background()

	org := testOrg("Acme", "acme")
	require.NoError(t, orgs.CreateWithOwner(ctx, org, testUser(org.ID, "same@acme.test", models.RoleOrgOwner)))

	other := testOrg("Globex", "globex")
	err := orgs.CreateWithOwner(ctx, other, testUser(other.ID, "same@acme.test", models.RoleOrgOwner))
	assert.ErrorIs(t, err, errors.ErrUserAlreadyExists)

	// The organization insert preceding the failed user insert rolled back.
	got, err := orgs.GetBySubdomain(ctx, "globex")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOrganizationGetMissingReturnsNil(t *testing.T) {
	db := openCatalog(t)
	orgs := NewOrganizationRepository(db)

	got, err := orgs.GetByID(context.Background(), "org_missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOrganizationDelete(t *testing.T) {
	db := openCatalog(t)
	orgs := NewOrganizationRepository(db)
	ctx := context.Background()

	org := testOrg("Acme", "acme")
	require.NoError(t, orgs.CreateWithOwner(ctx, org, testUser(org.ID, "ada@acme.test", models.RoleOrgOwner)))
	require.NoError(t, orgs.Delete(ctx, org.ID))

	got, err := orgs.GetByID(ctx, org.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepository(t *testing.T) {
	db := openCatalog(t)
	orgs := NewOrganizationRepository(db)
	users := NewUserRepository(db)
	ctx := context.Background()

	org := testOrg("Acme", "acme")
	owner := testUser(org.ID, "ada@acme.test", models.RoleOrgOwner)
	require.NoError(t, orgs.CreateWithOwner(ctx, org, owner))

	member := testUser(org.ID, "bob@acme.test", models.RoleMember)
	require.NoError(t, users.Create(ctx, member))

	err := users.Create(ctx, testUser(org.ID, "bob@acme.test", models.RoleMember))
	assert.ErrorIs(t, err, errors.ErrUserAlreadyExists)

	list, err := users.ListByOrganization(ctx, org.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	count, err := users.CountByOrganization(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, users.UpdateRole(ctx, member.ID, models.RoleOrgOwner, time.Now().Unix()))
	got, err := users.GetByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOrgOwner, got.Role)

	require.NoError(t, users.Delete(ctx, member.ID))
	got, err = users.GetByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPermissionRepository(t *testing.T) {
	db := openCatalog(t)
	perms := NewPermissionRepository(db)
	ctx := context.Background()

	require.NoError(t, perms.UpsertPermission(ctx, models.PermViewDashboard, "view the dashboard"))
	require.NoError(t, perms.UpsertPermission(ctx, models.PermPostJob, "post a job"))
	// Upserting an existing name keeps the original row.
	require.NoError(t, perms.UpsertPermission(ctx, models.PermViewDashboard, "changed"))

	dashboard, err := perms.GetByName(ctx, models.PermViewDashboard)
	require.NoError(t, err)
	require.NotNil(t, dashboard)
	assert.Equal(t, "view the dashboard", dashboard.Description)

	found, err := perms.GetByNames(ctx, []models.PermissionName{models.PermViewDashboard, models.PermPostJob, models.PermBanUser})
	require.NoError(t, err)
	assert.Len(t, found, 2, "unknown names are skipped")
}

func TestRolePermissionRoundTrip(t *testing.T) {
	db := openCatalog(t)
	perms := NewPermissionRepository(db)
	ctx := context.Background()

	require.NoError(t, perms.UpsertPermission(ctx, models.PermViewDashboard, ""))
	p, err := perms.GetByName(ctx, models.PermViewDashboard)
	require.NoError(t, err)

	require.NoError(t, perms.UpsertRolePermission(ctx, models.RoleMember, []string{p.ID}))

	rp, err := perms.GetRolePermission(ctx, models.RoleMember)
	require.NoError(t, err)
	require.NotNil(t, rp)
	assert.Equal(t, []string{p.ID}, rp.PermissionIDs)

	// Re-upserting replaces the grant set.
	require.NoError(t, perms.UpsertRolePermission(ctx, models.RoleMember, nil))
	rp, err = perms.GetRolePermission(ctx, models.RoleMember)
	require.NoError(t, err)
	assert.Empty(t, rp.PermissionIDs)

	missing, err := perms.GetRolePermission(ctx, models.RoleAdmin)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserPermissionGrantRevoke(t *testing.T) {
	db := openCatalog(t)
	perms := NewPermissionRepository(db)
	ctx := context.Background()

	require.NoError(t, perms.UpsertPermission(ctx, models.PermPostJob, ""))
	p, err := perms.GetByName(ctx, models.PermPostJob)
	require.NoError(t, err)

	require.NoError(t, perms.GrantUserPermission(ctx, "usr_1", p.ID))
	// Granting twice is a no-op, not an error.
	require.NoError(t, perms.GrantUserPermission(ctx, "usr_1", p.ID))

	overrides, err := perms.GetUserPermissions(ctx, "usr_1")
	require.NoError(t, err)
	require.Len(t, overrides, 1)
	assert.Equal(t, models.PermPostJob, overrides[0].Name)

	require.NoError(t, perms.RevokeUserPermission(ctx, "usr_1", p.ID))
	overrides, err = perms.GetUserPermissions(ctx, "usr_1")
	require.NoError(t, err)
	assert.Empty(t, overrides)
}

func TestCountRolePermissionsExcludesSuperAdmin(t *testing.T) {
	db := openCatalog(t)
	perms := NewPermissionRepository(db)
	ctx := context.Background()

	require.NoError(t, perms.UpsertRolePermission(ctx, models.RoleSuperAdmin, nil))
	require.NoError(t, perms.UpsertRolePermission(ctx, models.RoleOrgOwner, nil))
	require.NoError(t, perms.UpsertRolePermission(ctx, models.RoleMember, nil))

	count, err := perms.CountRolePermissions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
