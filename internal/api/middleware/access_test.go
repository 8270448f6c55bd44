package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiContext "workhive/internal/api/context"
	"workhive/internal/engine/permissions"
	"workhive/internal/platform/models"
)

type fakePermStore struct {
	roleGrants map[models.Role][]models.PermissionName
	overrides  map[string][]models.PermissionName
}

func (s *fakePermStore) GetRolePermission(ctx context.Context, role models.Role) (*models.RolePermission, error) {
	grants, ok := s.roleGrants[role]
	if !ok {
		return nil, nil
	}
	ids := make([]string, len(grants))
	for i, name := range grants {
		ids[i] = string(name)
	}
	return &models.RolePermission{Role: role, PermissionIDs: ids}, nil
}

func (s *fakePermStore) GetByIDs(ctx context.Context, ids []string) ([]models.Permission, error) {
	perms := make([]models.Permission, len(ids))
	for i, id := range ids {
		perms[i] = models.Permission{ID: id, Name: models.PermissionName(id)}
	}
	return perms, nil
}

func (s *fakePermStore) GetUserPermissions(ctx context.Context, userID string) ([]models.Permission, error) {
	var perms []models.Permission
	for _, name := range s.overrides[userID] {
		perms = append(perms, models.Permission{ID: string(name), Name: name})
	}
	return perms, nil
}

func requestWithUser(user *models.User) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if user == nil {
		return req
	}
	ctx := context.WithValue(req.Context(), apiContext.CurrentUser, user)
	return req.WithContext(ctx)
}

func okHandler(called *bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	}
}

func TestRequireRoleAllows(t *testing.T) {
	var called bool
	handler := RequireRole(models.RoleOrgOwner, models.RoleSuperAdmin)(okHandler(&called))

	rec := httptest.NewRecorder()
	handler(rec, requestWithUser(&models.User{ID: "usr_1", Role: models.RoleOrgOwner}))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleForbids(t *testing.T) {
	var called bool
	handler := RequireRole(models.RoleOrgOwner)(okHandler(&called))

	rec := httptest.NewRecorder()
	handler(rec, requestWithUser(&models.User{ID: "usr_1", Role: models.RoleMember}))

	assert.False(t, called, "later stages must not run")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleWithoutPrincipal(t *testing.T) {
	var called bool
	handler := RequireRole(models.RoleOrgOwner)(okHandler(&called))

	rec := httptest.NewRecorder()
	handler(rec, requestWithUser(nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequirePermissionAllows(t *testing.T) {
	resolver := permissions.NewResolver(&fakePermStore{
		roleGrants: map[models.Role][]models.PermissionName{
			models.RoleMember: {models.PermViewDashboard},
		},
		overrides: map[string][]models.PermissionName{
			"usr_1": {models.PermPostJob},
		},
	})

	var called bool
	handler := RequirePermission(resolver, models.PermViewDashboard, models.PermPostJob)(okHandler(&called))

	rec := httptest.NewRecorder()
	handler(rec, requestWithUser(&models.User{ID: "usr_1", Role: models.RoleMember}))

	assert.True(t, called)
}

func TestRequirePermissionIsConjunctive(t *testing.T) {
	resolver := permissions.NewResolver(&fakePermStore{
		roleGrants: map[models.Role][]models.PermissionName{
			models.RoleMember: {models.PermViewDashboard, models.PermBrowseJobs},
		},
	})

	// Two of three requirements held: denied.
	var called bool
	handler := RequirePermission(resolver,
		models.PermViewDashboard, models.PermBrowseJobs, models.PermPostJob,
	)(okHandler(&called))

	rec := httptest.NewRecorder()
	handler(rec, requestWithUser(&models.User{ID: "usr_1", Role: models.RoleMember}))

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequirePermissionMissingRoleRecord(t *testing.T) {
	resolver := permissions.NewResolver(&fakePermStore{})

	var called bool
	handler := RequirePermission(resolver, models.PermViewDashboard)(okHandler(&called))

	rec := httptest.NewRecorder()
	handler(rec, requestWithUser(&models.User{ID: "usr_1", Role: models.RoleMember}))

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func ownershipRequest(user *models.User, paramID string) *http.Request {
	req := requestWithUser(user)
	params := httprouter.Params{{Key: "id", Value: paramID}}
	return req.WithContext(context.WithValue(req.Context(), apiContext.Params, params))
}

func TestRequireOwnershipAllowsOwner(t *testing.T) {
	var called bool
	handler := RequireOwnership("id")(okHandler(&called))

	rec := httptest.NewRecorder()
	handler(rec, ownershipRequest(&models.User{ID: "usr_1", Role: models.RoleMember}, "usr_1"))

	assert.True(t, called)
}

func TestRequireOwnershipDeniesOtherUser(t *testing.T) {
	var called bool
	handler := RequireOwnership("id")(okHandler(&called))

	rec := httptest.NewRecorder()
	handler(rec, ownershipRequest(&models.User{ID: "usr_1", Role: models.RoleMember}, "usr_2"))

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireOwnershipAdministrativeBypass(t *testing.T) {
	for _, role := range []models.Role{models.RoleSuperAdmin, models.RoleAdmin} {
		var called bool
		handler := RequireOwnership("id")(okHandler(&called))

		rec := httptest.NewRecorder()
		handler(rec, ownershipRequest(&models.User{ID: "usr_1", Role: role}, "usr_2"))

		require.True(t, called, "role %s should bypass ownership", role)
	}
}
