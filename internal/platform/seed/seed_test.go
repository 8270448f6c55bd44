package seed

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workhive/internal/engine/permissions"
	"workhive/internal/platform/database"
	"workhive/internal/platform/repositories"
)

func seededRepo(t *testing.T) (*repositories.PermissionRepository, context.Context) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	_, err = db.Exec(database.CatalogSchema)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	perms := repositories.NewPermissionRepository(db)
	require.NoError(t, Run(ctx, perms))
	return perms, ctx
}

func TestRunSeedsEveryRoleGrant(t *testing.T) {
	perms, ctx := seededRepo(t)

	for role, grants := range permissions.DefaultRoleGrants {
		rp, err := perms.GetRolePermission(ctx, role)
		require.NoError(t, err)
		require.NotNil(t, rp, "role %s must have a grant record", role)
		assert.Len(t, rp.PermissionIDs, len(grants), "role %s", role)

		// Every referenced permission id resolves: permissions were
		// upserted before the role record referenced them.
		resolved, err := perms.GetByIDs(ctx, rp.PermissionIDs)
		require.NoError(t, err)
		assert.Len(t, resolved, len(rp.PermissionIDs), "role %s references a missing permission", role)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	perms, ctx := seededRepo(t)

	before, err := perms.GetRolePermission(ctx, Roles()[0])
	require.NoError(t, err)

	require.NoError(t, Run(ctx, perms))

	after, err := perms.GetRolePermission(ctx, Roles()[0])
	require.NoError(t, err)
	assert.ElementsMatch(t, before.PermissionIDs, after.PermissionIDs)
}
