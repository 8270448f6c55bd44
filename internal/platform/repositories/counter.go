package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"workhive/internal/platform/database"
)

// ResourceCounter implements plan-limit counting across both stores: members
// and role grants live in the catalog, projects and tasks in the tenant
// store reached through the pool.
type ResourceCounter struct {
	orgs  *OrganizationRepository
	users *UserRepository
	perms *PermissionRepository
	pool  *database.TenantDBPool
}

func NewResourceCounter(orgs *OrganizationRepository, users *UserRepository, perms *PermissionRepository, pool *database.TenantDBPool) *ResourceCounter {
	return &ResourceCounter{orgs: orgs, users: users, perms: perms, pool: pool}
}

func (c *ResourceCounter) CountMembers(ctx context.Context, orgID string) (int, error) {
	return c.users.CountByOrganization(ctx, orgID)
}

func (c *ResourceCounter) CountRoles(ctx context.Context, orgID string) (int, error) {
	return c.perms.CountRolePermissions(ctx)
}

func (c *ResourceCounter) CountProjects(ctx context.Context, orgID string) (int, error) {
	db, err := c.tenantDB(ctx, orgID)
	if err != nil {
		return 0, err
	}
	var count int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&count)
	return count, err
}

func (c *ResourceCounter) CountTasks(ctx context.Context, orgID, projectID string) (int, error) {
	db, err := c.tenantDB(ctx, orgID)
	if err != nil {
		return 0, err
	}
	var count int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE project_id = ?`, projectID).Scan(&count)
	return count, err
}

func (c *ResourceCounter) tenantDB(ctx context.Context, orgID string) (*sql.DB, error) {
	org, err := c.orgs.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, fmt.Errorf("organization %s not found", orgID)
	}
	return c.pool.Get(org.ID, org.TenantDBPath)
}
