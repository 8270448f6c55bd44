package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"workhive/internal/platform/database"
	"workhive/internal/platform/models"
)

type PermissionRepository struct {
	db *sql.DB
}

func NewPermissionRepository(db *sql.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// UpsertPermission inserts the permission if its name is not in the catalog
// yet. Permissions are seeded before any role or user row references them.
func (r *PermissionRepository) UpsertPermission(ctx context.Context, name models.PermissionName, description string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO permissions (id, name, description) VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, "perm_"+uuid.NewString(), name, description)
	return err
}

func (r *PermissionRepository) GetByNames(ctx context.Context, names []models.PermissionName) ([]models.Permission, error) {
	perms := make([]models.Permission, 0, len(names))
	for _, name := range names {
		p := models.Permission{}
		err := r.db.QueryRowContext(ctx, `
			SELECT id, name, COALESCE(description, '') FROM permissions WHERE name = ?
		`, name).Scan(&p.ID, &p.Name, &p.Description)
		if err != nil {
			if err == sql.ErrNoRows {
				continue
			}
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, nil
}

func (r *PermissionRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Permission, error) {
	perms := make([]models.Permission, 0, len(ids))
	for _, id := range ids {
		p := models.Permission{}
		err := r.db.QueryRowContext(ctx, `
			SELECT id, name, COALESCE(description, '') FROM permissions WHERE id = ?
		`, id).Scan(&p.ID, &p.Name, &p.Description)
		if err != nil {
			if err == sql.ErrNoRows {
				continue
			}
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, nil
}

func (r *PermissionRepository) GetByName(ctx context.Context, name models.PermissionName) (*models.Permission, error) {
	p := &models.Permission{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(description, '') FROM permissions WHERE name = ?
	`, name).Scan(&p.ID, &p.Name, &p.Description)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// UpsertRolePermission replaces the default grant set of a role. One record
// per role; the permission id set is stored JSON-encoded.
func (r *PermissionRepository) UpsertRolePermission(ctx context.Context, role models.Role, permissionIDs []string) error {
	encoded, err := json.Marshal(permissionIDs)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO role_permissions (role, permission_ids) VALUES (?, ?)
		ON CONFLICT(role) DO UPDATE SET permission_ids = excluded.permission_ids
	`, role, string(encoded))
	return err
}

// GetRolePermission returns nil without error when the role has no record;
// the resolver treats that as an empty base set.
func (r *PermissionRepository) GetRolePermission(ctx context.Context, role models.Role) (*models.RolePermission, error) {
	var encoded string
	err := r.db.QueryRowContext(ctx, `
		SELECT permission_ids FROM role_permissions WHERE role = ?
	`, role).Scan(&encoded)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rp := &models.RolePermission{Role: role}
	if err := json.Unmarshal([]byte(encoded), &rp.PermissionIDs); err != nil {
		return nil, err
	}
	return rp, nil
}

// CountRolePermissions counts role grant records, excluding the top
// administrative role which does not consume plan quota.
func (r *PermissionRepository) CountRolePermissions(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM role_permissions WHERE role != ?
	`, models.RoleSuperAdmin).Scan(&count)
	return count, err
}

// GrantUserPermission attaches a permission directly to a user. Granting an
// already-held override is a no-op thanks to the unique pair constraint.
func (r *PermissionRepository) GrantUserPermission(ctx context.Context, userID, permissionID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_permissions (id, user_id, permission_id, created_at) VALUES (?, ?, ?, ?)
	`, "uperm_"+uuid.NewString(), userID, permissionID, time.Now().Unix())
	if err != nil && database.IsUniqueViolation(err, "user_permissions") {
		return nil
	}
	return err
}

func (r *PermissionRepository) RevokeUserPermission(ctx context.Context, userID, permissionID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM user_permissions WHERE user_id = ? AND permission_id = ?
	`, userID, permissionID)
	return err
}

func (r *PermissionRepository) GetUserPermissions(ctx context.Context, userID string) ([]models.Permission, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.name, COALESCE(p.description, '')
		FROM user_permissions up
		JOIN permissions p ON p.id = up.permission_id
		WHERE up.user_id = ?
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []models.Permission
	for rows.Next() {
		p := models.Permission{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Description); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}
