package repositories

import (
	"context"
	"database/sql"

	"workhive/internal/pkg/errors"
	"workhive/internal/platform/database"
	"workhive/internal/platform/models"
)

type OrganizationRepository struct {
	db *sql.DB
}

func NewOrganizationRepository(db *sql.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// CreateWithOwner creates the organization and its first user in a single
// catalog transaction. The subdomain and email UNIQUE constraints are the
// duplicate check; violations are translated, not pre-read. If this is the
// first user in the entire catalog the owner is promoted to SUPER_ADMIN,
// overriding whatever role was requested.
func (r *OrganizationRepository) CreateWithOwner(ctx context.Context, org *models.Organization, owner *models.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var userCount int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&userCount); err != nil {
		return err
	}
	if userCount == 0 {
		owner.Role = models.RoleSuperAdmin
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO organizations (id, name, subdomain, tenant_db_path, plan_tier, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, org.ID, org.Name, org.Subdomain, org.TenantDBPath, org.PlanTier, org.CreatedAt, org.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "organizations.subdomain") {
			return errors.ErrDuplicateSubdomain
		}
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, organization_id, email, password_hash, full_name, role, type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, owner.ID, owner.OrganizationID, owner.Email, owner.PasswordHash, owner.FullName, owner.Role, owner.Type, owner.CreatedAt, owner.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "users.email") {
			return errors.ErrUserAlreadyExists
		}
		return err
	}

	return tx.Commit()
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	org := &models.Organization{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, subdomain, tenant_db_path, plan_tier, created_at, updated_at
		FROM organizations WHERE id = ?
	`, id).Scan(&org.ID, &org.Name, &org.Subdomain, &org.TenantDBPath, &org.PlanTier, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return org, nil
}

func (r *OrganizationRepository) GetBySubdomain(ctx context.Context, subdomain string) (*models.Organization, error) {
	org := &models.Organization{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, subdomain, tenant_db_path, plan_tier, created_at, updated_at
		FROM organizations WHERE subdomain = ?
	`, subdomain).Scan(&org.ID, &org.Name, &org.Subdomain, &org.TenantDBPath, &org.PlanTier, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return org, nil
}

// Delete removes an organization row. Used only by provisioning compensation;
// organizations are never deleted through a user-facing operation.
func (r *OrganizationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM organizations WHERE id = ?`, id)
	return err
}

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, organization_id, email, password_hash, full_name, role, type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, user.ID, user.OrganizationID, user.Email, user.PasswordHash, user.FullName, user.Role, user.Type, user.CreatedAt, user.UpdatedAt)
	if err != nil && database.IsUniqueViolation(err, "users.email") {
		return errors.ErrUserAlreadyExists
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, organization_id, email, password_hash, full_name, role, COALESCE(type, ''), created_at, updated_at
		FROM users WHERE id = ?
	`, id).Scan(&user.ID, &user.OrganizationID, &user.Email, &user.PasswordHash, &user.FullName, &user.Role, &user.Type, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, organization_id, email, password_hash, full_name, role, COALESCE(type, ''), created_at, updated_at
		FROM users WHERE email = ?
	`, email).Scan(&user.ID, &user.OrganizationID, &user.Email, &user.PasswordHash, &user.FullName, &user.Role, &user.Type, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) ListByOrganization(ctx context.Context, orgID string) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, organization_id, email, password_hash, full_name, role, COALESCE(type, ''), created_at, updated_at
		FROM users WHERE organization_id = ? ORDER BY created_at
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.OrganizationID, &user.Email, &user.PasswordHash, &user.FullName, &user.Role, &user.Type, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) CountByOrganization(ctx context.Context, orgID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE organization_id = ?`, orgID).Scan(&count)
	return count, err
}

func (r *UserRepository) UpdateRole(ctx context.Context, userID string, role models.Role, updatedAt int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET role = ?, updated_at = ? WHERE id = ?`, role, updatedAt, userID)
	return err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string, updatedAt int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`, passwordHash, updatedAt, userID)
	return err
}

// Delete removes a user row. Used by provisioning compensation (dependent
// row first) and by owner-initiated member removal.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return err
}
