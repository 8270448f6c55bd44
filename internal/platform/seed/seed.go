package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"workhive/internal/engine/permissions"
	"workhive/internal/platform/models"
	"workhive/internal/platform/repositories"
)

// Run seeds the permission catalog and the default role grants. Permissions
// are upserted before any role_permissions row references them, so every
// referenced permission id is guaranteed to exist. Run is idempotent and
// executed on every startup.
func Run(ctx context.Context, perms *repositories.PermissionRepository) error {
	names := permissions.AllPermissionNames()
	for _, name := range names {
		if err := perms.UpsertPermission(ctx, name, fmt.Sprintf("Permission for %s", name)); err != nil {
			return fmt.Errorf("seed permission %s: %w", name, err)
		}
	}
	log.Info().Int("count", len(names)).Msg("permission catalog seeded")

	for role, grants := range permissions.DefaultRoleGrants {
		resolved, err := perms.GetByNames(ctx, grants)
		if err != nil {
			return fmt.Errorf("resolve grants for role %s: %w", role, err)
		}

		ids := make([]string, 0, len(resolved))
		for _, p := range resolved {
			ids = append(ids, p.ID)
		}

		if err := perms.UpsertRolePermission(ctx, role, ids); err != nil {
			return fmt.Errorf("seed role %s: %w", role, err)
		}
	}
	log.Info().Int("roles", len(permissions.DefaultRoleGrants)).Msg("role grants seeded")

	return nil
}

// Roles returns the roles seeded with default grants; useful for tooling.
func Roles() []models.Role {
	roles := make([]models.Role, 0, len(permissions.DefaultRoleGrants))
	for role := range permissions.DefaultRoleGrants {
		roles = append(roles, role)
	}
	return roles
}
