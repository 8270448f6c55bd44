package permissions

import (
	"context"

	"workhive/internal/platform/models"
)

// Store is the slice of the catalog the resolver reads.
type Store interface {
	GetRolePermission(ctx context.Context, role models.Role) (*models.RolePermission, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Permission, error)
	GetUserPermissions(ctx context.Context, userID string) ([]models.Permission, error)
}

// Set is a deduplicated permission set.
type Set map[models.PermissionName]struct{}

func (s Set) Has(name models.PermissionName) bool {
	_, ok := s[name]
	return ok
}

// HasAll is conjunctive: every required permission must be present.
func (s Set) HasAll(names ...models.PermissionName) bool {
	for _, name := range names {
		if !s.Has(name) {
			return false
		}
	}
	return true
}

func (s Set) Names() []models.PermissionName {
	names := make([]models.PermissionName, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	return names
}

type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve computes the effective permission set of a user: the role's default
// grants unioned with the user's individual overrides. A role with no grant
// record contributes an empty base set. The result reflects the catalog at
// call time; nothing is cached between requests.
func (r *Resolver) Resolve(ctx context.Context, user *models.User) (Set, error) {
	set := make(Set)

	rolePerm, err := r.store.GetRolePermission(ctx, user.Role)
	if err != nil {
		return nil, err
	}
	if rolePerm != nil {
		granted, err := r.store.GetByIDs(ctx, rolePerm.PermissionIDs)
		if err != nil {
			return nil, err
		}
		for _, p := range granted {
			set[p.Name] = struct{}{}
		}
	}

	overrides, err := r.store.GetUserPermissions(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for _, p := range overrides {
		set[p.Name] = struct{}{}
	}

	return set, nil
}
