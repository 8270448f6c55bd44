package repositories

import (
	"context"

	"workhive/internal/platform/models"
)

// CatalogStore groups the organization and user repositories behind the
// narrow surface the provisioning orchestrator needs.
type CatalogStore struct {
	orgs  *OrganizationRepository
	users *UserRepository
}

func NewCatalogStore(orgs *OrganizationRepository, users *UserRepository) *CatalogStore {
	return &CatalogStore{orgs: orgs, users: users}
}

func (s *CatalogStore) CreateOrganizationWithOwner(ctx context.Context, org *models.Organization, owner *models.User) error {
	return s.orgs.CreateWithOwner(ctx, org, owner)
}

func (s *CatalogStore) DeleteUser(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

func (s *CatalogStore) DeleteOrganization(ctx context.Context, id string) error {
	return s.orgs.Delete(ctx, id)
}
