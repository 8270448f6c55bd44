package provisioning

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"workhive/internal/pkg/errors"
	"workhive/internal/platform/models"
)

// Catalog is the slice of the shared catalog store the orchestrator writes.
// CreateOrganizationWithOwner must be atomic and translate uniqueness
// violations into ErrDuplicateSubdomain / ErrUserAlreadyExists.
type Catalog interface {
	CreateOrganizationWithOwner(ctx context.Context, org *models.Organization, owner *models.User) error
	DeleteUser(ctx context.Context, id string) error
	DeleteOrganization(ctx context.Context, id string) error
}

// TenantProvisioner creates the isolated per-organization store.
type TenantProvisioner interface {
	Path(tenantID string) string
	Provision(ctx context.Context, org *models.Organization) error
}

// Recorder receives provisioning outcomes for the audit trail. May be nil.
type Recorder interface {
	Record(ctx context.Context, action, resourceType, resourceID string, metadata map[string]interface{})
}

type RegisterRequest struct {
	OrganizationName string
	Subdomain        string
	PlanTier         models.PlanTier
	AdminEmail       string
	AdminPassword    string
	AdminFullName    string
}

type Result struct {
	Organization *models.Organization `json:"organization"`
	User         *models.User         `json:"user"`
}

// Orchestrator runs organization registration as a two-phase saga: a single
// catalog transaction (organization + first user), then tenant store
// provisioning, with explicit compensation of the catalog writes when the
// tenant phase fails. The two stores share no transaction; the org-row/
// tenant-store invariant is maintained here.
type Orchestrator struct {
	catalog  Catalog
	tenants  TenantProvisioner
	recorder Recorder

	// unresolved maps subdomain -> organization id for attempts whose
	// rollback failed. Retries are rejected until an operator resolves the
	// orphaned catalog rows.
	unresolved sync.Map
}

func NewOrchestrator(catalog Catalog, tenants TenantProvisioner, recorder Recorder) *Orchestrator {
	return &Orchestrator{
		catalog:  catalog,
		tenants:  tenants,
		recorder: recorder,
	}
}

// Provision registers an organization together with its first administrative
// user. On success the catalog rows and the tenant store both exist; on any
// failure neither does, unless the returned error reports a failed rollback.
func (o *Orchestrator) Provision(ctx context.Context, req RegisterRequest) (*Result, error) {
	subdomain := strings.ToLower(strings.TrimSpace(req.Subdomain))

	if orgID, ok := o.unresolved.Load(subdomain); ok {
		log.Warn().Str("subdomain", subdomain).Str("org_id", orgID.(string)).
			Msg("registration rejected: unresolved rollback failure")
		return nil, errors.ErrProvisioningUnresolved
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, &errors.ProvisioningError{Phase: errors.PhaseCatalog, Err: err}
	}

	plan := req.PlanTier
	if !plan.Valid() {
		plan = models.PlanWorkerBee
	}

	now := time.Now().Unix()
	org := &models.Organization{
		ID:           "org_" + uuid.NewString(),
		Name:         req.OrganizationName,
		Subdomain:    subdomain,
		TenantDBPath: o.tenants.Path(TenantID(req.OrganizationName)),
		PlanTier:     plan,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// First user of this organization. The catalog promotes it to
	// SUPER_ADMIN instead when the whole catalog is still empty.
	owner := &models.User{
		ID:             "usr_" + uuid.NewString(),
		OrganizationID: org.ID,
		Email:          strings.ToLower(strings.TrimSpace(req.AdminEmail)),
		PasswordHash:   string(hashed),
		FullName:       req.AdminFullName,
		Role:           models.RoleOrgOwner,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	comp := &compensationLog{}

	if err := o.catalog.CreateOrganizationWithOwner(ctx, org, owner); err != nil {
		if stderrors.Is(err, errors.ErrDuplicateSubdomain) || stderrors.Is(err, errors.ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, &errors.ProvisioningError{Phase: errors.PhaseCatalog, Err: err}
	}
	// Reverse order puts the dependent user row first.
	comp.push("delete organization "+org.ID, func(ctx context.Context) error {
		return o.catalog.DeleteOrganization(ctx, org.ID)
	})
	comp.push("delete user "+owner.ID, func(ctx context.Context) error {
		return o.catalog.DeleteUser(ctx, owner.ID)
	})

	if err := o.tenants.Provision(ctx, org); err != nil {
		return nil, o.compensate(ctx, org, comp, err)
	}

	o.record(ctx, "organization.provisioned", org, map[string]interface{}{
		"subdomain": org.Subdomain,
		"tenant_db": org.TenantDBPath,
		"owner_id":  owner.ID,
	})

	return &Result{Organization: org, User: owner}, nil
}

// ResolveFailure clears the unresolved-rollback state for a subdomain after
// an operator has removed the orphaned catalog rows. Registration for that
// subdomain is accepted again afterwards.
func (o *Orchestrator) ResolveFailure(subdomain string) {
	o.unresolved.Delete(strings.ToLower(strings.TrimSpace(subdomain)))
}

func (o *Orchestrator) compensate(ctx context.Context, org *models.Organization, comp *compensationLog, cause error) error {
	results := comp.execute(ctx)

	var rollbackErrs []error
	for _, res := range results {
		if res.Err != nil {
			rollbackErrs = append(rollbackErrs, fmt.Errorf("%s: %w", res.Name, res.Err))
			log.Error().Err(res.Err).Str("action", res.Name).Str("org_id", org.ID).
				Msg("compensation action failed")
		} else {
			log.Info().Str("action", res.Name).Str("org_id", org.ID).
				Msg("compensation action applied")
		}
	}

	if len(rollbackErrs) > 0 {
		o.unresolved.Store(org.Subdomain, org.ID)
		o.record(ctx, "organization.provisioning_rollback_failed", org, map[string]interface{}{
			"cause":    cause.Error(),
			"rollback": stderrors.Join(rollbackErrs...).Error(),
		})
		return &errors.ProvisioningError{
			Phase:          errors.PhaseTenant,
			OrganizationID: org.ID,
			RolledBack:     false,
			Err:            cause,
			RollbackErr:    stderrors.Join(rollbackErrs...),
		}
	}

	o.record(ctx, "organization.provisioning_rolled_back", org, map[string]interface{}{
		"cause": cause.Error(),
	})
	return &errors.ProvisioningError{
		Phase:          errors.PhaseTenant,
		OrganizationID: org.ID,
		RolledBack:     true,
		Err:            cause,
	}
}

func (o *Orchestrator) record(ctx context.Context, action string, org *models.Organization, metadata map[string]interface{}) {
	if o.recorder == nil {
		return
	}
	o.recorder.Record(ctx, action, "organization", org.ID, metadata)
}
