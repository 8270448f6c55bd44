package plans

import (
	"context"
	"fmt"

	"workhive/internal/pkg/errors"
	"workhive/internal/platform/models"
)

// Resource kinds subject to plan quotas.
type Resource string

const (
	ResourceMembers  Resource = "members"
	ResourceRoles    Resource = "roles"
	ResourceProjects Resource = "projects"
	ResourceTasks    Resource = "tasks"
)

// Unlimited marks a quota with no ceiling.
const Unlimited = -1

type Quota struct {
	MaxMembersPerOrg   int
	MaxRolesPerOrg     int
	MaxProjectsPerOrg  int
	MaxTasksPerProject int
}

func (q Quota) For(resource Resource) int {
	switch resource {
	case ResourceMembers:
		return q.MaxMembersPerOrg
	case ResourceRoles:
		return q.MaxRolesPerOrg
	case ResourceProjects:
		return q.MaxProjectsPerOrg
	case ResourceTasks:
		return q.MaxTasksPerProject
	}
	return 0
}

// PlanLimits is the static quota table keyed by subscription tier.
var PlanLimits = map[models.PlanTier]Quota{
	models.PlanWorkerBee: {
		MaxMembersPerOrg:   10,
		MaxRolesPerOrg:     3,
		MaxProjectsPerOrg:  10,
		MaxTasksPerProject: 50,
	},
	models.PlanHoneyComb: {
		MaxMembersPerOrg:   50,
		MaxRolesPerOrg:     8,
		MaxProjectsPerOrg:  15,
		MaxTasksPerProject: 100,
	},
	models.PlanQueenHive: {
		MaxMembersPerOrg:   Unlimited,
		MaxRolesPerOrg:     Unlimited,
		MaxProjectsPerOrg:  25,
		MaxTasksPerProject: 200,
	},
}

// OrgStore loads the organization whose plan is being checked.
type OrgStore interface {
	GetByID(ctx context.Context, id string) (*models.Organization, error)
}

// Counter reports current resource counts scoped to an organization.
type Counter interface {
	CountMembers(ctx context.Context, orgID string) (int, error)
	CountRoles(ctx context.Context, orgID string) (int, error)
	CountProjects(ctx context.Context, orgID string) (int, error)
	CountTasks(ctx context.Context, orgID, projectID string) (int, error)
}

// Enforcer compares current resource counts against the plan quota table.
// The count and the subsequent create are separate statements; two concurrent
// requests can both pass and jointly exceed the quota by one. That race is
// accepted and documented, not locked away.
type Enforcer struct {
	orgs    OrgStore
	counter Counter
}

func NewEnforcer(orgs OrgStore, counter Counter) *Enforcer {
	return &Enforcer{orgs: orgs, counter: counter}
}

// CheckLimit fails with PlanLimitError when count >= quota for the resource.
// An Unlimited quota always passes.
func (e *Enforcer) CheckLimit(ctx context.Context, orgID string, resource Resource) error {
	if resource == ResourceTasks {
		return fmt.Errorf("task limits are scoped to a project, use CheckTaskLimit")
	}

	quota, err := e.quotaFor(ctx, orgID, resource)
	if err != nil {
		return err
	}
	if quota == Unlimited {
		return nil
	}

	var count int
	switch resource {
	case ResourceMembers:
		count, err = e.counter.CountMembers(ctx, orgID)
	case ResourceRoles:
		count, err = e.counter.CountRoles(ctx, orgID)
	case ResourceProjects:
		count, err = e.counter.CountProjects(ctx, orgID)
	}
	if err != nil {
		return err
	}

	if count >= quota {
		return &errors.PlanLimitError{Resource: string(resource), Limit: quota}
	}
	return nil
}

// CheckTaskLimit enforces the per-project task quota.
func (e *Enforcer) CheckTaskLimit(ctx context.Context, orgID, projectID string) error {
	quota, err := e.quotaFor(ctx, orgID, ResourceTasks)
	if err != nil {
		return err
	}
	if quota == Unlimited {
		return nil
	}

	count, err := e.counter.CountTasks(ctx, orgID, projectID)
	if err != nil {
		return err
	}

	if count >= quota {
		return &errors.PlanLimitError{Resource: string(ResourceTasks), Limit: quota}
	}
	return nil
}

func (e *Enforcer) quotaFor(ctx context.Context, orgID string, resource Resource) (int, error) {
	org, err := e.orgs.GetByID(ctx, orgID)
	if err != nil {
		return 0, err
	}
	if org == nil {
		return 0, fmt.Errorf("organization %s not found", orgID)
	}

	quota, ok := PlanLimits[org.PlanTier]
	if !ok {
		return 0, fmt.Errorf("unknown plan tier %q", org.PlanTier)
	}
	return quota.For(resource), nil
}
