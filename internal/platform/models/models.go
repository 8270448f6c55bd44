package models

// Role is the closed set of roles a user can hold. SUPER_ADMIN, ORG_OWNER and
// MEMBER belong to the multi-tenant scheme; ADMIN, FREELANCER and COMPANY are
// the legacy per-user-type roles kept for older single-tenant deployments.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleOrgOwner   Role = "ORG_OWNER"
	RoleMember     Role = "MEMBER"

	RoleAdmin      Role = "ADMIN"
	RoleFreelancer Role = "FREELANCER"
	RoleCompany    Role = "COMPANY"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleOrgOwner, RoleMember, RoleAdmin, RoleFreelancer, RoleCompany:
		return true
	}
	return false
}

// Administrative roles bypass resource-ownership checks.
func (r Role) Administrative() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// PermissionName identifies a capability in the permission catalog.
type PermissionName string

const (
	// General
	PermViewDashboard     PermissionName = "VIEW_DASHBOARD"
	PermUpdateProfile     PermissionName = "UPDATE_PROFILE"
	PermViewNotifications PermissionName = "VIEW_NOTIFICATIONS"
	PermViewWallet        PermissionName = "VIEW_WALLET"

	// Admin / moderation
	PermAccessAdminPanel PermissionName = "ACCESS_ADMIN_PANEL"
	PermViewAllUsers     PermissionName = "VIEW_ALL_USERS"
	PermBanUser          PermissionName = "BAN_USER"
	PermUnbanUser        PermissionName = "UNBAN_USER"
	PermVerifyUser       PermissionName = "VERIFY_USER"
	PermManageJobs       PermissionName = "MANAGE_JOBS"
	PermViewTransactions PermissionName = "VIEW_TRANSACTIONS"
	PermManageDisputes   PermissionName = "MANAGE_DISPUTES"
	PermViewSiteStats    PermissionName = "VIEW_SITE_STATS"

	// Client side
	PermPostJob          PermissionName = "POST_JOB"
	PermEditJob          PermissionName = "EDIT_JOB"
	PermDeleteJob        PermissionName = "DELETE_JOB"
	PermViewProposals    PermissionName = "VIEW_PROPOSALS"
	PermHireFreelancer   PermissionName = "HIRE_FREELANCER"
	PermReviewFreelancer PermissionName = "REVIEW_FREELANCER"

	// Freelancer side
	PermBrowseJobs       PermissionName = "BROWSE_JOBS"
	PermSubmitProposal   PermissionName = "SUBMIT_PROPOSAL"
	PermWithdrawProposal PermissionName = "WITHDRAW_PROPOSAL"
	PermReviewClient     PermissionName = "REVIEW_CLIENT"

	// Disputes
	PermCreateDispute  PermissionName = "CREATE_DISPUTE"
	PermViewDispute    PermissionName = "VIEW_DISPUTE"
	PermResolveDispute PermissionName = "RESOLVE_DISPUTE"

	// Organization management
	PermManageMembers   PermissionName = "MANAGE_MEMBERS"
	PermManageRoles     PermissionName = "MANAGE_ROLES"
	PermGrantPermission PermissionName = "GRANT_PERMISSION"
	PermCreateProject   PermissionName = "CREATE_PROJECT"
	PermCreateTask      PermissionName = "CREATE_TASK"
)

// PlanTier is the subscription level of an organization.
type PlanTier string

const (
	PlanWorkerBee PlanTier = "WORKER_BEE"
	PlanHoneyComb PlanTier = "HONEY_COMB"
	PlanQueenHive PlanTier = "QUEEN_HIVE"
)

func (p PlanTier) Valid() bool {
	switch p {
	case PlanWorkerBee, PlanHoneyComb, PlanQueenHive:
		return true
	}
	return false
}

type Organization struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Subdomain    string   `json:"subdomain"`
	TenantDBPath string   `json:"tenant_db_path"`
	PlanTier     PlanTier `json:"plan_tier"`
	CreatedAt    int64    `json:"created_at"`
	UpdatedAt    int64    `json:"updated_at"`
}

type User struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	Email          string `json:"email"`
	PasswordHash   string `json:"-"`
	FullName       string `json:"full_name"`
	Role           Role   `json:"role"`
	// Type is the legacy single-tenant discriminator
	// (FREELANCER / COMPANY / ADMIN). Empty for multi-tenant accounts.
	Type      string `json:"type,omitempty"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`

	Organization *Organization `json:"organization,omitempty"`
}

type Permission struct {
	ID          string         `json:"id"`
	Name        PermissionName `json:"name"`
	Description string         `json:"description,omitempty"`
}

// RolePermission maps a role to the permission ids it grants by default.
// At most one record exists per role.
type RolePermission struct {
	Role          Role     `json:"role"`
	PermissionIDs []string `json:"permission_ids"`
}

// UserPermission is a permission granted directly to a user, independent of
// its role. The (UserID, PermissionID) pair is unique.
type UserPermission struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	PermissionID string `json:"permission_id"`
	CreatedAt    int64  `json:"created_at"`
}

// Project lives in the organization's tenant store.
type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedBy string `json:"created_by"`
	CreatedAt int64  `json:"created_at"`
}

// Task lives in the organization's tenant store, under a project.
type Task struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`
	CreatedBy string `json:"created_by"`
	CreatedAt int64  `json:"created_at"`
}
