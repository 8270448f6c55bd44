package permissions

import "workhive/internal/platform/models"

// DefaultRoleGrants is the default permission set for each role. It is seeded
// into role_permissions at startup; account-level overrides extend it per
// user at runtime.
var DefaultRoleGrants = map[models.Role][]models.PermissionName{
	models.RoleSuperAdmin: {
		models.PermViewDashboard,
		models.PermUpdateProfile,
		models.PermViewNotifications,
		models.PermViewWallet,
		models.PermAccessAdminPanel,
		models.PermViewAllUsers,
		models.PermBanUser,
		models.PermUnbanUser,
		models.PermVerifyUser,
		models.PermManageJobs,
		models.PermViewTransactions,
		models.PermManageDisputes,
		models.PermViewSiteStats,
		models.PermCreateDispute,
		models.PermViewDispute,
		models.PermResolveDispute,
		models.PermManageMembers,
		models.PermManageRoles,
		models.PermGrantPermission,
		models.PermCreateProject,
		models.PermCreateTask,
	},
	models.RoleOrgOwner: {
		models.PermViewDashboard,
		models.PermUpdateProfile,
		models.PermViewNotifications,
		models.PermViewWallet,
		models.PermViewAllUsers,
		models.PermPostJob,
		models.PermEditJob,
		models.PermDeleteJob,
		models.PermViewProposals,
		models.PermHireFreelancer,
		models.PermReviewFreelancer,
		models.PermCreateDispute,
		models.PermViewDispute,
		models.PermManageMembers,
		models.PermManageRoles,
		models.PermGrantPermission,
		models.PermCreateProject,
		models.PermCreateTask,
	},
	models.RoleMember: {
		models.PermViewDashboard,
		models.PermUpdateProfile,
		models.PermViewNotifications,
		models.PermViewWallet,
		models.PermViewProposals,
		models.PermCreateDispute,
		models.PermViewDispute,
		models.PermCreateTask,
	},

	// Legacy single-tenant roles.
	models.RoleAdmin: {
		models.PermViewDashboard,
		models.PermUpdateProfile,
		models.PermViewNotifications,
		models.PermViewWallet,
		models.PermAccessAdminPanel,
		models.PermViewAllUsers,
		models.PermBanUser,
		models.PermUnbanUser,
		models.PermVerifyUser,
		models.PermManageJobs,
		models.PermViewTransactions,
		models.PermManageDisputes,
		models.PermViewSiteStats,
		models.PermCreateDispute,
		models.PermViewDispute,
		models.PermResolveDispute,
	},
	models.RoleFreelancer: {
		models.PermViewDashboard,
		models.PermUpdateProfile,
		models.PermViewNotifications,
		models.PermViewWallet,
		models.PermBrowseJobs,
		models.PermSubmitProposal,
		models.PermWithdrawProposal,
		models.PermReviewClient,
		models.PermCreateDispute,
		models.PermViewDispute,
	},
	models.RoleCompany: {
		models.PermViewDashboard,
		models.PermUpdateProfile,
		models.PermViewNotifications,
		models.PermViewWallet,
		models.PermPostJob,
		models.PermEditJob,
		models.PermDeleteJob,
		models.PermViewProposals,
		models.PermHireFreelancer,
		models.PermReviewFreelancer,
		models.PermCreateDispute,
		models.PermViewDispute,
	},
}

// AllPermissionNames returns the deduplicated union of every role's grants.
// It is the full capability catalog the seeder writes.
func AllPermissionNames() []models.PermissionName {
	seen := make(map[models.PermissionName]struct{})
	var names []models.PermissionName
	for _, grants := range DefaultRoleGrants {
		for _, name := range grants {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}
