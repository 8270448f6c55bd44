package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "workhive/internal/api/context"
	"workhive/internal/api/handlers"
	"workhive/internal/api/middleware"
	"workhive/internal/engine/permissions"
	"workhive/internal/platform/models"
)

type Dependencies struct {
	OrgHandler        *handlers.OrgHandler
	AuthHandler       *handlers.AuthHandler
	UserHandler       *handlers.UserHandler
	PermissionHandler *handlers.PermissionHandler
	ProjectHandler    *handlers.ProjectHandler
	AuditHandler      *handlers.AuditHandler
	HealthHandler     *handlers.HealthHandler
	AuthMiddleware    *middleware.AuthMiddleware
	TenantMiddleware  *middleware.TenantMiddleware
	Resolver          *permissions.Resolver
}

// NewRouter declares, per route, the gate stage sequence it requires:
// authenticate, then role check, then permission check, then ownership where
// the route addresses a specific resource.
func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	router.GET("/health", wrap(deps.HealthHandler.Check))

	authMid := deps.AuthMiddleware
	tenantMid := deps.TenantMiddleware
	resolver := deps.Resolver

	managerRoles := []models.Role{models.RoleSuperAdmin, models.RoleOrgOwner, models.RoleAdmin}

	// Registration and authentication
	router.POST("/api/v1/organizations",
		chain(deps.OrgHandler.Register, middleware.RateLimit("api_write")))
	router.POST("/api/v1/auth/login", wrap(deps.AuthHandler.Login))
	router.GET("/api/v1/auth/me",
		chain(deps.AuthHandler.Me, authMid.Handle))
	router.POST("/api/v1/auth/change-password",
		chain(deps.AuthHandler.ChangePassword, authMid.Handle, middleware.RateLimit("api_write")))

	// Organization
	router.GET("/api/v1/organizations/current",
		chain(deps.OrgHandler.GetCurrent, authMid.Handle, tenantMid.Handle))

	// Members
	router.GET("/api/v1/users",
		chain(deps.UserHandler.List,
			authMid.Handle, tenantMid.Handle,
			middleware.RequireRole(managerRoles...),
			middleware.RequirePermission(resolver, models.PermViewAllUsers)))
	router.POST("/api/v1/users",
		chain(deps.UserHandler.CreateMember,
			authMid.Handle, tenantMid.Handle,
			middleware.RequireRole(managerRoles...),
			middleware.RequirePermission(resolver, models.PermManageMembers),
			middleware.RateLimit("api_write")))
	router.GET("/api/v1/users/:user_id",
		chain(deps.UserHandler.Get,
			authMid.Handle, tenantMid.Handle,
			middleware.RequireOwnership("user_id")))
	router.PATCH("/api/v1/users/:user_id/role",
		chain(deps.UserHandler.UpdateRole,
			authMid.Handle, tenantMid.Handle,
			middleware.RequireRole(models.RoleSuperAdmin, models.RoleOrgOwner),
			middleware.RequirePermission(resolver, models.PermManageRoles)))

	// Permission overrides
	router.GET("/api/v1/users/:user_id/permissions",
		chain(deps.PermissionHandler.ListEffective,
			authMid.Handle, tenantMid.Handle,
			middleware.RequireRole(managerRoles...)))
	router.POST("/api/v1/users/:user_id/permissions",
		chain(deps.PermissionHandler.Grant,
			authMid.Handle, tenantMid.Handle,
			middleware.RequireRole(models.RoleSuperAdmin, models.RoleOrgOwner),
			middleware.RequirePermission(resolver, models.PermGrantPermission)))
	router.DELETE("/api/v1/users/:user_id/permissions/:permission",
		chain(deps.PermissionHandler.Revoke,
			authMid.Handle, tenantMid.Handle,
			middleware.RequireRole(models.RoleSuperAdmin, models.RoleOrgOwner),
			middleware.RequirePermission(resolver, models.PermGrantPermission)))

	// Projects and tasks (tenant store)
	router.POST("/api/v1/projects",
		chain(deps.ProjectHandler.Create,
			authMid.Handle, tenantMid.Handle,
			middleware.RequirePermission(resolver, models.PermCreateProject),
			middleware.RateLimit("api_write")))
	router.GET("/api/v1/projects",
		chain(deps.ProjectHandler.List, authMid.Handle, tenantMid.Handle))
	router.POST("/api/v1/projects/:project_id/tasks",
		chain(deps.ProjectHandler.CreateTask,
			authMid.Handle, tenantMid.Handle,
			middleware.RequirePermission(resolver, models.PermCreateTask),
			middleware.RateLimit("api_write")))

	// Audit trail
	router.GET("/api/v1/audit-logs",
		chain(deps.AuditHandler.List,
			authMid.Handle, tenantMid.Handle,
			middleware.RequireRole(managerRoles...),
			middleware.RequirePermission(resolver, models.PermViewSiteStats)))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
