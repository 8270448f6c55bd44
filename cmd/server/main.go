package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"workhive/internal/api"
	"workhive/internal/api/handlers"
	"workhive/internal/api/middleware"
	"workhive/internal/engine/permissions"
	"workhive/internal/engine/plans"
	"workhive/internal/engine/provisioning"
	"workhive/internal/pkg/logger"
	"workhive/internal/pkg/notify"
	"workhive/internal/platform/audit"
	"workhive/internal/platform/auth"
	"workhive/internal/platform/config"
	"workhive/internal/platform/database"
	"workhive/internal/platform/repositories"
	"workhive/internal/platform/seed"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init(cfg.Logging)

	// Catalog store (shared across all tenants)
	catalogDB, err := database.NewCatalogDB(cfg.Database.Catalog)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to catalog DB")
	}
	defer catalogDB.Close()

	if _, err := catalogDB.Exec(database.CatalogSchema); err != nil {
		log.Fatal().Err(err).Msg("failed to apply catalog schema")
	}

	catalogWrapper := database.NewCatalogDBWrapper(catalogDB)

	tenantDBPool := database.NewTenantDBPool(cfg.Database.Tenant)
	defer tenantDBPool.CloseAll()

	// Repositories
	orgRepo := repositories.NewOrganizationRepository(catalogDB)
	userRepo := repositories.NewUserRepository(catalogDB)
	permRepo := repositories.NewPermissionRepository(catalogDB)
	catalogStore := repositories.NewCatalogStore(orgRepo, userRepo)
	counter := repositories.NewResourceCounter(orgRepo, userRepo, permRepo, tenantDBPool)

	// Permission catalog must exist before any role or user references it.
	if err := seed.Run(context.Background(), permRepo); err != nil {
		log.Fatal().Err(err).Msg("failed to seed permission catalog")
	}

	// Services
	tokenSvc := auth.NewTokenService(cfg.JWT)
	auditLog := audit.NewLogger(catalogDB)
	notifier := notify.NewLogNotifier()
	resolver := permissions.NewResolver(permRepo)
	enforcer := plans.NewEnforcer(orgRepo, counter)
	tenantProvisioner := database.NewTenantProvisioner(cfg.Database.Tenant)
	orchestrator := provisioning.NewOrchestrator(catalogStore, tenantProvisioner, auditLog)

	// Handlers
	orgHandler := handlers.NewOrgHandler(orchestrator, orgRepo, tokenSvc, notifier)
	authHandler := handlers.NewAuthHandler(userRepo, tokenSvc)
	userHandler := handlers.NewUserHandler(userRepo, enforcer)
	permHandler := handlers.NewPermissionHandler(permRepo, userRepo, resolver)
	projectHandler := handlers.NewProjectHandler(enforcer)
	auditHandler := handlers.NewAuditHandler(auditLog)
	healthHandler := handlers.NewHealthHandler(catalogWrapper)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenSvc, userRepo)
	tenantMiddleware := middleware.NewTenantMiddleware(orgRepo, tenantDBPool)
	middleware.ConfigureRateLimits(cfg.RateLimit)

	deps := &api.Dependencies{
		OrgHandler:        orgHandler,
		AuthHandler:       authHandler,
		UserHandler:       userHandler,
		PermissionHandler: permHandler,
		ProjectHandler:    projectHandler,
		AuditHandler:      auditHandler,
		HealthHandler:     healthHandler,
		AuthMiddleware:    authMiddleware,
		TenantMiddleware:  tenantMiddleware,
		Resolver:          resolver,
	}
	router := api.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Info().Str("addr", addr).Msg("server starting")
	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
