package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"

	"workhive/internal/platform/config"
	"workhive/internal/platform/database"
	"workhive/internal/platform/repositories"
	"workhive/internal/platform/seed"
)

func main() {
	target := flag.String("target", "catalog", "Migration target: catalog or tenant")
	orgID := flag.String("org", "", "Organization ID (required for tenant migrations)")
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	runSeed := flag.Bool("seed", true, "Seed the permission catalog after catalog migration")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	switch *target {
	case "catalog":
		db, err := database.NewCatalogDB(cfg.Database.Catalog)
		if err != nil {
			log.Fatalf("Failed to connect to catalog DB: %v", err)
		}
		defer db.Close()

		if _, err := db.Exec(database.CatalogSchema); err != nil {
			log.Fatalf("Failed to apply catalog schema: %v", err)
		}
		fmt.Println("Catalog schema applied")

		if *runSeed {
			permRepo := repositories.NewPermissionRepository(db)
			if err := seed.Run(context.Background(), permRepo); err != nil {
				log.Fatalf("Failed to seed permission catalog: %v", err)
			}
			fmt.Println("Permission catalog seeded")
		}

	case "tenant":
		if *orgID == "" {
			log.Fatal("--org flag required for tenant migrations")
		}

		// The tenant store path lives on the catalog row.
		catalogDB, err := database.NewCatalogDB(cfg.Database.Catalog)
		if err != nil {
			log.Fatalf("Failed to connect to catalog DB: %v", err)
		}
		defer catalogDB.Close()

		orgRepo := repositories.NewOrganizationRepository(catalogDB)
		org, err := orgRepo.GetByID(context.Background(), *orgID)
		if err != nil {
			log.Fatalf("Failed to load organization: %v", err)
		}
		if org == nil {
			log.Fatalf("Organization %s not found", *orgID)
		}

		tenantDB, err := sql.Open("sqlite3", org.TenantDBPath)
		if err != nil {
			log.Fatalf("Failed to open tenant store: %v", err)
		}
		defer tenantDB.Close()

		if _, err := tenantDB.Exec(database.TenantSchema); err != nil {
			log.Fatalf("Failed to apply tenant schema: %v", err)
		}
		fmt.Printf("Tenant schema applied for %s (%s)\n", org.Name, org.TenantDBPath)

	default:
		log.Fatalf("Unknown target %q", *target)
	}
}
