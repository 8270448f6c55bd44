package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"workhive/internal/platform/config"
	"workhive/internal/platform/models"
)

// TenantProvisioner creates and initializes isolated per-organization stores.
type TenantProvisioner struct {
	config config.TenantDBConfig
}

func NewTenantProvisioner(cfg config.TenantDBConfig) *TenantProvisioner {
	return &TenantProvisioner{config: cfg}
}

// Path returns the store location for a tenant identifier. The mapping is a
// pure function of the identifier so operators can locate a tenant store
// without consulting the catalog.
func (p *TenantProvisioner) Path(tenantID string) string {
	return filepath.Join(p.config.BasePath, tenantID+".db")
}

// Provision creates the tenant store at org.TenantDBPath, applies the
// bootstrap schema and writes the organization mirror row. It runs strictly
// after the catalog transaction committed; the caller compensates catalog
// writes if it fails.
func (p *TenantProvisioner) Provision(ctx context.Context, org *models.Organization) error {
	if err := os.MkdirAll(filepath.Dir(org.TenantDBPath), 0755); err != nil {
		return fmt.Errorf("create tenant directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?cache=shared&mode=rwc", org.TenantDBPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return fmt.Errorf("open tenant store: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, TenantSchema); err != nil {
		return fmt.Errorf("apply tenant schema: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT OR REPLACE INTO organization (id, name, subdomain) VALUES (?, ?, ?)
	`, org.ID, org.Name, org.Subdomain)
	if err != nil {
		return fmt.Errorf("write bootstrap row: %w", err)
	}

	return nil
}
