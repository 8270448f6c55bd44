package database

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"workhive/internal/platform/config"
)

// CatalogDB wraps the shared catalog store handle for injection.
type CatalogDB struct {
	DB *sql.DB
}

func NewCatalogDBWrapper(db *sql.DB) *CatalogDB {
	return &CatalogDB{DB: db}
}

// NewCatalogDB opens the shared catalog store. The catalog holds
// organizations, users and the permission tables for every tenant.
func NewCatalogDB(cfg config.CatalogDBConfig) (*sql.DB, error) {
	dsn := cfg.URL
	if strings.HasPrefix(dsn, "file:") {
		dsn = dsn[len("file:"):]
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}
