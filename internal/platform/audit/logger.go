package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	apiContext "workhive/internal/api/context"
	"workhive/internal/platform/auth"
)

type Entry struct {
	ID             string                 `json:"id"`
	OrganizationID string                 `json:"organization_id"`
	UserID         string                 `json:"user_id"`
	Action         string                 `json:"action"`
	ResourceType   string                 `json:"resource_type"`
	ResourceID     string                 `json:"resource_id"`
	Metadata       map[string]interface{} `json:"metadata"`
	CreatedAt      int64                  `json:"created_at"`
}

// Logger writes the audit trail into the catalog store. Provisioning records
// its compensation outcomes here, so RollbackFailed states are visible to
// operators.
type Logger struct {
	catalogDB *sql.DB
}

func NewLogger(db *sql.DB) *Logger {
	return &Logger{catalogDB: db}
}

// Record persists an audit entry asynchronously. Audit failures are logged
// and never propagate to the request that produced them.
func (l *Logger) Record(ctx context.Context, action, resourceType, resourceID string, metadata map[string]interface{}) {
	var orgID, userID string
	if claims, ok := ctx.Value(apiContext.Claims).(*auth.Claims); ok {
		orgID = claims.OrganizationID
		userID = claims.UserID
	}
	if orgID == "" && resourceType == "organization" {
		orgID = resourceID
	}

	metaJSON, _ := json.Marshal(metadata)

	entry := &Entry{
		ID:             "audit_" + uuid.NewString(),
		OrganizationID: orgID,
		UserID:         userID,
		Action:         action,
		ResourceType:   resourceType,
		ResourceID:     resourceID,
		Metadata:       metadata,
		CreatedAt:      time.Now().Unix(),
	}

	go func() {
		_, err := l.catalogDB.Exec(`
			INSERT INTO audit_logs (id, organization_id, user_id, action, resource_type, resource_id, metadata, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, entry.ID, entry.OrganizationID, entry.UserID, entry.Action, entry.ResourceType, entry.ResourceID, string(metaJSON), entry.CreatedAt)
		if err != nil {
			zlog.Error().Err(err).Str("action", action).Msg("failed to write audit log")
		}
	}()
}

// List returns the most recent entries for an organization.
func (l *Logger) List(ctx context.Context, orgID string, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	rows, err := l.catalogDB.QueryContext(ctx, `
		SELECT id, organization_id, COALESCE(user_id, ''), action, COALESCE(resource_type, ''), COALESCE(resource_id, ''), COALESCE(metadata, '{}'), created_at
		FROM audit_logs WHERE organization_id = ? ORDER BY created_at DESC LIMIT ?
	`, orgID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var metaStr string
		if err := rows.Scan(&e.ID, &e.OrganizationID, &e.UserID, &e.Action, &e.ResourceType, &e.ResourceID, &metaStr, &e.CreatedAt); err != nil {
			return nil, err
		}
		json.Unmarshal([]byte(metaStr), &e.Metadata)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
