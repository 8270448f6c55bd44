package database

// CatalogSchema is the shared catalog store schema. Uniqueness of
// organizations.subdomain and users.email is enforced here; it is the only
// synchronization point for concurrent registrations.
const CatalogSchema = `
CREATE TABLE IF NOT EXISTS organizations (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	subdomain TEXT NOT NULL UNIQUE,
	tenant_db_path TEXT NOT NULL,
	plan_tier TEXT NOT NULL DEFAULT 'WORKER_BEE',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	full_name TEXT NOT NULL,
	role TEXT NOT NULL,
	type TEXT,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS permissions (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	description TEXT
);

CREATE TABLE IF NOT EXISTS role_permissions (
	role TEXT PRIMARY KEY,
	permission_ids TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS user_permissions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	permission_id TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	UNIQUE(user_id, permission_id)
);

CREATE TABLE IF NOT EXISTS audit_logs (
	id TEXT PRIMARY KEY,
	organization_id TEXT,
	user_id TEXT,
	action TEXT NOT NULL,
	resource_type TEXT,
	resource_id TEXT,
	metadata TEXT,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_users_org ON users(organization_id);
CREATE INDEX IF NOT EXISTS idx_user_permissions_user ON user_permissions(user_id);
CREATE INDEX IF NOT EXISTS idx_audit_logs_org ON audit_logs(organization_id, created_at);
`

// TenantSchema is the bootstrap schema written into every freshly provisioned
// tenant store. The organization table mirrors the catalog row.
const TenantSchema = `
CREATE TABLE IF NOT EXISTS organization (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	subdomain TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	created_by TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	project_id TEXT NOT NULL,
	title TEXT NOT NULL,
	created_by TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);
`
