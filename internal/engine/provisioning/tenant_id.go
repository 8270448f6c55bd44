package provisioning

import "github.com/gosimple/slug"

// TenantID derives the storage-safe tenant identifier from an organization
// name: lowercased, non-alphanumeric runs collapsed to a separator. The
// mapping is deterministic so operators can locate a tenant store from the
// organization name alone. Distinct names can collide after slugging; the
// subdomain, not the tenant id, is the identity arbiter.
func TenantID(organizationName string) string {
	return slug.Make(organizationName)
}
