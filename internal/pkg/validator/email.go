package validator

import (
	"errors"
	"strings"
)

// ValidEmail performs the structural check; deliverability is out of scope.
func ValidEmail(email string) error {
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return errors.New("invalid email format")
	}
	if !strings.Contains(parts[1], ".") {
		return errors.New("invalid email domain")
	}
	return nil
}

// ValidSubdomain enforces the catalog's subdomain shape: lowercase
// alphanumerics and hyphens, no leading/trailing hyphen. Uniqueness is
// enforced by the store, not here.
func ValidSubdomain(subdomain string) error {
	if len(subdomain) < 3 || len(subdomain) > 63 {
		return errors.New("subdomain must be between 3 and 63 characters")
	}
	for _, c := range subdomain {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return errors.New("subdomain may only contain lowercase letters, digits and hyphens")
		}
	}
	if strings.HasPrefix(subdomain, "-") || strings.HasSuffix(subdomain, "-") {
		return errors.New("subdomain may not start or end with a hyphen")
	}

	reserved := []string{"api", "app", "www", "admin", "dashboard", "login", "signup", "health", "metrics"}
	for _, r := range reserved {
		if subdomain == r {
			return errors.New("subdomain is reserved")
		}
	}
	return nil
}
