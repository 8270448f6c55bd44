package database

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// IsUniqueViolation reports whether err is a UNIQUE constraint failure on the
// given column ("table.column"). The store's constraint is the authoritative
// duplicate check; callers translate the violation instead of pre-reading.
func IsUniqueViolation(err error, column string) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	if sqliteErr.Code != sqlite3.ErrConstraint {
		return false
	}
	return strings.Contains(sqliteErr.Error(), column)
}
