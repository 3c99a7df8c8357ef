package db

import "strings"

// IsUniqueViolation reports whether err is a unique-constraint violation.
// Matches both the postgres and sqlite driver message texts so callers
// behave the same under test databases.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}
