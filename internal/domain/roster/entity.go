package roster

import (
	"strings"
	"time"
)

type Employee struct {
	ID         string
	FirstName  string
	MiddleName *string
	LastName   string
	Campaign   string
	Site       string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FullName returns the roster-side name the biometric devices are matched
// against: first, middle (when present) and last name joined by spaces.
func (e Employee) FullName() string {
	parts := []string{e.FirstName}
	if e.MiddleName != nil && *e.MiddleName != "" {
		parts = append(parts, *e.MiddleName)
	}
	parts = append(parts, e.LastName)
	return strings.Join(parts, " ")
}

// NameKey returns the normalized identity key for this employee.
func (e Employee) NameKey() string {
	return NormalizeName(e.FullName())
}

// NormalizeName lowercases, trims and collapses internal whitespace.
// Two scan events belong to the same person exactly when their normalized
// names are equal; device-local user IDs are never trusted as identity.
func NormalizeName(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}
