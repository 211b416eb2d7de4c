package domain

import "time"

// Roles a user can hold. Kept as plain strings in tokens and in the users
// table.
const (
	RoleCandidate = "candidate"
	RoleCompany   = "company"
	RoleAdmin     = "admin"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleCandidate, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt encoded
	Role         string
	Disability   string // optional accessibility information, free text
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
