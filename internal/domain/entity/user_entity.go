package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for the account domain.
// Passwords are stored as bcrypt hashes in Password field; Email is
// case-normalized at registration. Role is loaded alongside the user so
// capability checks never need a second query.
type User struct {
	ID        string
	Email     string
	Username  string
	Password  string
	AvatarURL string
	RoleID    string
	Role      *Role
	Confirmed bool
	LastSeen  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Can reports whether the user's role grants the capability.
// A nil user or a user without a loaded role can do nothing.
func (u *User) Can(p Permission) bool {
	if u == nil || u.Role == nil {
		return false
	}
	return u.Role.HasPermission(p)
}

// IsAdministrator is shorthand for Can(PermAdmin).
func (u *User) IsAdministrator() bool {
	return u.Can(PermAdmin)
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
