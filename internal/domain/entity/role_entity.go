package entity

import "time"

// Role is a named bundle of capabilities assigned to users.
// Exactly one role across the table carries the Default flag; new users
// receive it unless their email matches the configured administrator.
type Role struct {
	ID          string
	Name        string
	Default     bool
	Permissions int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasPermission reports whether the role's mask contains the capability.
func (r *Role) HasPermission(p Permission) bool {
	return r != nil && HasPermission(r.Permissions, p)
}

// AddPermission grants a capability on the role's mask. Idempotent.
func (r *Role) AddPermission(p Permission) {
	r.Permissions = AddPermission(r.Permissions, p)
}

// RemovePermission revokes a capability from the role's mask. Idempotent.
func (r *Role) RemovePermission(p Permission) {
	r.Permissions = RemovePermission(r.Permissions, p)
}

// ResetPermissions clears the role's mask.
func (r *Role) ResetPermissions() {
	r.Permissions = ResetPermissions()
}

// Role names seeded by cmd/seed and reconciled at startup.
const (
	RoleNameUser          = "User"
	RoleNameModerator     = "Moderator"
	RoleNameAdministrator = "Administrator"
)

// DefaultRoleTable maps role names to their ordered capability lists.
// Reconciled against the roles table by RoleRepository.SeedDefaults; the
// declared default is RoleNameUser.
func DefaultRoleTable() map[string][]Permission {
	return map[string][]Permission{
		RoleNameUser:          {PermFollow, PermComment, PermWrite},
		RoleNameModerator:     {PermFollow, PermComment, PermWrite, PermModerate},
		RoleNameAdministrator: {PermFollow, PermComment, PermWrite, PermModerate, PermAdmin},
	}
}
