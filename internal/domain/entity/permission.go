package entity

// Permission is a single capability encoded as a power-of-two bit flag.
// A role's permission mask is the bitwise OR of its granted capabilities.
type Permission int

const (
	PermFollow   Permission = 1 << iota // follow other users
	PermComment                         // comment on posts
	PermWrite                           // write posts
	PermModerate                        // moderate comments
	PermAdmin                           // full administrative access
)

// HasPermission reports whether the mask contains the capability.
func HasPermission(mask int, p Permission) bool {
	return mask&int(p) == int(p)
}

// AddPermission returns the mask with the capability granted. Adding a
// capability that is already present returns the mask unchanged.
func AddPermission(mask int, p Permission) int {
	if HasPermission(mask, p) {
		return mask
	}
	return mask | int(p)
}

// RemovePermission returns the mask with the capability revoked.
func RemovePermission(mask int, p Permission) int {
	if !HasPermission(mask, p) {
		return mask
	}
	return mask &^ int(p)
}

// ResetPermissions returns an empty mask.
func ResetPermissions() int {
	return 0
}
