package auth

import (
	"errors"
	"regexp"
)

// usernamePattern defines the valid format for usernames:
// alphanumeric, dots, hyphens, underscores, 1-64 characters.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,64}$`)

// maxUsernameLength is the maximum allowed username length.
const maxUsernameLength = 64

// IsValidUsername checks if a username meets format requirements.
// Usernames must be 1-64 characters, alphanumeric with dots, hyphens, underscores.
func IsValidUsername(username string) bool {
	return len(username) <= maxUsernameLength && usernamePattern.MatchString(username)
}

// Role represents an authorisation tier in the system.
type Role string

const (
	// RoleViewer has read-only visibility: audit log viewing only.
	RoleViewer Role = "viewer"

	// RoleModerator can view logs and manage ordinary user accounts.
	RoleModerator Role = "moderator"

	// RoleAdmin has operational control: users, system configuration,
	// database maintenance, API and service settings.
	RoleAdmin Role = "admin"

	// RoleSuperAdmin has everything admin can do plus managing other
	// administrators and security-sensitive settings. The first account
	// ever to request this role claims it permanently.
	RoleSuperAdmin Role = "super_admin"
)

// roleRanks orders roles from least to most privileged.
// A higher rank may act at any lower rank, never the reverse.
var roleRanks = map[Role]int{
	RoleViewer:     1,
	RoleModerator:  2,
	RoleAdmin:      3,
	RoleSuperAdmin: 4,
}

// ValidRoles is the set of valid admin roles.
var ValidRoles = []Role{RoleViewer, RoleModerator, RoleAdmin, RoleSuperAdmin}

// IsValidRole returns true if the role is a member of the closed role set.
func IsValidRole(r Role) bool {
	_, ok := roleRanks[r]
	return ok
}

// RoleRank returns the privilege rank of a role, or 0 for unknown roles.
func RoleRank(r Role) int {
	return roleRanks[r]
}

// Sentinel errors for auth operations.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidUsername    = errors.New("invalid username format")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrRoleDenied         = errors.New("requested role exceeds recorded role")
	ErrForbidden          = errors.New("insufficient permissions")
)
