package auth

// Permission represents a named capability in the system.
type Permission string

// Permission constants.
const (
	PermUserManage     Permission = "user:manage"
	PermSystemConfig   Permission = "system:config"
	PermLogsView       Permission = "logs:view"
	PermAdminManage    Permission = "admin:manage"
	PermSecurityManage Permission = "security:manage"
	PermDatabaseManage Permission = "database:manage"
	PermAPIManage      Permission = "api:manage"
	PermMLConfig       Permission = "ml:config"
	PermOSConfig       Permission = "os:config"
)

// rolePermissions maps each role to its granted permissions.
// This is the single source of truth for the authorisation model.
var rolePermissions = map[Role][]Permission{
	RoleViewer: {
		PermLogsView,
	},
	RoleModerator: {
		PermLogsView,
		PermUserManage,
	},
	RoleAdmin: {
		PermUserManage,
		PermLogsView,
		PermSecurityManage,
		PermAPIManage,
		PermMLConfig,
	},
	RoleSuperAdmin: {
		PermUserManage,
		PermSystemConfig,
		PermLogsView,
		PermAdminManage,
		PermSecurityManage,
		PermDatabaseManage,
		PermAPIManage,
		PermMLConfig,
		PermOSConfig,
	},
}

// HasPermission returns true if the given role has the specified permission.
func HasPermission(role Role, perm Permission) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == perm {
			return true
		}
	}
	return false
}

// PermissionsForRole returns all permissions granted to a role.
// Returns nil for unknown roles.
func PermissionsForRole(role Role) []Permission {
	perms := rolePermissions[role]
	if perms == nil {
		return nil
	}
	result := make([]Permission, len(perms))
	copy(result, perms)
	return result
}
