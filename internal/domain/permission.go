package domain

import "slices"

// Permission represents granular permission (resource:action pattern) / Permission granulaire (pattern resource:action)
type Permission string

// Predefined permissions / Permissions prédéfinies
const (
	PermissionInterventionsRead  Permission = "interventions:read"
	PermissionInterventionsWrite Permission = "interventions:write"
	PermissionInterventionsAdmin Permission = "interventions:admin"
	PermissionPatrimoineWrite    Permission = "patrimoine:write" // equipment, resources, services
	PermissionUsersManage        Permission = "users:manage"
	PermissionStatsRead          Permission = "stats:read"
	PermissionSystemAdmin        Permission = "system:admin"
)

// AllPermissions returns all defined permissions / Retourne toutes les permissions définies
func AllPermissions() []Permission {
	return []Permission{
		PermissionInterventionsRead,
		PermissionInterventionsWrite,
		PermissionInterventionsAdmin,
		PermissionPatrimoineWrite,
		PermissionUsersManage,
		PermissionStatsRead,
		PermissionSystemAdmin,
	}
}

// String returns permission as string / Retourne la permission en string
func (p Permission) String() string {
	return string(p)
}

// DefaultPermissionsForRole returns default permissions for role / Retourne les permissions par défaut du rôle
func DefaultPermissionsForRole(role UserRole) []Permission {
	switch role {
	case RoleCitoyen:
		return []Permission{PermissionInterventionsRead}

	case RoleTechnicien:
		return []Permission{
			PermissionInterventionsRead,
			PermissionInterventionsWrite,
			PermissionStatsRead,
		}

	case RoleAdmin:
		return AllPermissions()

	default:
		return []Permission{}
	}
}

// RoleHasPermission checks static role permissions / Vérifie les permissions statiques du rôle
func RoleHasPermission(role UserRole, p Permission) bool {
	return slices.Contains(DefaultPermissionsForRole(role), p)
}
