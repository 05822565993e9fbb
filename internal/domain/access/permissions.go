// Package access resuelve qué datos por sucursal puede ver una sesión y qué capacidades otorga su rol.
// Todas las funciones son totales: una sesión ausente equivale a "sin permisos, sin datos".
package access

import "github.com/jhoicas/FarmHub-api/internal/domain/entity"

// Permission capacidad nombrada (coincide con las secciones del back-office).
type Permission string

const (
	PermDashboard  Permission = "dashboard"
	PermBranches   Permission = "branches"
	PermUsers      Permission = "users"
	PermInventory  Permission = "inventory"
	PermFinance    Permission = "finance"
	PermAttendance Permission = "attendance"
	PermSuppliers  Permission = "suppliers"
	PermCustomers  Permission = "customers"
	PermAssets     Permission = "assets"
	PermReports    Permission = "reports"
	PermSettings   Permission = "settings"
	PermActivities Permission = "activities"
)

// rolePermissions es la única tabla rol → permisos del sistema.
var rolePermissions = map[entity.Role][]Permission{
	entity.RoleSuperAdmin: {
		PermDashboard, PermBranches, PermUsers, PermInventory, PermFinance, PermAttendance,
		PermSuppliers, PermCustomers, PermAssets, PermReports, PermSettings, PermActivities,
	},
	entity.RoleBranchManager: {
		PermDashboard, PermUsers, PermInventory, PermFinance, PermAttendance,
		PermSuppliers, PermCustomers, PermAssets, PermReports,
	},
	entity.RoleFieldStaff:     {PermDashboard, PermAttendance, PermActivities},
	entity.RoleAccountant:     {PermDashboard, PermFinance, PermReports, PermSuppliers, PermCustomers},
	entity.RoleInventoryStaff: {PermDashboard, PermInventory, PermSuppliers, PermAssets},
}

// PermissionsFor devuelve una copia de los permisos del rol (nil si el rol es desconocido).
func PermissionsFor(role entity.Role) []Permission {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// RoleGrants informa si el rol incluye la capacidad.
func RoleGrants(role entity.Role, p Permission) bool {
	for _, granted := range rolePermissions[role] {
		if granted == p {
			return true
		}
	}
	return false
}
