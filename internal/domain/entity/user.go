package entity

import "time"

// Role rol de un usuario; determina su conjunto de permisos.
type Role string

// Roles válidos para User.
const (
	RoleSuperAdmin     Role = "super_admin"
	RoleBranchManager  Role = "branch_manager"
	RoleFieldStaff     Role = "field_staff"
	RoleAccountant     Role = "accountant"
	RoleInventoryStaff Role = "inventory_staff"
)

// IsValid informa si el rol es uno de los conocidos.
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleBranchManager, RoleFieldStaff, RoleAccountant, RoleInventoryStaff:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// User representa un usuario del sistema. BranchID es la sucursal base (vacío solo para super_admin).
type User struct {
	ID           string
	BranchID     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Phone        string
	Role         Role
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GetBranchID implementa access.BranchScoped.
func (u *User) GetBranchID() string { return u.BranchID }
