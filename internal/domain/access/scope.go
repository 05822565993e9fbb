package access

import (
	"strings"

	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
)

// AllBranches valor centinela de EffectiveBranchID: sin filtro por sucursal.
const AllBranches = "ALL"

// Scope alcance de una sesión autenticada.
// SelectedBranchID solo tiene efecto para super_admin.
type Scope struct {
	UserID           string
	Role             entity.Role
	HomeBranchID     string
	SelectedBranchID string
}

// BranchScoped cualquier registro que pertenece a una sucursal.
type BranchScoped interface {
	GetBranchID() string
}

// HasPermission true si la capacidad está en el conjunto del rol. Nunca falla.
func HasPermission(s *Scope, capability Permission) bool {
	if s == nil {
		return false
	}
	return RoleGrants(s.Role, capability)
}

// EffectiveBranchID sucursal que filtra los datos de la sesión.
// super_admin: la sucursal seleccionada o AllBranches. Resto de roles: siempre su sucursal base
// (vacío si no la tiene, lo que deja la sesión sin datos).
func EffectiveBranchID(s *Scope) string {
	if s == nil || !s.Role.IsValid() {
		return ""
	}
	if s.Role == entity.RoleSuperAdmin {
		if s.SelectedBranchID != "" {
			return s.SelectedBranchID
		}
		return AllBranches
	}
	return s.HomeBranchID
}

// CanAccess informa si un registro de branchID es visible/modificable por la sesión.
func CanAccess(s *Scope, branchID string) bool {
	eff := EffectiveBranchID(s)
	switch eff {
	case "":
		return false
	case AllBranches:
		return true
	}
	return strings.TrimSpace(branchID) != "" && branchID == eff
}

// Filter devuelve la subsecuencia de records visible para la sesión conservando el orden de entrada.
// Con AllBranches devuelve records tal cual; sin sucursal efectiva devuelve una secuencia vacía.
func Filter[T BranchScoped](s *Scope, records []T) []T {
	eff := EffectiveBranchID(s)
	if eff == AllBranches {
		return records
	}
	out := make([]T, 0, len(records))
	if eff == "" {
		return out
	}
	for _, r := range records {
		if r.GetBranchID() == eff {
			out = append(out, r)
		}
	}
	return out
}

// SwitchBranch cambia la sucursal seleccionada. Solo aplica para super_admin y una sucursal existente
// (target != nil); en cualquier otro caso devuelve el alcance sin cambios.
func SwitchBranch(s Scope, target *entity.Branch) Scope {
	if s.Role != entity.RoleSuperAdmin || target == nil || target.ID == "" {
		return s
	}
	s.SelectedBranchID = target.ID
	return s
}

// ClearBranch vuelve a la vista de todas las sucursales (solo super_admin).
func ClearBranch(s Scope) Scope {
	if s.Role != entity.RoleSuperAdmin {
		return s
	}
	s.SelectedBranchID = ""
	return s
}
