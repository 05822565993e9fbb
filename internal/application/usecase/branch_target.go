package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/access"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
)

// TargetBranch sucursal en la que se crea un registro: la efectiva de la sesión, o requested cuando
// la sesión ve todas las sucursales (obligatorio y debe existir). Con una sucursal efectiva fija,
// requested solo puede repetirla.
func TargetBranch(ctx context.Context, branches repository.BranchRepository, scope *access.Scope, requested string) (string, error) {
	branchID := access.EffectiveBranchID(scope)
	requested = strings.TrimSpace(requested)
	switch branchID {
	case "":
		return "", domain.ErrScopeViolation
	case access.AllBranches:
		if requested == "" {
			return "", fmt.Errorf("%w: branch_id es obligatorio sin sucursal seleccionada", domain.ErrInvalidInput)
		}
		branch, err := branches.GetByID(ctx, requested)
		if err != nil {
			return "", err
		}
		if branch == nil {
			return "", fmt.Errorf("%w: la sucursal %s no existe", domain.ErrInvalidReference, requested)
		}
		return requested, nil
	default:
		if requested != "" && requested != branchID {
			return "", domain.ErrScopeViolation
		}
		return branchID, nil
	}
}

// listBranch sucursal para ListByBranch: "" = todas. ok=false cuando la sesión no ve ninguna.
func listBranch(scope *access.Scope) (branchID string, ok bool) {
	switch b := access.EffectiveBranchID(scope); b {
	case "":
		return "", false
	case access.AllBranches:
		return "", true
	default:
		return b, true
	}
}
