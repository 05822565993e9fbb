package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/access"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
)

// BranchUseCase casos de uso CRUD para sucursales. Crear, editar y borrar requiere el permiso branches.
type BranchUseCase struct {
	repo         repository.BranchRepository
	userRepo     repository.UserRepository
	customerRepo repository.CustomerRepository
}

// NewBranchUseCase construye el caso de uso.
func NewBranchUseCase(repo repository.BranchRepository, userRepo repository.UserRepository, customerRepo repository.CustomerRepository) *BranchUseCase {
	return &BranchUseCase{repo: repo, userRepo: userRepo, customerRepo: customerRepo}
}

// Create crea una nueva sucursal.
func (uc *BranchUseCase) Create(ctx context.Context, scope *access.Scope, in dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	if !access.HasPermission(scope, access.PermBranches) {
		return nil, domain.ErrForbidden
	}
	if in.ManagerID != "" {
		if err := uc.checkManager(ctx, in.ManagerID); err != nil {
			return nil, err
		}
	}
	status := in.Status
	if status == "" {
		status = entity.BranchStatusActive
	}
	now := time.Now()
	branch := &entity.Branch{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Location:  in.Location,
		ManagerID: in.ManagerID,
		FarmType:  in.FarmType,
		Size:      in.Size,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, branch); err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

// GetByID obtiene una sucursal visible para la sesión.
func (uc *BranchUseCase) GetByID(ctx context.Context, scope *access.Scope, id string) (*dto.BranchResponse, error) {
	branch, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrNotFound
	}
	if !access.CanAccess(scope, branch.ID) {
		return nil, domain.ErrScopeViolation
	}
	return toBranchResponse(branch), nil
}

// Update actualiza una sucursal.
func (uc *BranchUseCase) Update(ctx context.Context, scope *access.Scope, id string, in dto.UpdateBranchRequest) (*dto.BranchResponse, error) {
	if !access.HasPermission(scope, access.PermBranches) {
		return nil, domain.ErrForbidden
	}
	branch, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		branch.Name = *in.Name
	}
	if in.Location != nil {
		branch.Location = *in.Location
	}
	if in.ManagerID != nil {
		if *in.ManagerID != "" {
			if err := uc.checkManager(ctx, *in.ManagerID); err != nil {
				return nil, err
			}
		}
		branch.ManagerID = *in.ManagerID
	}
	if in.FarmType != nil {
		branch.FarmType = *in.FarmType
	}
	if in.Size != nil {
		branch.Size = *in.Size
	}
	if in.Status != nil {
		branch.Status = *in.Status
	}
	branch.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, branch); err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

// List sucursales visibles para la sesión: todas para super_admin sin selección, si no solo la efectiva.
func (uc *BranchUseCase) List(ctx context.Context, scope *access.Scope, p dto.PageRequest) (*dto.BranchListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	visible, meta := Page(access.Filter(scope, list), p)
	items := make([]dto.BranchResponse, 0, len(visible))
	for _, b := range visible {
		items = append(items, *toBranchResponse(b))
	}
	return &dto.BranchListResponse{Items: items, Page: meta}, nil
}

// Delete elimina una sucursal sin usuarios ni clientes asociados.
func (uc *BranchUseCase) Delete(ctx context.Context, scope *access.Scope, id string) error {
	if !access.HasPermission(scope, access.PermBranches) {
		return domain.ErrForbidden
	}
	branch, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if branch == nil {
		return domain.ErrNotFound
	}
	users, err := uc.userRepo.ListByBranch(ctx, id)
	if err != nil {
		return err
	}
	customers, err := uc.customerRepo.ListByBranch(ctx, id)
	if err != nil {
		return err
	}
	if len(users) > 0 || len(customers) > 0 {
		return fmt.Errorf("%w: la sucursal tiene %d usuarios y %d clientes", domain.ErrConflict, len(users), len(customers))
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *BranchUseCase) checkManager(ctx context.Context, managerID string) error {
	u, err := uc.userRepo.GetByID(ctx, managerID)
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("%w: el encargado %s no existe", domain.ErrInvalidReference, managerID)
	}
	return nil
}

func toBranchResponse(b *entity.Branch) *dto.BranchResponse {
	if b == nil {
		return nil
	}
	return &dto.BranchResponse{
		ID:        b.ID,
		Name:      b.Name,
		Location:  b.Location,
		ManagerID: b.ManagerID,
		FarmType:  b.FarmType,
		Size:      b.Size,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
