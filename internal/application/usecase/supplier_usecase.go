package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/access"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
)

// SupplierUseCase proveedores por sucursal (permiso suppliers).
type SupplierUseCase struct {
	repo       repository.SupplierRepository
	branchRepo repository.BranchRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository, branchRepo repository.BranchRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, branchRepo: branchRepo}
}

// Create registra un proveedor activo sin pedidos.
func (uc *SupplierUseCase) Create(ctx context.Context, scope *access.Scope, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if !access.HasPermission(scope, access.PermSuppliers) {
		return nil, domain.ErrForbidden
	}
	branchID, err := TargetBranch(ctx, uc.branchRepo, scope, in.BranchID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	s := &entity.Supplier{
		ID:         uuid.New().String(),
		BranchID:   branchID,
		Name:       in.Name,
		Contact:    in.Contact,
		Email:      in.Email,
		Category:   in.Category,
		Status:     entity.SupplierStatusActive,
		TotalValue: decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

func (uc *SupplierUseCase) GetByID(ctx context.Context, scope *access.Scope, id string) (*dto.SupplierResponse, error) {
	s, err := uc.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

func (uc *SupplierUseCase) Update(ctx context.Context, scope *access.Scope, id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	s, err := uc.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		s.Name = *in.Name
	}
	if in.Contact != nil {
		s.Contact = *in.Contact
	}
	if in.Email != nil {
		s.Email = *in.Email
	}
	if in.Category != nil {
		s.Category = *in.Category
	}
	if in.Status != nil {
		s.Status = *in.Status
	}
	s.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// RecordOrder suma un pedido al historial del proveedor. Un proveedor inactivo no recibe pedidos.
func (uc *SupplierUseCase) RecordOrder(ctx context.Context, scope *access.Scope, id string, in dto.RecordSupplierOrderRequest) (*dto.SupplierResponse, error) {
	amount := in.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount debe ser positivo", domain.ErrInvalidInput)
	}
	s, err := uc.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if s.Status != entity.SupplierStatusActive {
		return nil, fmt.Errorf("%w: el proveedor está inactivo", domain.ErrConflict)
	}
	s.TotalOrders++
	s.TotalValue = s.TotalValue.Add(amount)
	s.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// List proveedores visibles. ActiveCount cuenta todos los visibles, no solo la página.
func (uc *SupplierUseCase) List(ctx context.Context, scope *access.Scope, p dto.PageRequest) (*dto.SupplierListResponse, error) {
	if !access.HasPermission(scope, access.PermSuppliers) {
		return nil, domain.ErrForbidden
	}
	branchID, ok := listBranch(scope)
	if !ok {
		return &dto.SupplierListResponse{Items: []dto.SupplierResponse{}, Page: dto.PageResponse{Limit: p.Limit, Offset: p.Offset}}, nil
	}
	list, err := uc.repo.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	list = access.Filter(scope, list)
	out := &dto.SupplierListResponse{}
	for _, s := range list {
		if s.Status == entity.SupplierStatusActive {
			out.ActiveCount++
		}
	}
	visible, meta := Page(list, p)
	out.Items = make([]dto.SupplierResponse, 0, len(visible))
	for _, s := range visible {
		out.Items = append(out.Items, *toSupplierResponse(s))
	}
	out.Page = meta
	return out, nil
}

func (uc *SupplierUseCase) Delete(ctx context.Context, scope *access.Scope, id string) error {
	if _, err := uc.load(ctx, scope, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *SupplierUseCase) load(ctx context.Context, scope *access.Scope, id string) (*entity.Supplier, error) {
	if !access.HasPermission(scope, access.PermSuppliers) {
		return nil, domain.ErrForbidden
	}
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if !access.CanAccess(scope, s.BranchID) {
		return nil, domain.ErrScopeViolation
	}
	return s, nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:          s.ID,
		BranchID:    s.BranchID,
		Name:        s.Name,
		Contact:     s.Contact,
		Email:       s.Email,
		Category:    s.Category,
		Status:      s.Status,
		TotalOrders: s.TotalOrders,
		TotalValue:  s.TotalValue,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
