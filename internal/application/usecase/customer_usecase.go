package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/access"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
)

// CustomerUseCase clientes por sucursal (requiere el permiso customers).
type CustomerUseCase struct {
	repo       repository.CustomerRepository
	branchRepo repository.BranchRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, branchRepo repository.BranchRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, branchRepo: branchRepo}
}

// Create crea el cliente en la sucursal efectiva. Con vista de todas las sucursales branch_id es obligatorio.
func (uc *CustomerUseCase) Create(ctx context.Context, scope *access.Scope, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if !access.HasPermission(scope, access.PermCustomers) {
		return nil, domain.ErrForbidden
	}
	branchID, err := TargetBranch(ctx, uc.branchRepo, scope, in.BranchID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		BranchID:  branchID,
		Name:      in.Name,
		Contact:   in.Contact,
		Email:     in.Email,
		Type:      in.Type,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetByID obtiene un cliente visible para la sesión.
func (uc *CustomerUseCase) GetByID(ctx context.Context, scope *access.Scope, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Update actualiza un cliente. La sucursal no cambia.
func (uc *CustomerUseCase) Update(ctx context.Context, scope *access.Scope, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := uc.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		customer.Name = *in.Name
	}
	if in.Contact != nil {
		customer.Contact = *in.Contact
	}
	if in.Email != nil {
		customer.Email = *in.Email
	}
	if in.Type != nil {
		customer.Type = *in.Type
	}
	customer.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// List clientes visibles para la sesión.
func (uc *CustomerUseCase) List(ctx context.Context, scope *access.Scope, p dto.PageRequest) (*dto.CustomerListResponse, error) {
	if !access.HasPermission(scope, access.PermCustomers) {
		return nil, domain.ErrForbidden
	}
	branchID, ok := listBranch(scope)
	if !ok {
		return &dto.CustomerListResponse{Items: []dto.CustomerResponse{}, Page: dto.PageResponse{Limit: p.Limit, Offset: p.Offset}}, nil
	}
	list, err := uc.repo.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	visible, meta := Page(access.Filter(scope, list), p)
	items := make([]dto.CustomerResponse, 0, len(visible))
	for _, c := range visible {
		items = append(items, *toCustomerResponse(c))
	}
	return &dto.CustomerListResponse{Items: items, Page: meta}, nil
}

// Delete elimina un cliente. Los documentos que lo referencian conservan su customer_id.
func (uc *CustomerUseCase) Delete(ctx context.Context, scope *access.Scope, id string) error {
	if _, err := uc.load(ctx, scope, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *CustomerUseCase) load(ctx context.Context, scope *access.Scope, id string) (*entity.Customer, error) {
	if !access.HasPermission(scope, access.PermCustomers) {
		return nil, domain.ErrForbidden
	}
	customer, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if !access.CanAccess(scope, customer.BranchID) {
		return nil, domain.ErrScopeViolation
	}
	return customer, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	if c == nil {
		return nil
	}
	return &dto.CustomerResponse{
		ID:        c.ID,
		BranchID:  c.BranchID,
		Name:      c.Name,
		Contact:   c.Contact,
		Email:     c.Email,
		Type:      c.Type,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
