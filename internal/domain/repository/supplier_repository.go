package repository

import (
	"context"

	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	// ListByBranch branchID vacío devuelve todos los proveedores.
	ListByBranch(ctx context.Context, branchID string) ([]*entity.Supplier, error)
	Update(ctx context.Context, s *entity.Supplier) error
	Delete(ctx context.Context, id string) error
}
