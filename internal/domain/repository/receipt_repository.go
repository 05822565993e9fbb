package repository

import (
	"context"

	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
)

// ReceiptRepository define el puerto de persistencia para Receipt.
type ReceiptRepository interface {
	Create(ctx context.Context, r *entity.Receipt) error
	GetByID(ctx context.Context, id string) (*entity.Receipt, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Receipt, error)
	// ListByBranch branchID vacío devuelve todos los recibos. Orden: más recientes primero.
	ListByBranch(ctx context.Context, branchID string) ([]*entity.Receipt, error)
	Update(ctx context.Context, r *entity.Receipt) error
	Delete(ctx context.Context, id string) error
}
