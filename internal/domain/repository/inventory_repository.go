package repository

import (
	"context"

	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
)

// InventoryItemRepository define el puerto de persistencia para InventoryItem.
type InventoryItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	// GetForUpdate bloquea el ítem hasta el fin de la transacción (movimientos de stock).
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error)
	// ListByBranch branchID vacío devuelve todos los ítems.
	ListByBranch(ctx context.Context, branchID string) ([]*entity.InventoryItem, error)
	Update(ctx context.Context, item *entity.InventoryItem) error
	Delete(ctx context.Context, id string) error
}

// StockMovementRepository historial de movimientos (solo inserción).
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	// ListByItem movimientos del ítem, el más reciente primero.
	ListByItem(ctx context.Context, itemID string) ([]*entity.StockMovement, error)
}
