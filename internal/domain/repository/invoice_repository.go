package repository

import (
	"context"

	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice (cabecera + líneas).
type InvoiceRepository interface {
	Create(ctx context.Context, inv *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	// ListByBranch branchID vacío devuelve todas las facturas. Orden: más recientes primero.
	ListByBranch(ctx context.Context, branchID string) ([]*entity.Invoice, error)
	// Update reemplaza cabecera y líneas.
	Update(ctx context.Context, inv *entity.Invoice) error
	Delete(ctx context.Context, id string) error
}
