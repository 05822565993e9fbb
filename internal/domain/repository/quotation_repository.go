package repository

import (
	"context"

	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
)

// QuotationRepository define el puerto de persistencia para Quotation (cabecera + líneas).
type QuotationRepository interface {
	Create(ctx context.Context, q *entity.Quotation) error
	GetByID(ctx context.Context, id string) (*entity.Quotation, error)
	// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Quotation, error)
	// ListByBranch branchID vacío devuelve todas las cotizaciones. Orden: más recientes primero.
	ListByBranch(ctx context.Context, branchID string) ([]*entity.Quotation, error)
	// Update reemplaza cabecera y líneas.
	Update(ctx context.Context, q *entity.Quotation) error
	Delete(ctx context.Context, id string) error
}
