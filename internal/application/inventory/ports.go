// Package inventory casos de uso de existencias por sucursal: ítems y movimientos de stock.
package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
	"github.com/jhoicas/FarmHub-api/pkg/logger"
)

// TxRunner ejecuta fn en una transacción con los repositorios de inventario. Error = rollback.
type TxRunner interface {
	RunInventory(ctx context.Context, fn func(
		items repository.InventoryItemRepository,
		movements repository.StockMovementRepository,
	) error) error
}

// Recorder métricas de movimientos aplicados, por tipo (IN, OUT, ADJUSTMENT).
type Recorder interface {
	StockMoved(movementType string)
}

// Options colaboradores opcionales. nil = sin métricas, sin logs, reloj del sistema.
type Options struct {
	Metrics Recorder
	Logger  *logger.Logger
	Now     func() time.Time
}

type nopRecorder struct{}

func (nopRecorder) StockMoved(string) {}

func (o Options) withDefaults() Options {
	if o.Metrics == nil {
		o.Metrics = nopRecorder{}
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	o.Logger = o.Logger.WithComponent("inventory")
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
