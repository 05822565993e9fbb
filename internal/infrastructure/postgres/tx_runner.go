package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/FarmHub-api/internal/application/finance"
	"github.com/jhoicas/FarmHub-api/internal/application/inventory"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
)

var (
	_ finance.TxRunner   = (*TxRunner)(nil)
	_ inventory.TxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunFinance inicia una transacción con los repos del ciclo cotización → factura → recibo
// y hace Commit si fn no falla; en cualquier otro caso Rollback.
func (r *TxRunner) RunFinance(ctx context.Context, fn func(
	quoteRepo repository.QuotationRepository,
	invoiceRepo repository.InvoiceRepository,
	receiptRepo repository.ReceiptRepository,
	customerRepo repository.CustomerRepository,
	counterRepo repository.CounterRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewQuotationRepository(tx),
		NewInvoiceRepository(tx),
		NewReceiptRepository(tx),
		NewCustomerRepository(tx),
		NewCounterRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunInventory transacción para movimientos de stock: GetForUpdate bloquea el ítem hasta el Commit.
func (r *TxRunner) RunInventory(ctx context.Context, fn func(
	items repository.InventoryItemRepository,
	movements repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewInventoryItemRepository(tx), NewStockMovementRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
