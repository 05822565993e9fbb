package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/FarmHub-api/internal/application/finance"
	"github.com/jhoicas/FarmHub-api/internal/application/inventory"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
	"github.com/jhoicas/FarmHub-api/internal/infrastructure/memory"
	"github.com/jhoicas/FarmHub-api/internal/infrastructure/postgres"
	"github.com/jhoicas/FarmHub-api/pkg/config"
	"github.com/jhoicas/FarmHub-api/pkg/logger"
)

// txRunner transacciones de documentos e inventario sobre el mismo almacén.
type txRunner interface {
	finance.TxRunner
	inventory.TxRunner
}

// repositories implementaciones elegidas según STORE_DRIVER.
type repositories struct {
	tx         txRunner
	branches   repository.BranchRepository
	users      repository.UserRepository
	customers  repository.CustomerRepository
	quotations repository.QuotationRepository
	invoices   repository.InvoiceRepository
	receipts   repository.ReceiptRepository
	licenses   repository.LicenseRepository
	items      repository.InventoryItemRepository
	movements  repository.StockMovementRepository
	suppliers  repository.SupplierRepository
	assets     repository.AssetRepository
	attendance repository.AttendanceRepository
	activities repository.ActivityRepository
	close      func()
}

func openRepositories(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repositories, error) {
	if cfg.App.StoreDriver == config.StoreMemory {
		store := memory.NewStore()
		return &repositories{
			tx:         store,
			branches:   store.Branches(),
			users:      store.Users(),
			customers:  store.Customers(),
			quotations: store.Quotations(),
			invoices:   store.Invoices(),
			receipts:   store.Receipts(),
			licenses:   store.Licenses(),
			items:      store.InventoryItems(),
			movements:  store.StockMovements(),
			suppliers:  store.Suppliers(),
			assets:     store.Assets(),
			attendance: store.Attendance(),
			activities: store.Activities(),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migraciones: %w", err)
	}
	return &repositories{
		tx:         postgres.NewTxRunner(pool),
		branches:   postgres.NewBranchRepository(pool),
		users:      postgres.NewUserRepository(pool),
		customers:  postgres.NewCustomerRepository(pool),
		quotations: postgres.NewQuotationRepository(pool),
		invoices:   postgres.NewInvoiceRepository(pool),
		receipts:   postgres.NewReceiptRepository(pool),
		licenses:   postgres.NewLicenseRepository(pool),
		items:      postgres.NewInventoryItemRepository(pool),
		movements:  postgres.NewStockMovementRepository(pool),
		suppliers:  postgres.NewSupplierRepository(pool),
		assets:     postgres.NewAssetRepository(pool),
		attendance: postgres.NewAttendanceRepository(pool),
		activities: postgres.NewActivityRepository(pool),
		close:      pool.Close,
	}, nil
}
