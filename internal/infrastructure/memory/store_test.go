package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
	"github.com/jhoicas/FarmHub-api/internal/infrastructure/memory"
)

func TestRunFinance_ErrorRestauraElEstado(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	boom := errors.New("boom")

	err := store.RunFinance(ctx, func(
		quoteRepo repository.QuotationRepository,
		_ repository.InvoiceRepository,
		_ repository.ReceiptRepository,
		_ repository.CustomerRepository,
		counterRepo repository.CounterRepository,
	) error {
		_, err := counterRepo.Reserve(ctx, "quotation", 2024)
		require.NoError(t, err)
		require.NoError(t, quoteRepo.Create(ctx, &entity.Quotation{ID: "q1", QuotationNumber: "QT-2024-001"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	q, err := store.Quotations().GetByID(ctx, "q1")
	require.NoError(t, err)
	assert.Nil(t, q, "la cotización no debe persistir tras el rollback")

	n, err := store.Counters().Reserve(ctx, "quotation", 2024)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "el contador tampoco debe avanzar")
}

func TestCounterRepo_ReservasConcurrentesSonUnicas(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	const workers = 50

	var wg sync.WaitGroup
	seen := make(chan int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := store.Counters().Reserve(ctx, "invoice", 2025)
			assert.NoError(t, err)
			seen <- n
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[int]bool)
	for n := range seen {
		unique[n] = true
	}
	assert.Len(t, unique, workers)
}

func TestQuotationRepo_ClonaAlLeerYEscribir(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := store.Quotations()

	q := &entity.Quotation{
		ID:              "q1",
		QuotationNumber: "QT-2024-001",
		Items:           []entity.DocumentItem{{ID: "i1", Description: "Corn", Quantity: 1, UnitPrice: decimal.NewFromInt(5)}},
	}
	require.NoError(t, repo.Create(ctx, q))
	q.Items[0].Quantity = 99

	got, err := repo.GetByID(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Items[0].Quantity)

	got.Items[0].Quantity = 42
	again, _ := repo.GetByID(ctx, "q1")
	assert.Equal(t, int64(1), again.Items[0].Quantity)
}

func TestQuotationRepo_NumeroDuplicado(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Quotations()
	require.NoError(t, repo.Create(ctx, &entity.Quotation{ID: "a", QuotationNumber: "QT-2024-001"}))
	err := repo.Create(ctx, &entity.Quotation{ID: "b", QuotationNumber: "QT-2024-001"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestInvoiceRepo_ListByBranchOrdenMasRecientePrimero(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Invoices()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, &entity.Invoice{ID: "1", InvoiceNumber: "INV-2024-001", BranchID: "b1", CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, &entity.Invoice{ID: "2", InvoiceNumber: "INV-2024-002", BranchID: "b2", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &entity.Invoice{ID: "3", InvoiceNumber: "INV-2024-003", BranchID: "b1", CreatedAt: base.Add(2 * time.Hour)}))

	b1, err := repo.ListByBranch(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, b1, 2)
	assert.Equal(t, "3", b1[0].ID)
	assert.Equal(t, "1", b1[1].ID)

	all, _ := repo.ListByBranch(ctx, "")
	assert.Len(t, all, 3)
}

func TestUserRepo_EmailUnicoSinMayusculas(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Users()
	require.NoError(t, repo.Create(ctx, &entity.User{ID: "u1", Email: "admin@farmhub.com"}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.User{ID: "u2", Email: "ADMIN@farmhub.com"}), domain.ErrDuplicate)

	u, err := repo.GetByEmail(ctx, "Admin@FarmHub.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)
}

func TestRunInventory_ErrorRestauraElEstado(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.InventoryItems().Create(ctx, &entity.InventoryItem{ID: "seed", BranchID: "north", Name: "Corn seed", Quantity: decimal.NewFromInt(10)}))

	err := store.RunInventory(ctx, func(items repository.InventoryItemRepository, movements repository.StockMovementRepository) error {
		it, err := items.GetForUpdate(ctx, "seed")
		require.NoError(t, err)
		it.Quantity = decimal.NewFromInt(2)
		require.NoError(t, items.Update(ctx, it))
		require.NoError(t, movements.Create(ctx, &entity.StockMovement{ID: "m1", ItemID: "seed", Type: entity.MovementTypeOUT}))
		return domain.ErrInsufficientStock
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	it, err := store.InventoryItems().GetByID(ctx, "seed")
	require.NoError(t, err)
	assert.True(t, it.Quantity.Equal(decimal.NewFromInt(10)))
	movs, err := store.StockMovements().ListByItem(ctx, "seed")
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestInventoryItemRepo_DeleteBorraMovimientos(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.InventoryItems().Create(ctx, &entity.InventoryItem{ID: "a", Name: "A"}))
	require.NoError(t, store.InventoryItems().Create(ctx, &entity.InventoryItem{ID: "b", Name: "B"}))
	require.NoError(t, store.StockMovements().Create(ctx, &entity.StockMovement{ID: "m1", ItemID: "a"}))
	require.NoError(t, store.StockMovements().Create(ctx, &entity.StockMovement{ID: "m2", ItemID: "b"}))
	require.NoError(t, store.StockMovements().Create(ctx, &entity.StockMovement{ID: "m3", ItemID: "a"}))

	movs, err := store.StockMovements().ListByItem(ctx, "a")
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, "m3", movs[0].ID, "el más reciente primero")

	require.NoError(t, store.InventoryItems().Delete(ctx, "a"))
	movs, err = store.StockMovements().ListByItem(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, movs)
	movs, err = store.StockMovements().ListByItem(ctx, "b")
	require.NoError(t, err)
	assert.Len(t, movs, 1)

	assert.ErrorIs(t, store.StockMovements().Create(ctx, &entity.StockMovement{ID: "m4", ItemID: "a"}), domain.ErrInvalidReference)
}

func TestAttendanceRepo_UnoPorTrabajadorYFecha(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	repo := store.Attendance()

	require.NoError(t, repo.Create(ctx, &entity.AttendanceRecord{ID: "r1", BranchID: "north", StaffID: "u1", Date: day}))
	err := repo.Create(ctx, &entity.AttendanceRecord{ID: "r2", BranchID: "north", StaffID: "u1", Date: day.Add(8 * time.Hour)})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	require.NoError(t, repo.Create(ctx, &entity.AttendanceRecord{ID: "r3", BranchID: "north", StaffID: "u1", Date: day.AddDate(0, 0, 1)}))

	list, err := repo.ListByBranch(ctx, "north", day)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "r1", list[0].ID)

	all, err := repo.ListByBranch(ctx, "", time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
