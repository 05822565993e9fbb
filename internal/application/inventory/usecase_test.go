package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/application/inventory"
	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/access"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/infrastructure/memory"
)

var (
	fixedNow = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

	admin      = &access.Scope{UserID: "u-admin", Role: entity.RoleSuperAdmin}
	northStaff = &access.Scope{UserID: "u-inv", Role: entity.RoleInventoryStaff, HomeBranchID: "north"}
	southMgr   = &access.Scope{UserID: "u-south", Role: entity.RoleBranchManager, HomeBranchID: "south"}
	accountant = &access.Scope{UserID: "u-acct", Role: entity.RoleAccountant, HomeBranchID: "north"}
)

type countingRecorder struct {
	mu    sync.Mutex
	moves map[string]int
}

func (r *countingRecorder) StockMoved(t string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.moves == nil {
		r.moves = map[string]int{}
	}
	r.moves[t]++
}

type fixture struct {
	store     *memory.Store
	items     *inventory.ItemUseCase
	movements *inventory.RegisterMovementUseCase
	metrics   *countingRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Branches().Create(ctx, &entity.Branch{ID: "north", Name: "North Farm", Status: entity.BranchStatusActive}))
	require.NoError(t, store.Branches().Create(ctx, &entity.Branch{ID: "south", Name: "South Farm", Status: entity.BranchStatusActive}))

	f := &fixture{store: store, metrics: &countingRecorder{}}
	opts := inventory.Options{Metrics: f.metrics, Now: func() time.Time { return fixedNow }}
	f.items = inventory.NewItemUseCase(store, store.InventoryItems(), store.Branches(), opts)
	f.movements = inventory.NewRegisterMovementUseCase(store, store.InventoryItems(), store.StockMovements(), opts)
	return f
}

func (f *fixture) seedCorn(t *testing.T) *dto.InventoryItemResponse {
	t.Helper()
	it, err := f.items.Create(context.Background(), northStaff, dto.CreateInventoryItemRequest{
		Name: "Corn seed", Category: "seeds", Quantity: decimal.NewFromInt(100), Unit: "kg",
		MinStock: decimal.NewFromInt(20), Value: decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	return it
}

func TestItem_CreateRegistraExistenciaInicial(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	it := f.seedCorn(t)
	assert.Equal(t, "north", it.BranchID)
	assert.False(t, it.LowStock)

	movs, err := f.movements.ListMovements(ctx, northStaff, it.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, movs.Items, 1)
	assert.Equal(t, entity.MovementTypeIN, movs.Items[0].Type)
	assert.True(t, movs.Items[0].QuantityAfter.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "u-inv", movs.Items[0].CreatedBy)
	assert.Equal(t, 1, f.metrics.moves[entity.MovementTypeIN])
}

func TestItem_SuperAdminSinSucursalNecesitaBranchID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	in := dto.CreateInventoryItemRequest{Name: "Hay", Category: "feed", Unit: "bales"}

	_, err := f.items.Create(ctx, admin, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in.BranchID = "east"
	_, err = f.items.Create(ctx, admin, in)
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	in.BranchID = "south"
	it, err := f.items.Create(ctx, admin, in)
	require.NoError(t, err)
	assert.Equal(t, "south", it.BranchID)
	assert.True(t, it.LowStock, "cero existencia con mínimo cero está en el mínimo")
}

func TestItem_PermisoYAlcance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	it := f.seedCorn(t)

	_, err := f.items.List(ctx, accountant, dto.InventoryFilter{}, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.items.GetByID(ctx, southMgr, it.ID)
	assert.ErrorIs(t, err, domain.ErrScopeViolation)

	_, err = f.movements.RegisterMovement(ctx, southMgr, it.ID, dto.AdjustStockRequest{Type: "OUT", Quantity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrScopeViolation)

	list, err := f.items.List(ctx, southMgr, dto.InventoryFilter{}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	list, err = f.items.List(ctx, admin, dto.InventoryFilter{}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestItem_ListFiltrosYResumen(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedCorn(t)
	_, err := f.items.Create(ctx, northStaff, dto.CreateInventoryItemRequest{
		Name: "Urea", Category: "fertilizers", Quantity: decimal.NewFromInt(5), Unit: "bags",
		MinStock: decimal.NewFromInt(10), Value: decimal.NewFromInt(150),
	})
	require.NoError(t, err)

	all, err := f.items.List(ctx, northStaff, dto.InventoryFilter{}, dto.PageRequest{Limit: 1})
	require.NoError(t, err)
	require.Len(t, all.Items, 1)
	assert.Equal(t, "Corn seed", all.Items[0].Name)
	assert.Equal(t, 2, all.Page.Total)
	assert.Equal(t, 1, all.Summary.LowStockCount)
	assert.True(t, all.Summary.TotalValue.Equal(decimal.NewFromInt(650)), "el resumen cubre todo el filtro")

	low, err := f.items.List(ctx, northStaff, dto.InventoryFilter{LowStock: true}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, low.Items, 1)
	assert.Equal(t, "Urea", low.Items[0].Name)

	search, err := f.items.List(ctx, northStaff, dto.InventoryFilter{Search: "CORN", Category: "seeds"}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, search.Items, 1)
}

func TestMovement_EntradaSalidaYAjuste(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	it := f.seedCorn(t)

	// 100 kg valen 500 (5/kg); entran 100 a 7 -> 200 kg, valor 1200.
	res, err := f.movements.RegisterMovement(ctx, northStaff, it.ID, dto.AdjustStockRequest{
		Type: "IN", Quantity: decimal.NewFromInt(100), UnitCost: ptr(decimal.NewFromInt(7)), Reason: "compra",
	})
	require.NoError(t, err)
	assert.True(t, res.Item.Quantity.Equal(decimal.NewFromInt(200)))
	assert.True(t, res.Item.Value.Equal(decimal.NewFromInt(1200)), "value=%s", res.Item.Value)

	res, err = f.movements.RegisterMovement(ctx, northStaff, it.ID, dto.AdjustStockRequest{Type: "OUT", Quantity: decimal.NewFromInt(50)})
	require.NoError(t, err)
	assert.True(t, res.Movement.Quantity.Equal(decimal.NewFromInt(-50)))
	assert.True(t, res.Movement.QuantityBefore.Equal(decimal.NewFromInt(200)))
	assert.True(t, res.Item.Value.Equal(decimal.NewFromInt(900)))

	res, err = f.movements.RegisterMovement(ctx, northStaff, it.ID, dto.AdjustStockRequest{Type: "ADJUSTMENT", Quantity: decimal.NewFromInt(-500), Reason: "conteo"})
	require.NoError(t, err)
	assert.True(t, res.Item.Quantity.IsZero())
	assert.True(t, res.Movement.Quantity.Equal(decimal.NewFromInt(-150)), "se registra el cambio aplicado")
	assert.True(t, res.Item.LowStock)

	movs, err := f.movements.ListMovements(ctx, northStaff, it.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, movs.Items, 4)
	assert.Equal(t, entity.MovementTypeADJUSTMENT, movs.Items[0].Type)
	assert.Equal(t, 1, f.metrics.moves[entity.MovementTypeOUT])
}

func TestMovement_SalidaSinExistenciaNoDejaRastro(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	it := f.seedCorn(t)

	_, err := f.movements.RegisterMovement(ctx, northStaff, it.ID, dto.AdjustStockRequest{Type: "OUT", Quantity: decimal.NewFromInt(101)})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := f.items.GetByID(ctx, northStaff, it.ID)
	require.NoError(t, err)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(100)))
	movs, err := f.movements.ListMovements(ctx, northStaff, it.ID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, movs.Items, 1)

	_, err = f.movements.RegisterMovement(ctx, northStaff, "missing", dto.AdjustStockRequest{Type: "IN", Quantity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMovement_SalidasConcurrentesNoSobregiran(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	it := f.seedCorn(t)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.movements.RegisterMovement(ctx, northStaff, it.ID, dto.AdjustStockRequest{Type: "OUT", Quantity: decimal.NewFromInt(10)})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	got, err := f.items.GetByID(ctx, northStaff, it.ID)
	require.NoError(t, err)
	assert.True(t, got.Quantity.IsZero())
}

func TestItem_UpdateYDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	it := f.seedCorn(t)

	upd, err := f.items.Update(ctx, northStaff, it.ID, dto.UpdateInventoryItemRequest{MinStock: ptr(decimal.NewFromInt(150))})
	require.NoError(t, err)
	assert.True(t, upd.LowStock)
	assert.True(t, upd.Quantity.Equal(decimal.NewFromInt(100)), "update no toca la cantidad")

	_, err = f.items.Update(ctx, northStaff, it.ID, dto.UpdateInventoryItemRequest{Value: ptr(decimal.NewFromInt(-1))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, f.items.Delete(ctx, northStaff, it.ID))
	_, err = f.items.GetByID(ctx, northStaff, it.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	movs, err := f.store.StockMovements().ListByItem(ctx, it.ID)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func ptr[T any](v T) *T { return &v }
