package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/application/usecase"
	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/access"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/infrastructure/memory"
)

var (
	fieldStaff = &access.Scope{UserID: "u-field", Role: entity.RoleFieldStaff, HomeBranchID: "north"}
	southMgr   = &access.Scope{UserID: "u-south", Role: entity.RoleBranchManager, HomeBranchID: "south"}
)

func ptr[T any](v T) *T { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// Proveedores
// ──────────────────────────────────────────────────────────────────────────────

func TestSupplier_PedidosYConteoDeActivos(t *testing.T) {
	store := seed(t)
	uc := usecase.NewSupplierUseCase(store.Suppliers(), store.Branches())
	ctx := context.Background()

	agro, err := uc.Create(ctx, staff, dto.CreateSupplierRequest{Name: "AgroSeeds", Category: "seeds"})
	require.NoError(t, err)
	assert.Equal(t, "active", agro.Status)
	assert.Equal(t, "north", agro.BranchID)

	feed, err := uc.Create(ctx, manager, dto.CreateSupplierRequest{Name: "FeedCo", Category: "feed"})
	require.NoError(t, err)

	s, err := uc.RecordOrder(ctx, staff, agro.ID, dto.RecordSupplierOrderRequest{Amount: decimal.RequireFromString("1250.505")})
	require.NoError(t, err)
	s, err = uc.RecordOrder(ctx, staff, agro.ID, dto.RecordSupplierOrderRequest{Amount: decimal.NewFromInt(750)})
	require.NoError(t, err)
	assert.Equal(t, 2, s.TotalOrders)
	assert.True(t, s.TotalValue.Equal(decimal.RequireFromString("2000.51")), "total=%s", s.TotalValue)

	_, err = uc.RecordOrder(ctx, staff, agro.ID, dto.RecordSupplierOrderRequest{Amount: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(ctx, manager, feed.ID, dto.UpdateSupplierRequest{Status: ptr("inactive")})
	require.NoError(t, err)
	_, err = uc.RecordOrder(ctx, manager, feed.ID, dto.RecordSupplierOrderRequest{Amount: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, domain.ErrConflict)

	list, err := uc.List(ctx, manager, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, 1, list.ActiveCount)

	_, err = uc.GetByID(ctx, southMgr, agro.ID)
	assert.ErrorIs(t, err, domain.ErrScopeViolation)
	_, err = uc.List(ctx, fieldStaff, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Activos
// ──────────────────────────────────────────────────────────────────────────────

func TestAsset_MantenimientoYRetiro(t *testing.T) {
	store := seed(t)
	uc := usecase.NewAssetUseCase(store.Assets(), store.Branches())
	ctx := context.Background()

	tractor, err := uc.Create(ctx, manager, dto.CreateAssetRequest{
		Name: "Tractor", Type: "machinery", Value: decimal.NewFromInt(45000), PurchaseDate: "2022-05-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "operational", tractor.Status)
	assert.Empty(t, tractor.LastMaintenance)

	_, err = uc.Update(ctx, manager, tractor.ID, dto.UpdateAssetRequest{Status: ptr("maintenance")})
	require.NoError(t, err)

	a, err := uc.RecordMaintenance(ctx, manager, tractor.ID, dto.AssetMaintenanceRequest{Date: "2024-03-01"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", a.LastMaintenance)
	assert.Equal(t, "operational", a.Status)

	_, err = uc.RecordMaintenance(ctx, manager, tractor.ID, dto.AssetMaintenanceRequest{Date: "2021-01-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(ctx, manager, tractor.ID, dto.UpdateAssetRequest{Status: ptr("retired")})
	require.NoError(t, err)
	_, err = uc.Update(ctx, manager, tractor.ID, dto.UpdateAssetRequest{Status: ptr("operational")})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = uc.RecordMaintenance(ctx, manager, tractor.ID, dto.AssetMaintenanceRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestAsset_ListResumenPorEstado(t *testing.T) {
	store := seed(t)
	uc := usecase.NewAssetUseCase(store.Assets(), store.Branches())
	ctx := context.Background()

	for _, in := range []dto.CreateAssetRequest{
		{Name: "Tractor", Type: "machinery", Value: decimal.NewFromInt(45000), PurchaseDate: "2022-05-01", BranchID: "north"},
		{Name: "Pickup", Type: "vehicle", Value: decimal.NewFromInt(30000), PurchaseDate: "2023-01-10", BranchID: "north"},
		{Name: "Barn", Type: "building", Value: decimal.NewFromInt(80000), PurchaseDate: "2015-07-01", BranchID: "south"},
	} {
		_, err := uc.Create(ctx, admin, in)
		require.NoError(t, err)
	}

	list, err := uc.List(ctx, manager, dto.AssetFilter{}, dto.PageRequest{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 2, list.Page.Total)
	assert.Equal(t, 2, list.Summary.Operational)
	assert.True(t, list.Summary.TotalValue.Equal(decimal.NewFromInt(75000)))

	vehicles, err := uc.List(ctx, admin, dto.AssetFilter{Type: "vehicle"}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, vehicles.Items, 1)
	assert.Equal(t, "Pickup", vehicles.Items[0].Name)
}

// ──────────────────────────────────────────────────────────────────────────────
// Asistencia
// ──────────────────────────────────────────────────────────────────────────────

func seedWorker(t *testing.T, store *memory.Store, id, branchID string) {
	t.Helper()
	require.NoError(t, store.Users().Create(context.Background(), &entity.User{
		ID: id, BranchID: branchID, Email: id + "@farm.example", Name: "Worker " + id, Role: entity.RoleFieldStaff, Status: "active",
	}))
}

func TestAttendance_UnRegistroPorTrabajadorYFecha(t *testing.T) {
	store := seed(t)
	seedWorker(t, store, "w1", "north")
	seedWorker(t, store, "w2", "north")
	seedWorker(t, store, "w3", "south")
	uc := usecase.NewAttendanceUseCase(store.Attendance(), store.Users())
	ctx := context.Background()

	rec, err := uc.Create(ctx, fieldStaff, dto.CreateAttendanceRequest{StaffID: "w1", Date: "2024-03-10", CheckIn: "07:00", CheckOut: "15:30", Status: "present"})
	require.NoError(t, err)
	assert.Equal(t, "north", rec.BranchID)
	assert.Equal(t, "Worker w1", rec.StaffName)

	_, err = uc.Create(ctx, manager, dto.CreateAttendanceRequest{StaffID: "w1", Date: "2024-03-10", Status: "late", CheckIn: "08:10"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, manager, dto.CreateAttendanceRequest{StaffID: "w2", Date: "2024-03-10", Status: "absent", CheckIn: "07:00"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "una ausencia no lleva horas")
	_, err = uc.Create(ctx, manager, dto.CreateAttendanceRequest{StaffID: "w2", Date: "2024-03-10", Status: "present", CheckIn: "15:00", CheckOut: "07:00"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, manager, dto.CreateAttendanceRequest{StaffID: "w2", Date: "2024-03-10", Status: "absent"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, manager, dto.CreateAttendanceRequest{StaffID: "w3", Date: "2024-03-10", Status: "present"})
	assert.ErrorIs(t, err, domain.ErrScopeViolation)
	_, err = uc.Create(ctx, manager, dto.CreateAttendanceRequest{StaffID: "ghost", Date: "2024-03-10", Status: "present"})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	list, err := uc.List(ctx, manager, dto.AttendanceFilter{Date: "2024-03-10"}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, 1, list.Summary.Present)
	assert.Equal(t, 1, list.Summary.Absent)

	other, err := uc.List(ctx, manager, dto.AttendanceFilter{Date: "2024-03-11"}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, other.Items)

	upd, err := uc.Update(ctx, manager, rec.ID, dto.UpdateAttendanceRequest{Status: ptr("absent")})
	require.NoError(t, err)
	assert.Empty(t, upd.CheckIn, "pasar a ausente borra las horas")

	_, err = uc.List(ctx, staff, dto.AttendanceFilter{}, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Actividades
// ──────────────────────────────────────────────────────────────────────────────

func TestActivity_FeedMasRecientePrimero(t *testing.T) {
	store := seed(t)
	uc := usecase.NewActivityUseCase(store.Activities(), store.Branches())
	ctx := context.Background()

	_, err := uc.Create(ctx, fieldStaff, dto.CreateActivityRequest{Type: "planting", Description: "Corn, lote 4", Date: "2024-03-01"})
	require.NoError(t, err)
	harvest, err := uc.Create(ctx, fieldStaff, dto.CreateActivityRequest{Type: "harvesting", Description: "Trigo", Date: "2024-03-05"})
	require.NoError(t, err)
	assert.Equal(t, "u-field", harvest.StaffID)
	assert.Equal(t, "north", harvest.BranchID)

	today, err := uc.Create(ctx, fieldStaff, dto.CreateActivityRequest{Type: "feeding", Description: "Ganado"})
	require.NoError(t, err)
	assert.NotEmpty(t, today.Date)

	_, err = uc.Create(ctx, fieldStaff, dto.CreateActivityRequest{Type: "dancing", Description: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, fieldStaff, dto.CreateActivityRequest{Type: "feeding", Description: "x", BranchID: "south"})
	assert.ErrorIs(t, err, domain.ErrScopeViolation)

	list, err := uc.List(ctx, fieldStaff, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 3)
	assert.Equal(t, "feeding", list.Items[0].Type)
	assert.Equal(t, "planting", list.Items[2].Type)

	_, err = uc.List(ctx, manager, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden, "branch_manager no tiene activities")

	require.NoError(t, uc.Delete(ctx, admin, harvest.ID))
	list, err = uc.List(ctx, admin, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
}
