package usecase_test

import (
	"context"
	"testing"

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
	admin   = &access.Scope{UserID: "u-admin", Role: entity.RoleSuperAdmin}
	manager = &access.Scope{UserID: "u-mgr", Role: entity.RoleBranchManager, HomeBranchID: "north"}
	staff   = &access.Scope{UserID: "u-inv", Role: entity.RoleInventoryStaff, HomeBranchID: "north"}
)

func seed(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Branches().Create(ctx, &entity.Branch{ID: "north", Name: "North Farm", Status: entity.BranchStatusActive}))
	require.NoError(t, store.Branches().Create(ctx, &entity.Branch{ID: "south", Name: "South Farm", Status: entity.BranchStatusActive}))
	return store
}

// ──────────────────────────────────────────────────────────────────────────────
// Sucursales
// ──────────────────────────────────────────────────────────────────────────────

func TestBranch_ListFiltradoPorAlcance(t *testing.T) {
	store := seed(t)
	uc := usecase.NewBranchUseCase(store.Branches(), store.Users(), store.Customers())
	ctx := context.Background()

	all, err := uc.List(ctx, admin, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
	assert.Equal(t, 2, all.Page.Total)

	own, err := uc.List(ctx, manager, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, own.Items, 1)
	assert.Equal(t, "north", own.Items[0].ID)

	_, err = uc.GetByID(ctx, manager, "south")
	assert.ErrorIs(t, err, domain.ErrScopeViolation)
}

func TestBranch_SoloSuperAdminCrea(t *testing.T) {
	store := seed(t)
	uc := usecase.NewBranchUseCase(store.Branches(), store.Users(), store.Customers())
	in := dto.CreateBranchRequest{Name: "East Farm", Location: "Riverside", FarmType: entity.FarmTypeDairy}

	_, err := uc.Create(context.Background(), manager, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	b, err := uc.Create(context.Background(), admin, in)
	require.NoError(t, err)
	assert.Equal(t, entity.BranchStatusActive, b.Status)
}

func TestBranch_NoSeBorraConClientes(t *testing.T) {
	store := seed(t)
	ctx := context.Background()
	require.NoError(t, store.Customers().Create(ctx, &entity.Customer{ID: "c1", BranchID: "north", Name: "Fresh Market"}))
	uc := usecase.NewBranchUseCase(store.Branches(), store.Users(), store.Customers())

	assert.ErrorIs(t, uc.Delete(ctx, admin, "north"), domain.ErrConflict)
	assert.NoError(t, uc.Delete(ctx, admin, "south"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios
// ──────────────────────────────────────────────────────────────────────────────

func TestUser_ManagerCreaSoloEnSuSucursal(t *testing.T) {
	store := seed(t)
	uc := usecase.NewUserUseCase(store.Users(), store.Branches())
	ctx := context.Background()

	u, err := uc.Create(ctx, manager, dto.CreateUserRequest{
		Email: "field@farmhub.com", Password: "farmhub123", Name: "Field", Role: "field_staff",
	})
	require.NoError(t, err)
	assert.Equal(t, "north", u.BranchID)

	_, err = uc.Create(ctx, manager, dto.CreateUserRequest{
		Email: "x@farmhub.com", Password: "farmhub123", Name: "X", Role: "accountant", BranchID: "south",
	})
	assert.ErrorIs(t, err, domain.ErrScopeViolation)

	_, err = uc.Create(ctx, manager, dto.CreateUserRequest{
		Email: "boss@farmhub.com", Password: "farmhub123", Name: "Boss", Role: "super_admin",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Create(ctx, manager, dto.CreateUserRequest{
		Email: "FIELD@farmhub.com", Password: "farmhub123", Name: "Dup", Role: "field_staff",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestUser_SuperAdminNecesitaSucursalParaOtrosRoles(t *testing.T) {
	store := seed(t)
	uc := usecase.NewUserUseCase(store.Users(), store.Branches())
	ctx := context.Background()

	_, err := uc.Create(ctx, admin, dto.CreateUserRequest{Email: "a@farmhub.com", Password: "farmhub123", Name: "A", Role: "accountant"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, admin, dto.CreateUserRequest{Email: "a@farmhub.com", Password: "farmhub123", Name: "A", Role: "accountant", BranchID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	u, err := uc.Create(ctx, admin, dto.CreateUserRequest{Email: "a@farmhub.com", Password: "farmhub123", Name: "A", Role: "accountant", BranchID: "south"})
	require.NoError(t, err)
	assert.Equal(t, "south", u.BranchID)

	list, err := uc.List(ctx, manager, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items, "el manager de north no ve usuarios de south")
}

func TestUser_SinPermiso(t *testing.T) {
	store := seed(t)
	uc := usecase.NewUserUseCase(store.Users(), store.Branches())
	_, err := uc.List(context.Background(), staff, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes
// ──────────────────────────────────────────────────────────────────────────────

func TestCustomer_CreateYAlcance(t *testing.T) {
	store := seed(t)
	uc := usecase.NewCustomerUseCase(store.Customers(), store.Branches())
	ctx := context.Background()

	c, err := uc.Create(ctx, manager, dto.CreateCustomerRequest{Name: "Fresh Market", Type: "retail"})
	require.NoError(t, err)
	assert.Equal(t, "north", c.BranchID)

	_, err = uc.Create(ctx, admin, dto.CreateCustomerRequest{Name: "Valley Mill", Type: "wholesale"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin sucursal seleccionada hay que indicar branch_id")

	mill, err := uc.Create(ctx, admin, dto.CreateCustomerRequest{Name: "Valley Mill", Type: "wholesale", BranchID: "south"})
	require.NoError(t, err)

	_, err = uc.GetByID(ctx, manager, mill.ID)
	assert.ErrorIs(t, err, domain.ErrScopeViolation)
	assert.ErrorIs(t, uc.Delete(ctx, manager, mill.ID), domain.ErrScopeViolation)

	list, err := uc.List(ctx, manager, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Fresh Market", list.Items[0].Name)

	_, err = uc.List(ctx, staff, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCustomer_PaginacionDespuesDelFiltro(t *testing.T) {
	store := seed(t)
	uc := usecase.NewCustomerUseCase(store.Customers(), store.Branches())
	ctx := context.Background()
	for _, name := range []string{"A", "B", "C"} {
		_, err := uc.Create(ctx, manager, dto.CreateCustomerRequest{Name: name, Type: "retail"})
		require.NoError(t, err)
	}
	list, err := uc.List(ctx, manager, dto.PageRequest{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "B", list.Items[0].Name)
	assert.Equal(t, 3, list.Page.Total)
}
