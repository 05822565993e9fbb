package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/FarmHub-api/internal/application/auth"
	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/application/finance"
	"github.com/jhoicas/FarmHub-api/internal/application/inventory"
	"github.com/jhoicas/FarmHub-api/internal/application/license"
	"github.com/jhoicas/FarmHub-api/internal/application/usecase"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/infrastructure/memory"
	"github.com/jhoicas/FarmHub-api/internal/infrastructure/metrics"
	"github.com/jhoicas/FarmHub-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/FarmHub-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Aplicación completa sobre el almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

type testAPI struct {
	app     *fiber.App
	store   *memory.Store
	license *license.UseCase
	metrics *metrics.PrometheusRecorder
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Branches().Create(ctx, &entity.Branch{ID: "north", Name: "North Farm", Status: entity.BranchStatusActive}))
	require.NoError(t, store.Branches().Create(ctx, &entity.Branch{ID: "south", Name: "South Farm", Status: entity.BranchStatusActive}))

	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(ctx, &entity.User{
		ID: "u-mgr", BranchID: "north", Email: "manager@farm.example", PasswordHash: string(hash),
		Name: "Manager", Role: entity.RoleBranchManager, Status: "active",
	}))

	rec := metrics.NewPrometheusRecorder()
	opts := finance.Options{Metrics: rec}
	quotes := finance.NewQuotationUseCase(store, store.Quotations(), store.Customers(), opts)
	invoices := finance.NewInvoiceUseCase(store, store.Invoices(), store.Customers(), opts)
	receipts := finance.NewReceiptUseCase(store, store.Receipts(), store.Customers(), opts)
	licenseUC := license.NewUseCase(store.Licenses(), 0)
	invOpts := inventory.Options{Metrics: rec}

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(store.Users(), store.Branches(), auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}),
		LicenseUC:   licenseUC,
		BranchUC:    usecase.NewBranchUseCase(store.Branches(), store.Users(), store.Customers()),
		UserUC:      usecase.NewUserUseCase(store.Users(), store.Branches()),
		CustomerUC:  usecase.NewCustomerUseCase(store.Customers(), store.Branches()),
		ItemUC:      inventory.NewItemUseCase(store, store.InventoryItems(), store.Branches(), invOpts),
		MovementUC:  inventory.NewRegisterMovementUseCase(store, store.InventoryItems(), store.StockMovements(), invOpts),
		SupplierUC:  usecase.NewSupplierUseCase(store.Suppliers(), store.Branches()),
		AssetUC:     usecase.NewAssetUseCase(store.Assets(), store.Branches()),
		AttendUC:    usecase.NewAttendanceUseCase(store.Attendance(), store.Users()),
		ActivityUC:  usecase.NewActivityUseCase(store.Activities(), store.Branches()),
		QuotationUC: quotes,
		InvoiceUC:   invoices,
		ReceiptUC:   receipts,
		PrintUC: finance.NewPrintUseCase(store.Quotations(), store.Invoices(), store.Customers(), store.Branches(),
			receipts, pdf.NewMarotoRenderer()),
		JWTSecret: testJWTSecret,
		Metrics:   rec.Handler(),
	})
	return &testAPI{app: app, store: store, license: licenseUC, metrics: rec}
}

func (a *testAPI) activateLicense(t *testing.T) {
	t.Helper()
	_, err := a.license.Purchase(context.Background(), dto.PurchaseLicenseRequest{PlanType: "basic", DurationDays: 30})
	require.NoError(t, err)
}

// call ejecuta la petición y decodifica la respuesta JSON en out (si no es nil).
func (a *testAPI) call(t *testing.T, method, path, token string, body any, out any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	if out != nil {
		defer resp.Body.Close()
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func futureDate() string {
	return time.Now().AddDate(0, 1, 0).Format("2006-01-02")
}

// ──────────────────────────────────────────────────────────────────────────────
// Licencia y sesión
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_SinLicenciaSoloRutasDeLicencia(t *testing.T) {
	api := newTestAPI(t)
	admin := tokenFor(t, "super_admin", "")

	resp := api.call(t, http.MethodGet, "/api/session", admin, nil, nil)
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)

	var status dto.LicenseStatusResponse
	resp = api.call(t, http.MethodGet, "/api/license", admin, nil, &status)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, status.Valid)

	resp = api.call(t, http.MethodPost, "/api/license/purchase", admin,
		dto.PurchaseLicenseRequest{PlanType: "professional", DurationDays: 365}, &status)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, status.Valid)
	assert.Equal(t, 365, status.DaysRemaining)

	var session dto.SessionResponse
	resp = api.call(t, http.MethodGet, "/api/session", admin, nil, &session)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ALL", session.EffectiveBranchID)
}

func TestRouter_CompraDeLicenciaRequiereSettings(t *testing.T) {
	api := newTestAPI(t)
	resp := api.call(t, http.MethodPost, "/api/license/purchase", tokenForRole(t, "branch_manager"),
		dto.PurchaseLicenseRequest{PlanType: "basic", DurationDays: 30}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_LoginYCambioDeSucursal(t *testing.T) {
	api := newTestAPI(t)
	api.activateLicense(t)

	var login dto.LoginResponse
	resp := api.call(t, http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{Email: "manager@farm.example", Password: "secreto123"}, &login)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, "north", login.Session.EffectiveBranchID)

	resp = api.call(t, http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{Email: "manager@farm.example", Password: "incorrecta"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp = api.call(t, http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{Email: "nadie@farm.example", Password: "secreto123"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Un manager no puede cambiar de sucursal: el alcance no cambia.
	var sw dto.SwitchBranchResponse
	resp = api.call(t, http.MethodPost, "/api/session/branch", "Bearer "+login.Token,
		dto.SwitchBranchRequest{BranchID: "south"}, &sw)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, sw.Switched)
	assert.Equal(t, "north", sw.Session.EffectiveBranchID)

	// super_admin sí, y el token reemitido lleva la selección.
	resp = api.call(t, http.MethodPost, "/api/session/branch", tokenFor(t, "super_admin", ""),
		dto.SwitchBranchRequest{BranchID: "south"}, &sw)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, sw.Switched)

	var session dto.SessionResponse
	api.call(t, http.MethodGet, "/api/session", "Bearer "+sw.Token, nil, &session)
	assert.Equal(t, "south", session.EffectiveBranchID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo financiero por HTTP
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_CicloCotizacionFacturaRecibo(t *testing.T) {
	api := newTestAPI(t)
	api.activateLicense(t)
	manager := tokenFor(t, "branch_manager", "north")

	var customer dto.CustomerResponse
	resp := api.call(t, http.MethodPost, "/api/customers", manager,
		dto.CreateCustomerRequest{Name: "Fresh Market", Email: "buyer@fresh.example", Type: "retail"}, &customer)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "north", customer.BranchID)

	var q dto.QuotationResponse
	resp = api.call(t, http.MethodPost, "/api/finance/quotations", manager, dto.CreateQuotationRequest{
		CustomerID: customer.ID,
		Items:      []dto.DocumentItemRequest{{Description: "Corn", Quantity: 500, UnitPrice: decimal.NewFromInt(50)}},
		ValidUntil: futureDate(),
	}, &q)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "draft", q.Status)
	assert.True(t, q.Total.Equal(decimal.NewFromInt(27500)), "total=%s", q.Total)

	// Convertir una cotización no aceptada es una transición inválida.
	resp = api.call(t, http.MethodPost, "/api/finance/quotations/"+q.ID+"/convert", manager, nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = api.call(t, http.MethodPost, "/api/finance/quotations/"+q.ID+"/accept", manager, nil, &q)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "accepted", q.Status)

	var conv dto.ConvertQuotationResponse
	resp = api.call(t, http.MethodPost, "/api/finance/quotations/"+q.ID+"/convert", manager, nil, &conv)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "converted", conv.Quotation.Status)
	assert.Equal(t, q.ValidUntil, conv.Invoice.DueDate)

	// Una cotización convertida ya no se edita.
	resp = api.call(t, http.MethodPut, "/api/finance/quotations/"+q.ID, manager,
		dto.UpdateQuotationRequest{Notes: ptrTo("otra nota")}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var inv dto.InvoiceResponse
	resp = api.call(t, http.MethodPost, "/api/finance/invoices/"+conv.Invoice.ID+"/pay", manager, nil, &inv)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "paid", inv.Status)

	var errResp dto.ErrorResponse
	resp = api.call(t, http.MethodPost, "/api/finance/invoices/"+inv.ID+"/cancel", manager, nil, &errResp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "IMMUTABLE_DOCUMENT", errResp.Code)

	var rc dto.ReceiptResponse
	resp = api.call(t, http.MethodPost, "/api/finance/receipts", manager,
		dto.CreateReceiptRequest{InvoiceID: inv.ID, PaymentMethod: "bank_transfer"}, &rc)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, rc.Amount.Equal(inv.Total))
	assert.False(t, rc.IsPrinted)

	resp = api.call(t, http.MethodPost, "/api/finance/receipts/"+rc.ID+"/print", manager, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), rc.ReceiptNumber)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	var printed dto.PrintReceiptResponse
	resp = api.call(t, http.MethodPost, "/api/finance/receipts/"+rc.ID+"/print?format=json", manager, nil, &printed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, printed.Receipt.IsPrinted)
	assert.Equal(t, "recibo_"+rc.ReceiptNumber+".pdf", printed.Filename)

	resp = api.call(t, http.MethodDelete, "/api/finance/receipts/"+rc.ID, manager, nil, &errResp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "IMMUTABLE_DOCUMENT", errResp.Code)

	resp = api.call(t, http.MethodGet, "/metrics", "", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "farmhub_documents_created_total")
}

func TestRouter_AlcanceYPermisos(t *testing.T) {
	api := newTestAPI(t)
	api.activateLicense(t)
	ctx := context.Background()
	require.NoError(t, api.store.Customers().Create(ctx, &entity.Customer{ID: "fresh", BranchID: "north", Name: "Fresh Market"}))

	var q dto.QuotationResponse
	resp := api.call(t, http.MethodPost, "/api/finance/quotations", tokenFor(t, "branch_manager", "north"), dto.CreateQuotationRequest{
		CustomerID: "fresh",
		Items:      []dto.DocumentItemRequest{{Description: "Hay", Quantity: 10, UnitPrice: decimal.NewFromInt(8)}},
		ValidUntil: futureDate(),
	}, &q)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var errResp dto.ErrorResponse
	resp = api.call(t, http.MethodGet, "/api/finance/quotations/"+q.ID, tokenFor(t, "accountant", "south"), nil, &errResp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "SCOPE_VIOLATION", errResp.Code)

	var list []dto.QuotationResponse
	resp = api.call(t, http.MethodGet, "/api/finance/quotations", tokenFor(t, "accountant", "south"), nil, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, list)

	resp = api.call(t, http.MethodGet, "/api/finance/quotations", tokenFor(t, "field_staff", "north"), nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = api.call(t, http.MethodGet, "/api/finance/quotations/no-existe", tokenFor(t, "super_admin", ""), nil, &errResp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errResp.Code)
}

func TestRouter_ValidacionDelCuerpo(t *testing.T) {
	api := newTestAPI(t)
	api.activateLicense(t)
	manager := tokenFor(t, "branch_manager", "north")

	var errResp dto.ErrorResponse
	resp := api.call(t, http.MethodPost, "/api/finance/quotations", manager, map[string]any{
		"items":       []any{},
		"valid_until": "10/04/2024",
	}, &errResp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errResp.Code)

	fields := map[string]bool{}
	for _, d := range errResp.Details {
		fields[d.Field] = true
	}
	assert.True(t, fields["customer_id"])
	assert.True(t, fields["valid_until"])

	req := httptest.NewRequest(http.MethodPost, "/api/customers", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", manager)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_InventarioAjusteYStockInsuficiente(t *testing.T) {
	api := newTestAPI(t)
	api.activateLicense(t)
	staff := tokenFor(t, "inventory_staff", "north")

	var item dto.InventoryItemResponse
	resp := api.call(t, http.MethodPost, "/api/inventory", staff, map[string]any{
		"name": "Corn seed", "category": "seeds", "quantity": "40", "unit": "kg", "min_stock": "10", "value": "200",
	}, &item)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "north", item.BranchID)

	var adj dto.AdjustStockResponse
	resp = api.call(t, http.MethodPost, "/api/inventory/"+item.ID+"/adjust", staff,
		map[string]any{"type": "OUT", "quantity": "35", "reason": "siembra lote 2"}, &adj)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, adj.Item.Quantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, adj.Item.LowStock)

	var errResp dto.ErrorResponse
	resp = api.call(t, http.MethodPost, "/api/inventory/"+item.ID+"/adjust", staff,
		map[string]any{"type": "OUT", "quantity": "6"}, &errResp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errResp.Code)

	resp = api.call(t, http.MethodPost, "/api/inventory/"+item.ID+"/adjust", staff,
		map[string]any{"type": "TRANSFER", "quantity": "1"}, &errResp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errResp.Code)

	var list dto.InventoryListResponse
	resp = api.call(t, http.MethodGet, "/api/inventory?low_stock=true", staff, nil, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.Summary.LowStockCount)

	var movs dto.StockMovementListResponse
	resp = api.call(t, http.MethodGet, "/api/inventory/"+item.ID+"/movements", staff, nil, &movs)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, movs.Items, 2)

	resp = api.call(t, http.MethodGet, "/api/inventory", tokenFor(t, "accountant", "north"), nil, &errResp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errResp.Code)

	resp = api.call(t, http.MethodGet, "/api/inventory/"+item.ID, tokenFor(t, "branch_manager", "south"), nil, &errResp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "SCOPE_VIOLATION", errResp.Code)

	resp = api.call(t, http.MethodGet, "/metrics", "", nil, nil)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), `farmhub_stock_movements_total{type="OUT"} 1`)
}

func TestRouter_OperacionDeSucursalPorPermiso(t *testing.T) {
	api := newTestAPI(t)
	api.activateLicense(t)
	manager := tokenFor(t, "branch_manager", "north")
	field := tokenFor(t, "field_staff", "north")

	var sup dto.SupplierResponse
	resp := api.call(t, http.MethodPost, "/api/suppliers", tokenFor(t, "accountant", "north"),
		dto.CreateSupplierRequest{Name: "AgroSeeds", Category: "seeds"}, &sup)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = api.call(t, http.MethodPost, "/api/suppliers/"+sup.ID+"/orders", manager, map[string]any{"amount": "300"}, &sup)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, sup.TotalOrders)

	var asset dto.AssetResponse
	resp = api.call(t, http.MethodPost, "/api/assets", manager, map[string]any{
		"name": "Tractor", "type": "machinery", "value": "45000", "purchase_date": "2022-05-01",
	}, &asset)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = api.call(t, http.MethodPost, "/api/assets/"+asset.ID+"/maintenance", manager, nil, &asset)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, asset.LastMaintenance)
	resp = api.call(t, http.MethodGet, "/api/assets", field, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var rec dto.AttendanceResponse
	att := dto.CreateAttendanceRequest{StaffID: "u-mgr", Date: "2024-03-10", CheckIn: "07:00", Status: "present"}
	resp = api.call(t, http.MethodPost, "/api/attendance", field, att, &rec)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Manager", rec.StaffName)
	var errResp dto.ErrorResponse
	resp = api.call(t, http.MethodPost, "/api/attendance", manager, att, &errResp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", errResp.Code)

	var act dto.ActivityResponse
	resp = api.call(t, http.MethodPost, "/api/activities", field,
		dto.CreateActivityRequest{Type: "harvesting", Description: "Trigo lote 1"}, &act)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = api.call(t, http.MethodGet, "/api/activities", manager, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func ptrTo[T any](v T) *T { return &v }
