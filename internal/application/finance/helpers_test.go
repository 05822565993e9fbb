package finance_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/application/finance"
	"github.com/jhoicas/FarmHub-api/internal/domain/access"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/infrastructure/memory"
)

var fixedNow = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

// recordingNotifier guarda las notificaciones; failWith simula un SMTP caído.
type recordingNotifier struct {
	mu       sync.Mutex
	sent     []finance.DocumentNotification
	failWith error
}

func (n *recordingNotifier) NotifyDocument(_ context.Context, d finance.DocumentNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, d)
	return n.failWith
}

type recordingMetrics struct {
	mu          sync.Mutex
	created     []string
	transitions []string
	rejected    []string
}

func (m *recordingMetrics) DocumentCreated(kind, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, kind+":"+status)
}

func (m *recordingMetrics) DocumentTransition(kind, from, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions = append(m.transitions, kind+":"+from+"->"+to)
}

func (m *recordingMetrics) DocumentRejected(kind, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected = append(m.rejected, kind+":"+reason)
}

type fakeRenderer struct {
	last finance.PrintData
	err  error
}

func (r *fakeRenderer) Render(_ context.Context, data finance.PrintData) ([]byte, error) {
	r.last = data
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-" + data.Number), nil
}

type fixture struct {
	store      *memory.Store
	quotes     *finance.QuotationUseCase
	invoices   *finance.InvoiceUseCase
	receipts   *finance.ReceiptUseCase
	printer    *finance.PrintUseCase
	notifier   *recordingNotifier
	metrics    *recordingMetrics
	renderer   *fakeRenderer
	admin      *access.Scope // super_admin, todas las sucursales
	manager    *access.Scope // branch_manager de north
	southAcct  *access.Scope // accountant de south
	fieldStaff *access.Scope // field_staff de north (sin finance)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.Branches().Create(ctx, &entity.Branch{ID: "north", Name: "North Farm", Status: entity.BranchStatusActive}))
	require.NoError(t, store.Branches().Create(ctx, &entity.Branch{ID: "south", Name: "South Farm", Status: entity.BranchStatusActive}))
	require.NoError(t, store.Customers().Create(ctx, &entity.Customer{ID: "fresh", BranchID: "north", Name: "Fresh Market", Email: "buyer@fresh.example"}))
	require.NoError(t, store.Customers().Create(ctx, &entity.Customer{ID: "mill", BranchID: "south", Name: "Valley Mill"}))

	f := &fixture{
		store:      store,
		notifier:   &recordingNotifier{},
		metrics:    &recordingMetrics{},
		renderer:   &fakeRenderer{},
		admin:      &access.Scope{UserID: "u-admin", Role: entity.RoleSuperAdmin},
		manager:    &access.Scope{UserID: "u-mgr", Role: entity.RoleBranchManager, HomeBranchID: "north"},
		southAcct:  &access.Scope{UserID: "u-acct", Role: entity.RoleAccountant, HomeBranchID: "south"},
		fieldStaff: &access.Scope{UserID: "u-field", Role: entity.RoleFieldStaff, HomeBranchID: "north"},
	}
	opts := finance.Options{
		Notifier: f.notifier,
		Metrics:  f.metrics,
		Now:      func() time.Time { return fixedNow },
	}
	f.quotes = finance.NewQuotationUseCase(store, store.Quotations(), store.Customers(), opts)
	f.invoices = finance.NewInvoiceUseCase(store, store.Invoices(), store.Customers(), opts)
	f.receipts = finance.NewReceiptUseCase(store, store.Receipts(), store.Customers(), opts)
	f.printer = finance.NewPrintUseCase(store.Quotations(), store.Invoices(), store.Customers(), store.Branches(), f.receipts, f.renderer)
	return f
}

func cornItems() []dto.DocumentItemRequest {
	return []dto.DocumentItemRequest{{Description: "Corn", Quantity: 500, UnitPrice: decimal.NewFromInt(50)}}
}

func (f *fixture) createQuotation(t *testing.T, scope *access.Scope) *dto.QuotationResponse {
	t.Helper()
	q, err := f.quotes.Create(context.Background(), scope, dto.CreateQuotationRequest{
		CustomerID: "fresh",
		Items:      cornItems(),
		ValidUntil: "2024-04-10",
	})
	require.NoError(t, err)
	return q
}

func (f *fixture) paidInvoice(t *testing.T) *dto.InvoiceResponse {
	t.Helper()
	ctx := context.Background()
	inv, err := f.invoices.Create(ctx, f.manager, dto.CreateInvoiceRequest{
		CustomerID: "fresh",
		Items:      cornItems(),
		DueDate:    "2024-04-10",
	})
	require.NoError(t, err)
	paid, err := f.invoices.MarkPaid(ctx, f.manager, inv.ID)
	require.NoError(t, err)
	return paid
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

