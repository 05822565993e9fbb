// Package memory implementa los repositorios en memoria (STORE_DRIVER=memory y tests).
// Un único mutex serializa las escrituras; RunFinance y RunInventory restauran una copia del estado
// si fn falla, con lo que una operación rechazada no deja cambios.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/FarmHub-api/internal/application/finance"
	"github.com/jhoicas/FarmHub-api/internal/application/inventory"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
)

var (
	_ finance.TxRunner   = (*Store)(nil)
	_ inventory.TxRunner = (*Store)(nil)
)

type counterKey struct {
	kind string
	year int
}

// state todo lo persistido. Las entidades se guardan y devuelven clonadas.
type state struct {
	branches   map[string]*entity.Branch
	users      map[string]*entity.User
	customers  map[string]*entity.Customer
	quotations map[string]*entity.Quotation
	invoices   map[string]*entity.Invoice
	receipts   map[string]*entity.Receipt
	counters   map[counterKey]int
	license    *entity.License

	items      map[string]*entity.InventoryItem
	movements  []*entity.StockMovement // orden de inserción
	suppliers  map[string]*entity.Supplier
	assets     map[string]*entity.Asset
	attendance map[string]*entity.AttendanceRecord
	activities map[string]*entity.Activity
}

func newState() *state {
	return &state{
		branches:   make(map[string]*entity.Branch),
		users:      make(map[string]*entity.User),
		customers:  make(map[string]*entity.Customer),
		quotations: make(map[string]*entity.Quotation),
		invoices:   make(map[string]*entity.Invoice),
		receipts:   make(map[string]*entity.Receipt),
		counters:   make(map[counterKey]int),
		items:      make(map[string]*entity.InventoryItem),
		suppliers:  make(map[string]*entity.Supplier),
		assets:     make(map[string]*entity.Asset),
		attendance: make(map[string]*entity.AttendanceRecord),
		activities: make(map[string]*entity.Activity),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.branches {
		b := *v
		c.branches[k] = &b
	}
	for k, v := range s.users {
		u := *v
		c.users[k] = &u
	}
	for k, v := range s.customers {
		cu := *v
		c.customers[k] = &cu
	}
	for k, v := range s.quotations {
		c.quotations[k] = v.Clone()
	}
	for k, v := range s.invoices {
		c.invoices[k] = v.Clone()
	}
	for k, v := range s.receipts {
		c.receipts[k] = v.Clone()
	}
	for k, v := range s.counters {
		c.counters[k] = v
	}
	if s.license != nil {
		l := *s.license
		c.license = &l
	}
	for k, v := range s.items {
		it := *v
		c.items[k] = &it
	}
	c.movements = make([]*entity.StockMovement, 0, len(s.movements))
	for _, m := range s.movements {
		mv := *m
		c.movements = append(c.movements, &mv)
	}
	for k, v := range s.suppliers {
		su := *v
		c.suppliers[k] = &su
	}
	for k, v := range s.assets {
		c.assets[k] = v.Clone()
	}
	for k, v := range s.attendance {
		a := *v
		c.attendance[k] = &a
	}
	for k, v := range s.activities {
		a := *v
		c.activities[k] = &a
	}
	return c
}

// Store almacén en memoria seguro para uso concurrente.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// view acceso a los datos: fuera de transacción cada llamada toma el mutex;
// dentro de RunFinance el mutex ya está tomado por la transacción.
type view struct {
	s    *Store
	inTx bool
}

func (v view) rlock() func() {
	if v.inTx {
		return func() {}
	}
	v.s.mu.RLock()
	return v.s.mu.RUnlock
}

func (v view) lock() func() {
	if v.inTx {
		return func() {}
	}
	v.s.mu.Lock()
	return v.s.mu.Unlock
}

// Repositorios fuera de transacción.

func (s *Store) Branches() *BranchRepo { return &BranchRepo{view{s: s}} }
func (s *Store) Users() *UserRepo { return &UserRepo{view{s: s}} }
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{view{s: s}} }
func (s *Store) Quotations() *QuotationRepo { return &QuotationRepo{view{s: s}} }
func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{view{s: s}} }
func (s *Store) Receipts() *ReceiptRepo { return &ReceiptRepo{view{s: s}} }
func (s *Store) Counters() *CounterRepo { return &CounterRepo{view{s: s}} }
func (s *Store) Licenses() *LicenseRepo { return &LicenseRepo{view{s: s}} }
func (s *Store) InventoryItems() *InventoryItemRepo { return &InventoryItemRepo{view{s: s}} }
func (s *Store) StockMovements() *StockMovementRepo { return &StockMovementRepo{view{s: s}} }
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{view{s: s}} }
func (s *Store) Assets() *AssetRepo { return &AssetRepo{view{s: s}} }
func (s *Store) Attendance() *AttendanceRepo { return &AttendanceRepo{view{s: s}} }
func (s *Store) Activities() *ActivityRepo { return &ActivityRepo{view{s: s}} }

// run bloquea el almacén, ejecuta fn y restaura la copia previa si falla.
func (s *Store) run(ctx context.Context, fn func(v view) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(view{s: s, inTx: true}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// RunFinance ejecuta fn con acceso exclusivo al almacén. Si fn retorna error se descartan sus cambios.
func (s *Store) RunFinance(ctx context.Context, fn func(
	quoteRepo repository.QuotationRepository,
	invoiceRepo repository.InvoiceRepository,
	receiptRepo repository.ReceiptRepository,
	customerRepo repository.CustomerRepository,
	counterRepo repository.CounterRepository,
) error) error {
	return s.run(ctx, func(v view) error {
		return fn(&QuotationRepo{v}, &InvoiceRepo{v}, &ReceiptRepo{v}, &CustomerRepo{v}, &CounterRepo{v})
	})
}

// RunInventory igual que RunFinance para ítems y movimientos de stock.
func (s *Store) RunInventory(ctx context.Context, fn func(
	items repository.InventoryItemRepository,
	movements repository.StockMovementRepository,
) error) error {
	return s.run(ctx, func(v view) error {
		return fn(&InventoryItemRepo{v}, &StockMovementRepo{v})
	})
}
