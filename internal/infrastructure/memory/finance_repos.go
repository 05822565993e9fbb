package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
)

var (
	_ repository.QuotationRepository = (*QuotationRepo)(nil)
	_ repository.InvoiceRepository   = (*InvoiceRepo)(nil)
	_ repository.ReceiptRepository   = (*ReceiptRepo)(nil)
	_ repository.CounterRepository   = (*CounterRepo)(nil)
)

// newestFirst orden de listados de documentos: created_at desc, número desc como desempate.
func newestFirst[T any](list []T, createdAt func(T) int64, number func(T) string) {
	sort.SliceStable(list, func(i, j int) bool {
		ci, cj := createdAt(list[i]), createdAt(list[j])
		if ci != cj {
			return ci > cj
		}
		return number(list[i]) > number(list[j])
	})
}

// ── Cotizaciones ─────────────────────────────────────────────────────────────

// QuotationRepo cotizaciones en memoria.
type QuotationRepo struct{ view }

func (r *QuotationRepo) Create(_ context.Context, q *entity.Quotation) error {
	defer r.lock()()
	for _, existing := range r.s.st.quotations {
		if existing.QuotationNumber == q.QuotationNumber {
			return domain.ErrDuplicate
		}
	}
	if _, ok := r.s.st.quotations[q.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.quotations[q.ID] = q.Clone()
	return nil
}

func (r *QuotationRepo) GetByID(_ context.Context, id string) (*entity.Quotation, error) {
	defer r.rlock()()
	return r.s.st.quotations[id].Clone(), nil
}

// GetForUpdate dentro de RunFinance el mutex ya garantiza exclusividad.
func (r *QuotationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Quotation, error) {
	return r.GetByID(ctx, id)
}

func (r *QuotationRepo) ListByBranch(_ context.Context, branchID string) ([]*entity.Quotation, error) {
	defer r.rlock()()
	list := make([]*entity.Quotation, 0, len(r.s.st.quotations))
	for _, q := range r.s.st.quotations {
		if branchID == "" || q.BranchID == branchID {
			list = append(list, q.Clone())
		}
	}
	newestFirst(list,
		func(q *entity.Quotation) int64 { return q.CreatedAt.UnixNano() },
		func(q *entity.Quotation) string { return q.QuotationNumber })
	return list, nil
}

func (r *QuotationRepo) Update(_ context.Context, q *entity.Quotation) error {
	defer r.lock()()
	if _, ok := r.s.st.quotations[q.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.quotations[q.ID] = q.Clone()
	return nil
}

func (r *QuotationRepo) Delete(_ context.Context, id string) error {
	defer r.lock()()
	delete(r.s.st.quotations, id)
	return nil
}

// ── Facturas ─────────────────────────────────────────────────────────────────

// InvoiceRepo facturas en memoria.
type InvoiceRepo struct{ view }

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	defer r.lock()()
	for _, existing := range r.s.st.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return domain.ErrDuplicate
		}
	}
	if _, ok := r.s.st.invoices[inv.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.invoices[inv.ID] = inv.Clone()
	return nil
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	defer r.rlock()()
	return r.s.st.invoices[id].Clone(), nil
}

func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *InvoiceRepo) ListByBranch(_ context.Context, branchID string) ([]*entity.Invoice, error) {
	defer r.rlock()()
	list := make([]*entity.Invoice, 0, len(r.s.st.invoices))
	for _, inv := range r.s.st.invoices {
		if branchID == "" || inv.BranchID == branchID {
			list = append(list, inv.Clone())
		}
	}
	newestFirst(list,
		func(inv *entity.Invoice) int64 { return inv.CreatedAt.UnixNano() },
		func(inv *entity.Invoice) string { return inv.InvoiceNumber })
	return list, nil
}

func (r *InvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	defer r.lock()()
	if _, ok := r.s.st.invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.invoices[inv.ID] = inv.Clone()
	return nil
}

func (r *InvoiceRepo) Delete(_ context.Context, id string) error {
	defer r.lock()()
	delete(r.s.st.invoices, id)
	return nil
}

// ── Recibos ──────────────────────────────────────────────────────────────────

// ReceiptRepo recibos en memoria.
type ReceiptRepo struct{ view }

func (r *ReceiptRepo) Create(_ context.Context, rc *entity.Receipt) error {
	defer r.lock()()
	for _, existing := range r.s.st.receipts {
		if existing.ReceiptNumber == rc.ReceiptNumber {
			return domain.ErrDuplicate
		}
	}
	if _, ok := r.s.st.receipts[rc.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.receipts[rc.ID] = rc.Clone()
	return nil
}

func (r *ReceiptRepo) GetByID(_ context.Context, id string) (*entity.Receipt, error) {
	defer r.rlock()()
	return r.s.st.receipts[id].Clone(), nil
}

func (r *ReceiptRepo) GetForUpdate(ctx context.Context, id string) (*entity.Receipt, error) {
	return r.GetByID(ctx, id)
}

func (r *ReceiptRepo) ListByBranch(_ context.Context, branchID string) ([]*entity.Receipt, error) {
	defer r.rlock()()
	list := make([]*entity.Receipt, 0, len(r.s.st.receipts))
	for _, rc := range r.s.st.receipts {
		if branchID == "" || rc.BranchID == branchID {
			list = append(list, rc.Clone())
		}
	}
	newestFirst(list,
		func(rc *entity.Receipt) int64 { return rc.CreatedAt.UnixNano() },
		func(rc *entity.Receipt) string { return rc.ReceiptNumber })
	return list, nil
}

func (r *ReceiptRepo) Update(_ context.Context, rc *entity.Receipt) error {
	defer r.lock()()
	if _, ok := r.s.st.receipts[rc.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.receipts[rc.ID] = rc.Clone()
	return nil
}

func (r *ReceiptRepo) Delete(_ context.Context, id string) error {
	defer r.lock()()
	delete(r.s.st.receipts, id)
	return nil
}

// ── Numeración ───────────────────────────────────────────────────────────────

// CounterRepo contador de numeración por (tipo, año).
type CounterRepo struct{ view }

// Reserve devuelve el valor previo e incrementa el contador.
func (r *CounterRepo) Reserve(_ context.Context, kind string, year int) (int, error) {
	defer r.lock()()
	k := counterKey{kind: kind, year: year}
	prev := r.s.st.counters[k]
	r.s.st.counters[k] = prev + 1
	return prev, nil
}
