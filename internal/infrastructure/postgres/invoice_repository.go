package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/domain/finance"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// El estado persistido nunca es "overdue": se deriva al leer (Invoice.EffectiveStatus).
const invoiceColumns = `
	id, invoice_number, customer_id, branch_id, quotation_id, subtotal, tax, total,
	status, due_date, paid_at, notes, created_at, updated_at`

// Create persiste cabecera y líneas.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, invoice_number, customer_id, branch_id, quotation_id, subtotal, tax, total, status, due_date, paid_at, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.InvoiceNumber, inv.CustomerID, inv.BranchID, nullIfEmpty(inv.QuotationID),
		inv.Subtotal, inv.Tax, inv.Total, string(inv.Status), inv.DueDate, inv.PaidAt,
		nullIfEmpty(inv.Notes), inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: factura %s", domain.ErrDuplicate, inv.InvoiceNumber)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return insertItems(ctx, r.q, finance.KindInvoice, inv.ID, inv.Items)
}

// GetByID obtiene una factura completa por ID. nil si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT`+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila de la factura hasta el fin de la transacción.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT`+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

func (r *InvoiceRepo) get(ctx context.Context, query, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	items, err := loadItems(ctx, r.q, finance.KindInvoice, []string{inv.ID})
	if err != nil {
		return nil, err
	}
	inv.Items = items[inv.ID]
	return inv, nil
}

// ListByBranch facturas de la sucursal (todas si branchID es vacío), más recientes primero.
func (r *InvoiceRepo) ListByBranch(ctx context.Context, branchID string) ([]*entity.Invoice, error) {
	query := `SELECT` + invoiceColumns + ` FROM invoices
		WHERE ($1 = '' OR branch_id = $1)
		ORDER BY created_at DESC, invoice_number DESC`
	rows, err := r.q.Query(ctx, query, branchID)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.Invoice
	var ids []string
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
		ids = append(ids, inv.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	items, err := loadItems(ctx, r.q, finance.KindInvoice, ids)
	if err != nil {
		return nil, err
	}
	for _, inv := range list {
		inv.Items = items[inv.ID]
	}
	return list, nil
}

// Update reemplaza cabecera y líneas.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET customer_id = $2, branch_id = $3, subtotal = $4, tax = $5, total = $6,
		    status = $7, due_date = $8, paid_at = $9, notes = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		inv.ID, inv.CustomerID, inv.BranchID, inv.Subtotal, inv.Tax, inv.Total,
		string(inv.Status), inv.DueDate, inv.PaidAt, nullIfEmpty(inv.Notes), inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return replaceItems(ctx, r.q, finance.KindInvoice, inv.ID, inv.Items)
}

// Delete elimina la factura y sus líneas.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	if err := deleteItems(ctx, r.q, finance.KindInvoice, id); err != nil {
		return err
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var status string
	var quotationID, notes *string
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.CustomerID, &inv.BranchID, &quotationID,
		&inv.Subtotal, &inv.Tax, &inv.Total,
		&status, &inv.DueDate, &inv.PaidAt, &notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Status = entity.InvoiceStatus(status)
	inv.QuotationID = derefStr(quotationID)
	inv.Notes = derefStr(notes)
	return &inv, nil
}
