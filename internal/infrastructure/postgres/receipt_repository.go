package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
)

var _ repository.ReceiptRepository = (*ReceiptRepo)(nil)

// ReceiptRepo implementación de ReceiptRepository (usable con pool o tx).
type ReceiptRepo struct {
	q Querier
}

// NewReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceiptRepository(q Querier) *ReceiptRepo {
	return &ReceiptRepo{q: q}
}

const receiptColumns = `
	id, receipt_number, invoice_id, customer_id, branch_id, amount, payment_method,
	COALESCE(notes, ''), is_printed, printed_at, created_at, updated_at`

// Create persiste un recibo.
func (r *ReceiptRepo) Create(ctx context.Context, rec *entity.Receipt) error {
	query := `
		INSERT INTO receipts (id, receipt_number, invoice_id, customer_id, branch_id, amount, payment_method, notes, is_printed, printed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.ReceiptNumber, rec.InvoiceID, rec.CustomerID, rec.BranchID,
		rec.Amount, string(rec.PaymentMethod), nullIfEmpty(rec.Notes),
		rec.IsPrinted, rec.PrintedAt, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: recibo %s", domain.ErrDuplicate, rec.ReceiptNumber)
		}
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

// GetByID obtiene un recibo. nil si no existe.
func (r *ReceiptRepo) GetByID(ctx context.Context, id string) (*entity.Receipt, error) {
	return r.get(ctx, `SELECT`+receiptColumns+` FROM receipts WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila del recibo hasta el fin de la transacción.
func (r *ReceiptRepo) GetForUpdate(ctx context.Context, id string) (*entity.Receipt, error) {
	return r.get(ctx, `SELECT`+receiptColumns+` FROM receipts WHERE id = $1 FOR UPDATE`, id)
}

func (r *ReceiptRepo) get(ctx context.Context, query, id string) (*entity.Receipt, error) {
	rec, err := scanReceipt(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receipt: %w", err)
	}
	return rec, nil
}

// ListByBranch recibos de la sucursal (todos si branchID es vacío), más recientes primero.
func (r *ReceiptRepo) ListByBranch(ctx context.Context, branchID string) ([]*entity.Receipt, error) {
	query := `SELECT` + receiptColumns + ` FROM receipts
		WHERE ($1 = '' OR branch_id = $1)
		ORDER BY created_at DESC, receipt_number DESC`
	rows, err := r.q.Query(ctx, query, branchID)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Receipt
	for rows.Next() {
		rec, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// Update persiste monto, método, notas y el cerrojo de impresión.
func (r *ReceiptRepo) Update(ctx context.Context, rec *entity.Receipt) error {
	query := `
		UPDATE receipts
		SET amount = $2, payment_method = $3, notes = $4, is_printed = $5, printed_at = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		rec.ID, rec.Amount, string(rec.PaymentMethod), nullIfEmpty(rec.Notes),
		rec.IsPrinted, rec.PrintedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update receipt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un recibo.
func (r *ReceiptRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM receipts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete receipt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanReceipt(row pgx.Row) (*entity.Receipt, error) {
	var rec entity.Receipt
	var method string
	err := row.Scan(
		&rec.ID, &rec.ReceiptNumber, &rec.InvoiceID, &rec.CustomerID, &rec.BranchID,
		&rec.Amount, &method, &rec.Notes, &rec.IsPrinted, &rec.PrintedAt,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.PaymentMethod = entity.PaymentMethod(method)
	return &rec, nil
}
