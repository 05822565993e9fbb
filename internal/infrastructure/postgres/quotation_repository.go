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

var _ repository.QuotationRepository = (*QuotationRepo)(nil)

// QuotationRepo implementación de QuotationRepository (usable con pool o tx).
type QuotationRepo struct {
	q Querier
}

// NewQuotationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuotationRepository(q Querier) *QuotationRepo {
	return &QuotationRepo{q: q}
}

const quotationColumns = `
	id, quotation_number, customer_id, branch_id, subtotal, tax, total,
	status, valid_until, COALESCE(notes, ''), created_at, updated_at`

// Create persiste cabecera y líneas.
func (r *QuotationRepo) Create(ctx context.Context, quote *entity.Quotation) error {
	query := `
		INSERT INTO quotations (id, quotation_number, customer_id, branch_id, subtotal, tax, total, status, valid_until, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		quote.ID, quote.QuotationNumber, quote.CustomerID, quote.BranchID,
		quote.Subtotal, quote.Tax, quote.Total, string(quote.Status),
		quote.ValidUntil, nullIfEmpty(quote.Notes), quote.CreatedAt, quote.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: cotización %s", domain.ErrDuplicate, quote.QuotationNumber)
		}
		return fmt.Errorf("insert quotation: %w", err)
	}
	return insertItems(ctx, r.q, finance.KindQuotation, quote.ID, quote.Items)
}

// GetByID obtiene una cotización con sus líneas. nil si no existe.
func (r *QuotationRepo) GetByID(ctx context.Context, id string) (*entity.Quotation, error) {
	return r.get(ctx, `SELECT`+quotationColumns+` FROM quotations WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila de la cotización hasta el fin de la transacción.
func (r *QuotationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Quotation, error) {
	return r.get(ctx, `SELECT`+quotationColumns+` FROM quotations WHERE id = $1 FOR UPDATE`, id)
}

func (r *QuotationRepo) get(ctx context.Context, query, id string) (*entity.Quotation, error) {
	quote, err := scanQuotation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	items, err := loadItems(ctx, r.q, finance.KindQuotation, []string{quote.ID})
	if err != nil {
		return nil, err
	}
	quote.Items = items[quote.ID]
	return quote, nil
}

// ListByBranch cotizaciones de la sucursal (todas si branchID es vacío), más recientes primero.
func (r *QuotationRepo) ListByBranch(ctx context.Context, branchID string) ([]*entity.Quotation, error) {
	query := `SELECT` + quotationColumns + ` FROM quotations
		WHERE ($1 = '' OR branch_id = $1)
		ORDER BY created_at DESC, quotation_number DESC`
	rows, err := r.q.Query(ctx, query, branchID)
	if err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	defer rows.Close()

	var list []*entity.Quotation
	var ids []string
	for rows.Next() {
		quote, err := scanQuotation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quotation: %w", err)
		}
		list = append(list, quote)
		ids = append(ids, quote.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	items, err := loadItems(ctx, r.q, finance.KindQuotation, ids)
	if err != nil {
		return nil, err
	}
	for _, quote := range list {
		quote.Items = items[quote.ID]
	}
	return list, nil
}

// Update reemplaza cabecera y líneas.
func (r *QuotationRepo) Update(ctx context.Context, quote *entity.Quotation) error {
	query := `
		UPDATE quotations
		SET customer_id = $2, branch_id = $3, subtotal = $4, tax = $5, total = $6,
		    status = $7, valid_until = $8, notes = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		quote.ID, quote.CustomerID, quote.BranchID, quote.Subtotal, quote.Tax, quote.Total,
		string(quote.Status), quote.ValidUntil, nullIfEmpty(quote.Notes), quote.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update quotation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return replaceItems(ctx, r.q, finance.KindQuotation, quote.ID, quote.Items)
}

// Delete elimina la cotización y sus líneas.
func (r *QuotationRepo) Delete(ctx context.Context, id string) error {
	if err := deleteItems(ctx, r.q, finance.KindQuotation, id); err != nil {
		return err
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM quotations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete quotation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanQuotation(row pgx.Row) (*entity.Quotation, error) {
	var quote entity.Quotation
	var status string
	err := row.Scan(
		&quote.ID, &quote.QuotationNumber, &quote.CustomerID, &quote.BranchID,
		&quote.Subtotal, &quote.Tax, &quote.Total,
		&status, &quote.ValidUntil, &quote.Notes, &quote.CreatedAt, &quote.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	quote.Status = entity.QuotationStatus(status)
	return &quote, nil
}
