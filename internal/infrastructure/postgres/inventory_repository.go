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

var (
	_ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
)

// InventoryItemRepo implementación de InventoryItemRepository (pool o tx).
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador.
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

const itemColumns = `id, branch_id, name, category, quantity, unit, min_stock, value, created_at, updated_at`

func (r *InventoryItemRepo) Create(ctx context.Context, it *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (id, branch_id, name, category, quantity, unit, min_stock, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.BranchID, it.Name, string(it.Category), it.Quantity, it.Unit, it.MinStock, it.Value, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

// GetByID nil si no existe.
func (r *InventoryItemRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.get(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id)
}

// GetForUpdate obtiene el ítem y bloquea la fila (SELECT FOR UPDATE). Solo tiene sentido dentro de una tx.
func (r *InventoryItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.get(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1 FOR UPDATE`, id)
}

func (r *InventoryItemRepo) get(ctx context.Context, query, id string) (*entity.InventoryItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return it, nil
}

func (r *InventoryItemRepo) ListByBranch(ctx context.Context, branchID string) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE ($1 = '' OR branch_id = $1) ORDER BY name`
	rows, err := r.q.Query(ctx, query, branchID)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func (r *InventoryItemRepo) Update(ctx context.Context, it *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET name = $2, category = $3, quantity = $4, unit = $5, min_stock = $6, value = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, it.ID, it.Name, string(it.Category), it.Quantity, it.Unit, it.MinStock, it.Value, it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete los movimientos caen por ON DELETE CASCADE.
func (r *InventoryItemRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var (
		it       entity.InventoryItem
		category string
	)
	if err := row.Scan(&it.ID, &it.BranchID, &it.Name, &category, &it.Quantity, &it.Unit, &it.MinStock, &it.Value, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	it.Category = entity.InventoryCategory(category)
	return &it, nil
}

// StockMovementRepo historial de movimientos (solo inserción).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, item_id, branch_id, type, quantity, quantity_before, quantity_after, reason, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ItemID, m.BranchID, m.Type, m.Quantity, m.QuantityBefore, m.QuantityAfter, nullIfEmpty(m.Reason), m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidReference
		}
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

func (r *StockMovementRepo) ListByItem(ctx context.Context, itemID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, item_id, branch_id, type, quantity, quantity_before, quantity_after, COALESCE(reason, ''), created_by, created_at
		FROM stock_movements WHERE item_id = $1 ORDER BY created_at DESC, id`
	rows, err := r.q.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.BranchID, &m.Type, &m.Quantity, &m.QuantityBefore, &m.QuantityAfter, &m.Reason, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
