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

var _ repository.BranchRepository = (*BranchRepo)(nil)

// BranchRepo implementación de BranchRepository.
type BranchRepo struct {
	q Querier
}

// NewBranchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBranchRepository(q Querier) *BranchRepo {
	return &BranchRepo{q: q}
}

const branchColumns = `id, name, location, manager_id, farm_type, COALESCE(size, ''), status, created_at, updated_at`

// Create persiste una sucursal.
func (r *BranchRepo) Create(ctx context.Context, b *entity.Branch) error {
	query := `
		INSERT INTO branches (id, name, location, manager_id, farm_type, size, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.Name, b.Location, nullIfEmpty(b.ManagerID), b.FarmType, nullIfEmpty(b.Size),
		b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert branch: %w", err)
	}
	return nil
}

// GetByID obtiene una sucursal. nil si no existe.
func (r *BranchRepo) GetByID(ctx context.Context, id string) (*entity.Branch, error) {
	b, err := scanBranch(r.q.QueryRow(ctx, `SELECT `+branchColumns+` FROM branches WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch: %w", err)
	}
	return b, nil
}

// List todas las sucursales ordenadas por nombre.
func (r *BranchRepo) List(ctx context.Context) ([]*entity.Branch, error) {
	rows, err := r.q.Query(ctx, `SELECT `+branchColumns+` FROM branches ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// Update actualiza una sucursal.
func (r *BranchRepo) Update(ctx context.Context, b *entity.Branch) error {
	query := `
		UPDATE branches
		SET name = $2, location = $3, manager_id = $4, farm_type = $5, size = $6, status = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		b.ID, b.Name, b.Location, nullIfEmpty(b.ManagerID), b.FarmType, nullIfEmpty(b.Size), b.Status, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update branch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una sucursal. Con registros que aún la referencian retorna domain.ErrConflict.
func (r *BranchRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM branches WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: la sucursal tiene registros asociados", domain.ErrConflict)
		}
		return fmt.Errorf("delete branch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanBranch(row pgx.Row) (*entity.Branch, error) {
	var b entity.Branch
	var managerID *string
	if err := row.Scan(&b.ID, &b.Name, &b.Location, &managerID, &b.FarmType, &b.Size, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.ManagerID = derefStr(managerID)
	return &b, nil
}
