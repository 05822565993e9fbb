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

var _ repository.AssetRepository = (*AssetRepo)(nil)

// AssetRepo implementación de AssetRepository.
type AssetRepo struct {
	q Querier
}

func NewAssetRepository(q Querier) *AssetRepo {
	return &AssetRepo{q: q}
}

const assetColumns = `id, branch_id, name, type, status, value, purchase_date, last_maintenance, created_at, updated_at`

func (r *AssetRepo) Create(ctx context.Context, a *entity.Asset) error {
	query := `
		INSERT INTO assets (id, branch_id, name, type, status, value, purchase_date, last_maintenance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.BranchID, a.Name, string(a.Type), string(a.Status), a.Value, a.PurchaseDate, a.LastMaintenance, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert asset: %w", err)
	}
	return nil
}

func (r *AssetRepo) GetByID(ctx context.Context, id string) (*entity.Asset, error) {
	a, err := scanAsset(r.q.QueryRow(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return a, nil
}

func (r *AssetRepo) ListByBranch(ctx context.Context, branchID string) ([]*entity.Asset, error) {
	rows, err := r.q.Query(ctx, `SELECT `+assetColumns+` FROM assets WHERE ($1 = '' OR branch_id = $1) ORDER BY name`, branchID)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()
	var list []*entity.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *AssetRepo) Update(ctx context.Context, a *entity.Asset) error {
	query := `
		UPDATE assets
		SET name = $2, type = $3, status = $4, value = $5, last_maintenance = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, a.ID, a.Name, string(a.Type), string(a.Status), a.Value, a.LastMaintenance, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AssetRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanAsset(row pgx.Row) (*entity.Asset, error) {
	var (
		a            entity.Asset
		typ, status string
	)
	if err := row.Scan(&a.ID, &a.BranchID, &a.Name, &typ, &status, &a.Value, &a.PurchaseDate, &a.LastMaintenance, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Type = entity.AssetType(typ)
	a.Status = entity.AssetStatus(status)
	return &a, nil
}
