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

var _ repository.ActivityRepository = (*ActivityRepo)(nil)

// ActivityRepo implementación de ActivityRepository.
type ActivityRepo struct {
	q Querier
}

func NewActivityRepository(q Querier) *ActivityRepo {
	return &ActivityRepo{q: q}
}

const activityColumns = `id, branch_id, type, description, date, COALESCE(staff_id, ''), created_at`

func (r *ActivityRepo) Create(ctx context.Context, a *entity.Activity) error {
	query := `
		INSERT INTO activities (id, branch_id, type, description, date, staff_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, a.ID, a.BranchID, string(a.Type), a.Description, a.Date, nullIfEmpty(a.StaffID), a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *ActivityRepo) GetByID(ctx context.Context, id string) (*entity.Activity, error) {
	a, err := scanActivity(r.q.QueryRow(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return a, nil
}

func (r *ActivityRepo) ListByBranch(ctx context.Context, branchID string) ([]*entity.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE ($1 = '' OR branch_id = $1) ORDER BY date DESC, created_at DESC`
	rows, err := r.q.Query(ctx, query, branchID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()
	var list []*entity.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *ActivityRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanActivity(row pgx.Row) (*entity.Activity, error) {
	var (
		a   entity.Activity
		typ string
	)
	if err := row.Scan(&a.ID, &a.BranchID, &typ, &a.Description, &a.Date, &a.StaffID, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Type = entity.ActivityType(typ)
	return &a, nil
}
