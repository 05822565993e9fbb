package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
)

var _ repository.AttendanceRepository = (*AttendanceRepo)(nil)

// AttendanceRepo implementación de AttendanceRepository. UNIQUE (staff_id, date) da ErrDuplicate.
type AttendanceRepo struct {
	q Querier
}

func NewAttendanceRepository(q Querier) *AttendanceRepo {
	return &AttendanceRepo{q: q}
}

const attendanceColumns = `id, branch_id, staff_id, staff_name, date, COALESCE(check_in, ''), COALESCE(check_out, ''), status, created_at, updated_at`

func (r *AttendanceRepo) Create(ctx context.Context, rec *entity.AttendanceRecord) error {
	query := `
		INSERT INTO attendance (id, branch_id, staff_id, staff_name, date, check_in, check_out, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.BranchID, rec.StaffID, rec.StaffName, rec.Date,
		nullIfEmpty(rec.CheckIn), nullIfEmpty(rec.CheckOut), string(rec.Status), rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrInvalidReference
		}
		return fmt.Errorf("insert attendance: %w", err)
	}
	return nil
}

func (r *AttendanceRepo) GetByID(ctx context.Context, id string) (*entity.AttendanceRecord, error) {
	rec, err := scanAttendance(r.q.QueryRow(ctx, `SELECT `+attendanceColumns+` FROM attendance WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get attendance: %w", err)
	}
	return rec, nil
}

// ListByBranch date cero no filtra por fecha.
func (r *AttendanceRepo) ListByBranch(ctx context.Context, branchID string, date time.Time) ([]*entity.AttendanceRecord, error) {
	var day *time.Time
	if !date.IsZero() {
		day = &date
	}
	query := `SELECT ` + attendanceColumns + ` FROM attendance
		WHERE ($1 = '' OR branch_id = $1) AND ($2::date IS NULL OR date = $2::date)
		ORDER BY date DESC, staff_name`
	rows, err := r.q.Query(ctx, query, branchID, day)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()
	var list []*entity.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

func (r *AttendanceRepo) Update(ctx context.Context, rec *entity.AttendanceRecord) error {
	query := `UPDATE attendance SET check_in = $2, check_out = $3, status = $4, updated_at = $5 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, rec.ID, nullIfEmpty(rec.CheckIn), nullIfEmpty(rec.CheckOut), string(rec.Status), rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AttendanceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanAttendance(row pgx.Row) (*entity.AttendanceRecord, error) {
	var (
		rec    entity.AttendanceRecord
		status string
	)
	if err := row.Scan(&rec.ID, &rec.BranchID, &rec.StaffID, &rec.StaffName, &rec.Date, &rec.CheckIn, &rec.CheckOut, &status, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.Status = entity.AttendanceStatus(status)
	return &rec, nil
}
