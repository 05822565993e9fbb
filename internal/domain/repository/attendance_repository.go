package repository

import (
	"context"
	"time"

	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
)

// AttendanceRepository define el puerto de persistencia para AttendanceRecord.
type AttendanceRepository interface {
	// Create retorna domain.ErrDuplicate si ya hay registro para el trabajador y la fecha.
	Create(ctx context.Context, r *entity.AttendanceRecord) error
	GetByID(ctx context.Context, id string) (*entity.AttendanceRecord, error)
	// ListByBranch branchID vacío = todas las sucursales; date cero = todas las fechas.
	ListByBranch(ctx context.Context, branchID string, date time.Time) ([]*entity.AttendanceRecord, error)
	Update(ctx context.Context, r *entity.AttendanceRecord) error
	Delete(ctx context.Context, id string) error
}
