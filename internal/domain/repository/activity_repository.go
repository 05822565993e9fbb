package repository

import (
	"context"

	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
)

// ActivityRepository feed de actividades por sucursal.
type ActivityRepository interface {
	Create(ctx context.Context, a *entity.Activity) error
	GetByID(ctx context.Context, id string) (*entity.Activity, error)
	// ListByBranch branchID vacío = todas; orden por fecha descendente.
	ListByBranch(ctx context.Context, branchID string) ([]*entity.Activity, error)
	Delete(ctx context.Context, id string) error
}
