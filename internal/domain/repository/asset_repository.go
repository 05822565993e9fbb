package repository

import (
	"context"

	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
)

// AssetRepository define el puerto de persistencia para Asset.
type AssetRepository interface {
	Create(ctx context.Context, a *entity.Asset) error
	GetByID(ctx context.Context, id string) (*entity.Asset, error)
	// ListByBranch branchID vacío devuelve todos los activos.
	ListByBranch(ctx context.Context, branchID string) ([]*entity.Asset, error)
	Update(ctx context.Context, a *entity.Asset) error
	Delete(ctx context.Context, id string) error
}
