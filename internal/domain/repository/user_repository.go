package repository

import (
	"context"

	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// ListByBranch branchID vacío devuelve todos los usuarios.
	ListByBranch(ctx context.Context, branchID string) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}
