package repository

import (
	"context"

	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	// ListByBranch branchID vacío devuelve todos los clientes.
	ListByBranch(ctx context.Context, branchID string) ([]*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id string) error
}
