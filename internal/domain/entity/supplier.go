package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de proveedor.
const (
	SupplierStatusActive   = "active"
	SupplierStatusInactive = "inactive"
)

// Supplier proveedor de insumos de una sucursal.
type Supplier struct {
	ID          string
	BranchID    string
	Name        string
	Contact     string
	Email       string
	Category    string // qué suministra: seeds, feed, machinery...
	Status      string
	TotalOrders int
	TotalValue  decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GetBranchID implementa access.BranchScoped.
func (s *Supplier) GetBranchID() string { return s.BranchID }
