package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSupplierRequest body para POST /api/suppliers.
type CreateSupplierRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Contact  string `json:"contact,omitempty" validate:"omitempty,max=100"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Category string `json:"category" validate:"required,max=60"`
	BranchID string `json:"branch_id,omitempty"`
}

// UpdateSupplierRequest body para PUT /api/suppliers/:id. Campos nil no se modifican.
type UpdateSupplierRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Contact  *string `json:"contact,omitempty" validate:"omitempty,max=100"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Category *string `json:"category,omitempty" validate:"omitempty,min=1,max=60"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

// RecordSupplierOrderRequest body para POST /api/suppliers/:id/orders.
type RecordSupplierOrderRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// SupplierResponse proveedor en respuestas.
type SupplierResponse struct {
	ID          string          `json:"id"`
	BranchID    string          `json:"branch_id"`
	Name        string          `json:"name"`
	Contact     string          `json:"contact,omitempty"`
	Email       string          `json:"email,omitempty"`
	Category    string          `json:"category"`
	Status      string          `json:"status"`
	TotalOrders int             `json:"total_orders"`
	TotalValue  decimal.Decimal `json:"total_value"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SupplierListResponse listado paginado de proveedores.
type SupplierListResponse struct {
	Items       []SupplierResponse `json:"items"`
	ActiveCount int                `json:"active_count"`
	Page        PageResponse       `json:"page"`
}
