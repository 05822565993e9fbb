package dto

import "time"

// CreateCustomerRequest body para POST /api/customers.
// branch_id solo se usa cuando la sesión ve todas las sucursales.
type CreateCustomerRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Contact  string `json:"contact,omitempty" validate:"omitempty,max=100"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Type     string `json:"type" validate:"required,oneof=wholesale retail corporate"`
	BranchID string `json:"branch_id,omitempty"`
}

// UpdateCustomerRequest body para PUT /api/customers/:id. Campos nil no se modifican.
type UpdateCustomerRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Contact *string `json:"contact,omitempty" validate:"omitempty,max=100"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Type    *string `json:"type,omitempty" validate:"omitempty,oneof=wholesale retail corporate"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID        string    `json:"id"`
	BranchID  string    `json:"branch_id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact,omitempty"`
	Email     string    `json:"email,omitempty"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerListResponse listado paginado de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
