package dto

import "time"

// CreateBranchRequest body para POST /api/branches.
type CreateBranchRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Location  string `json:"location" validate:"required,max=300"`
	ManagerID string `json:"manager_id,omitempty"`
	FarmType  string `json:"farm_type" validate:"required,oneof=crops livestock mixed poultry dairy aquaculture"`
	Size      string `json:"size,omitempty" validate:"omitempty,max=100"`
	Status    string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

// UpdateBranchRequest body para PUT /api/branches/:id. Campos nil no se modifican.
type UpdateBranchRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Location  *string `json:"location,omitempty" validate:"omitempty,max=300"`
	ManagerID *string `json:"manager_id,omitempty"`
	FarmType  *string `json:"farm_type,omitempty" validate:"omitempty,oneof=crops livestock mixed poultry dairy aquaculture"`
	Size      *string `json:"size,omitempty" validate:"omitempty,max=100"`
	Status    *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

// BranchResponse sucursal en respuestas.
type BranchResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	ManagerID string    `json:"manager_id,omitempty"`
	FarmType  string    `json:"farm_type"`
	Size      string    `json:"size,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BranchListResponse listado paginado de sucursales.
type BranchListResponse struct {
	Items []BranchResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
