package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAssetRequest body para POST /api/assets.
type CreateAssetRequest struct {
	Name            string          `json:"name" validate:"required,min=1,max=200"`
	Type            string          `json:"type" validate:"required,oneof=equipment machinery vehicle livestock building land"`
	Value           decimal.Decimal `json:"value"`
	PurchaseDate    string          `json:"purchase_date" validate:"required,datetime=2006-01-02"`
	LastMaintenance string          `json:"last_maintenance,omitempty" validate:"omitempty,datetime=2006-01-02"`
	BranchID        string          `json:"branch_id,omitempty"`
}

// UpdateAssetRequest body para PUT /api/assets/:id. Campos nil no se modifican.
type UpdateAssetRequest struct {
	Name   *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Type   *string          `json:"type,omitempty" validate:"omitempty,oneof=equipment machinery vehicle livestock building land"`
	Status *string          `json:"status,omitempty" validate:"omitempty,oneof=operational maintenance retired"`
	Value  *decimal.Decimal `json:"value,omitempty"`
}

// AssetMaintenanceRequest body para POST /api/assets/:id/maintenance. Fecha vacía = hoy.
type AssetMaintenanceRequest struct {
	Date string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// AssetFilter filtros de GET /api/assets.
type AssetFilter struct {
	Type   string `query:"type"`
	Status string `query:"status"`
	Search string `query:"q"`
}

// AssetResponse activo en respuestas.
type AssetResponse struct {
	ID              string          `json:"id"`
	BranchID        string          `json:"branch_id"`
	Name            string          `json:"name"`
	Type            string          `json:"type"`
	Status          string          `json:"status"`
	Value           decimal.Decimal `json:"value"`
	PurchaseDate    string          `json:"purchase_date"`
	LastMaintenance string          `json:"last_maintenance,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// AssetSummary conteos por estado y valor total (antes de paginar).
type AssetSummary struct {
	Operational int             `json:"operational"`
	Maintenance int             `json:"maintenance"`
	Retired     int             `json:"retired"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

// AssetListResponse listado paginado de activos.
type AssetListResponse struct {
	Items   []AssetResponse `json:"items"`
	Summary AssetSummary    `json:"summary"`
	Page    PageResponse    `json:"page"`
}
