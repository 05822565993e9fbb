package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInventoryItemRequest body para POST /api/inventory. La existencia inicial se registra como entrada.
// branch_id solo se usa cuando la sesión ve todas las sucursales.
type CreateInventoryItemRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=200"`
	Category string          `json:"category" validate:"required,oneof=seeds fertilizers chemicals feed machinery tools livestock"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit" validate:"required,max=30"`
	MinStock decimal.Decimal `json:"min_stock"`
	Value    decimal.Decimal `json:"value"`
	BranchID string          `json:"branch_id,omitempty"`
}

// UpdateInventoryItemRequest body para PUT /api/inventory/:id. La cantidad solo cambia con /adjust.
type UpdateInventoryItemRequest struct {
	Name     *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Category *string          `json:"category,omitempty" validate:"omitempty,oneof=seeds fertilizers chemicals feed machinery tools livestock"`
	Unit     *string          `json:"unit,omitempty" validate:"omitempty,min=1,max=30"`
	MinStock *decimal.Decimal `json:"min_stock,omitempty"`
	Value    *decimal.Decimal `json:"value,omitempty"`
}

// AdjustStockRequest body para POST /api/inventory/:id/adjust.
// IN y OUT llevan cantidad positiva; ADJUSTMENT lleva el cambio con signo.
type AdjustStockRequest struct {
	Type     string          `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity decimal.Decimal  `json:"quantity"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"` // costo de la entrada; sin él se valora al costo promedio actual
	Reason   string           `json:"reason,omitempty" validate:"omitempty,max=300"`
}

// InventoryFilter filtros de GET /api/inventory.
type InventoryFilter struct {
	Category string `query:"category"`
	Search   string `query:"q"`
	LowStock bool   `query:"low_stock"`
}

// InventoryItemResponse ítem de inventario en respuestas.
type InventoryItemResponse struct {
	ID        string          `json:"id"`
	BranchID  string          `json:"branch_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	MinStock  decimal.Decimal `json:"min_stock"`
	Value     decimal.Decimal `json:"value"`
	LowStock  bool            `json:"low_stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// InventorySummary totales del listado (antes de paginar).
type InventorySummary struct {
	LowStockCount int             `json:"low_stock_count"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// InventoryListResponse listado paginado de inventario.
type InventoryListResponse struct {
	Items   []InventoryItemResponse `json:"items"`
	Summary InventorySummary        `json:"summary"`
	Page    PageResponse            `json:"page"`
}

// StockMovementResponse movimiento de stock en respuestas.
type StockMovementResponse struct {
	ID             string          `json:"id"`
	ItemID         string          `json:"item_id"`
	BranchID       string          `json:"branch_id"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	Reason         string          `json:"reason,omitempty"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
}

// AdjustStockResponse ítem actualizado y el movimiento registrado.
type AdjustStockResponse struct {
	Item     InventoryItemResponse `json:"item"`
	Movement StockMovementResponse `json:"movement"`
}

// StockMovementListResponse historial paginado de movimientos de un ítem.
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
