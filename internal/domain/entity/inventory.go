package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryCategory categoría de un insumo o bien en inventario.
type InventoryCategory string

const (
	CategorySeeds       InventoryCategory = "seeds"
	CategoryFertilizers InventoryCategory = "fertilizers"
	CategoryChemicals   InventoryCategory = "chemicals"
	CategoryFeed        InventoryCategory = "feed"
	CategoryMachinery   InventoryCategory = "machinery"
	CategoryTools       InventoryCategory = "tools"
	CategoryLivestock   InventoryCategory = "livestock"
)

// IsValid informa si la categoría es una de las conocidas.
func (c InventoryCategory) IsValid() bool {
	switch c {
	case CategorySeeds, CategoryFertilizers, CategoryChemicals, CategoryFeed,
		CategoryMachinery, CategoryTools, CategoryLivestock:
		return true
	}
	return false
}

// InventoryItem existencia de un insumo en una sucursal. Quantity solo cambia con movimientos de stock.
type InventoryItem struct {
	ID        string
	BranchID  string
	Name      string
	Category  InventoryCategory
	Quantity  decimal.Decimal
	Unit      string // kg, bags, liters, units...
	MinStock  decimal.Decimal
	Value     decimal.Decimal // valor total estimado de la existencia
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetBranchID implementa access.BranchScoped.
func (i *InventoryItem) GetBranchID() string { return i.BranchID }

// IsLowStock la existencia está en o por debajo del mínimo.
func (i *InventoryItem) IsLowStock() bool { return i.Quantity.LessThanOrEqual(i.MinStock) }

// Tipos de movimiento de stock.
const (
	MovementTypeIN         = "IN"         // entrada
	MovementTypeOUT        = "OUT"        // salida; no puede superar la existencia
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste por conteo; con signo, la existencia queda en 0 como mínimo
)

// StockMovement registro de un cambio de existencia. Quantity es el cambio aplicado (negativo en salidas).
type StockMovement struct {
	ID             string
	ItemID         string
	BranchID       string
	Type           string
	Quantity       decimal.Decimal
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	Reason         string
	CreatedBy      string
	CreatedAt      time.Time
}

// GetBranchID implementa access.BranchScoped.
func (m *StockMovement) GetBranchID() string { return m.BranchID }
