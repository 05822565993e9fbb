package entity

import "github.com/shopspring/decimal"

// DocumentItem línea de cotización o factura. Total = Quantity * UnitPrice.
type DocumentItem struct {
	ID          string
	Description string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

// CloneItems copia las líneas en un slice nuevo; ningún documento comparte el slice de otro.
func CloneItems(items []DocumentItem) []DocumentItem {
	if items == nil {
		return nil
	}
	out := make([]DocumentItem, len(items))
	copy(out, items)
	return out
}
