// Package finance contiene las reglas puras de los documentos financieros:
// totales, numeración y proyección QR. Sin dependencias de infraestructura.
package finance

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
)

// TaxRate tasa fija de impuesto (10%) aplicada sobre el subtotal.
var TaxRate = decimal.New(10, -2)

// Totals montos derivados de las líneas de un documento.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// LineTotal cantidad * precio unitario.
func LineTotal(quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(quantity).Mul(unitPrice)
}

// IsBlank una línea sin descripción (o solo espacios) no forma parte del documento.
func IsBlank(item entity.DocumentItem) bool {
	return strings.TrimSpace(item.Description) == ""
}

// ComputeTotals subtotal = Σ total de líneas con descripción; tax = subtotal * 10%; total = subtotal + tax.
// El total de cada línea se recalcula desde cantidad y precio, no se confía en el valor recibido.
func ComputeTotals(items []entity.DocumentItem) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		if IsBlank(it) {
			continue
		}
		subtotal = subtotal.Add(LineTotal(it.Quantity, it.UnitPrice))
	}
	tax := subtotal.Mul(TaxRate)
	return Totals{Subtotal: subtotal, Tax: tax, Total: subtotal.Add(tax)}
}

// PrepareItems devuelve un slice nuevo sin líneas en blanco, con descripción recortada, total recalculado
// e ID asignado a las líneas que no lo tienen. No modifica items.
func PrepareItems(items []entity.DocumentItem) []entity.DocumentItem {
	out := make([]entity.DocumentItem, 0, len(items))
	for _, it := range items {
		if IsBlank(it) {
			continue
		}
		it.Description = strings.TrimSpace(it.Description)
		it.Total = LineTotal(it.Quantity, it.UnitPrice)
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		out = append(out, it)
	}
	return out
}

// ValidateItems cantidades y precios no pueden ser negativos.
func ValidateItems(items []entity.DocumentItem) bool {
	for _, it := range items {
		if it.Quantity < 0 || it.UnitPrice.IsNegative() {
			return false
		}
	}
	return true
}
