// Package inventory reglas puras de existencias: aplicación de movimientos y costo promedio ponderado.
package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
)

// Level existencia y valor total de un ítem.
type Level struct {
	Quantity decimal.Decimal
	Value    decimal.Decimal
}

// AverageCost costo promedio ponderado después de una entrada:
// ((stock * costo) + (entrada * costoEntrada)) / (stock + entrada). Cero si no queda existencia.
func AverageCost(stock, cost, in, inCost decimal.Decimal) decimal.Decimal {
	sum := stock.Add(in)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return stock.Mul(cost).Add(in.Mul(inCost)).Div(sum)
}

// UnitCost costo unitario implícito de la existencia (valor / cantidad).
func (l Level) UnitCost() decimal.Decimal {
	if !l.Quantity.IsPositive() {
		return decimal.Zero
	}
	return l.Value.Div(l.Quantity)
}

// Apply aplica un movimiento a la existencia actual.
//   - IN: qty > 0; suma. Con unitCost el valor se recalcula con costo promedio; sin él, al costo actual.
//   - OUT: qty > 0; resta. Más que la existencia -> domain.ErrInsufficientStock.
//   - ADJUSTMENT: qty con signo distinto de cero; la existencia no baja de cero.
//
// Las salidas valoran a costo promedio actual. El valor se redondea a centavos.
func Apply(cur Level, movementType string, qty decimal.Decimal, unitCost *decimal.Decimal) (Level, error) {
	cost := cur.UnitCost()
	switch movementType {
	case entity.MovementTypeIN:
		if !qty.IsPositive() {
			return cur, fmt.Errorf("%w: la cantidad de una entrada debe ser positiva", domain.ErrInvalidInput)
		}
		inCost := cost
		if unitCost != nil {
			if unitCost.IsNegative() {
				return cur, fmt.Errorf("%w: unit_cost no puede ser negativo", domain.ErrInvalidInput)
			}
			inCost = *unitCost
		}
		q := cur.Quantity.Add(qty)
		return Level{Quantity: q, Value: q.Mul(AverageCost(cur.Quantity, cost, qty, inCost)).Round(2)}, nil

	case entity.MovementTypeOUT:
		if !qty.IsPositive() {
			return cur, fmt.Errorf("%w: la cantidad de una salida debe ser positiva", domain.ErrInvalidInput)
		}
		if cur.Quantity.LessThan(qty) {
			return cur, fmt.Errorf("%w: hay %s y se pidieron %s", domain.ErrInsufficientStock, cur.Quantity, qty)
		}
		return remove(cur, qty, cost), nil

	case entity.MovementTypeADJUSTMENT:
		if qty.IsZero() {
			return cur, fmt.Errorf("%w: un ajuste no puede ser cero", domain.ErrInvalidInput)
		}
		if qty.IsPositive() {
			return Apply(cur, entity.MovementTypeIN, qty, unitCost)
		}
		out := qty.Neg()
		if out.GreaterThan(cur.Quantity) {
			out = cur.Quantity
		}
		return remove(cur, out, cost), nil
	}
	return cur, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, movementType)
}

func remove(cur Level, qty, cost decimal.Decimal) Level {
	q := cur.Quantity.Sub(qty)
	if q.IsZero() {
		return Level{Quantity: q, Value: decimal.Zero}
	}
	return Level{Quantity: q, Value: cur.Value.Sub(qty.Mul(cost)).Round(2)}
}
