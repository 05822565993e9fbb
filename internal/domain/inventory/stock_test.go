package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func level(q, v string) inventory.Level { return inventory.Level{Quantity: d(q), Value: d(v)} }

func TestAverageCost(t *testing.T) {
	// 10 u a 5 + 10 u a 7 -> 6
	assert.True(t, inventory.AverageCost(d("10"), d("5"), d("10"), d("7")).Equal(d("6")))
	assert.True(t, inventory.AverageCost(d("0"), d("0"), d("0"), d("7")).IsZero())
}

func TestApply(t *testing.T) {
	cost := d("7")
	cases := []struct {
		name      string
		cur       inventory.Level
		typ       string
		qty       string
		unitCost  *decimal.Decimal
		wantQty   string
		wantValue string
		wantErr   error
	}{
		{"entrada con costo", level("10", "50"), entity.MovementTypeIN, "10", &cost, "20", "120", nil},
		{"entrada al costo actual", level("10", "50"), entity.MovementTypeIN, "5", nil, "15", "75", nil},
		{"salida", level("10", "50"), entity.MovementTypeOUT, "4", nil, "6", "30", nil},
		{"salida total deja valor cero", level("3", "10"), entity.MovementTypeOUT, "3", nil, "0", "0", nil},
		{"salida mayor que la existencia", level("3", "15"), entity.MovementTypeOUT, "4", nil, "3", "15", domain.ErrInsufficientStock},
		{"ajuste positivo", level("2", "10"), entity.MovementTypeADJUSTMENT, "3", nil, "5", "25", nil},
		{"ajuste negativo no baja de cero", level("2", "10"), entity.MovementTypeADJUSTMENT, "-9", nil, "0", "0", nil},
		{"ajuste cero", level("2", "10"), entity.MovementTypeADJUSTMENT, "0", nil, "2", "10", domain.ErrInvalidInput},
		{"entrada negativa", level("2", "10"), entity.MovementTypeIN, "-1", nil, "2", "10", domain.ErrInvalidInput},
		{"tipo desconocido", level("2", "10"), "TRANSFER", "1", nil, "2", "10", domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := inventory.Apply(tc.cur, tc.typ, d(tc.qty), tc.unitCost)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.True(t, got.Quantity.Equal(d(tc.wantQty)), "quantity=%s", got.Quantity)
			assert.True(t, got.Value.Equal(d(tc.wantValue)), "value=%s", got.Value)
		})
	}
}
