package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
)

var _ repository.CounterRepository = (*CounterRepo)(nil)

// CounterRepo numeración atómica sobre document_counters.
type CounterRepo struct {
	q Querier
}

// NewCounterRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCounterRepository(q Querier) *CounterRepo {
	return &CounterRepo{q: q}
}

// Reserve incrementa el contador (kind, year) y devuelve el valor previo.
// El upsert toma el lock de la fila: dos transacciones concurrentes nunca obtienen el mismo valor.
func (r *CounterRepo) Reserve(ctx context.Context, kind string, year int) (int, error) {
	const query = `
		INSERT INTO document_counters (kind, year, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (kind, year) DO UPDATE SET value = document_counters.value + 1
		RETURNING value - 1`
	var prev int
	if err := r.q.QueryRow(ctx, query, kind, year).Scan(&prev); err != nil {
		return 0, fmt.Errorf("reserve %s number: %w", kind, err)
	}
	return prev, nil
}
