package repository

import "context"

// CounterRepository contador atómico de numeración por (tipo de documento, año).
type CounterRepository interface {
	// Reserve incrementa el contador y devuelve el valor previo (cantidad de documentos ya numerados).
	Reserve(ctx context.Context, kind string, year int) (int, error)
}
