package repository

import (
	"context"

	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
)

// LicenseRepository persistencia de la licencia de la instalación (una sola vigente).
type LicenseRepository interface {
	// Current devuelve la licencia actual o nil si nunca se adquirió una.
	Current(ctx context.Context) (*entity.License, error)
	// Save inserta o reemplaza la licencia actual.
	Save(ctx context.Context, l *entity.License) error
}
