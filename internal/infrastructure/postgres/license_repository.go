package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
)

var _ repository.LicenseRepository = (*LicenseRepo)(nil)

// LicenseRepo licencia de la instalación (una fila con singleton = true).
type LicenseRepo struct {
	q Querier
}

// NewLicenseRepository construye el adaptador.
func NewLicenseRepository(q Querier) *LicenseRepo {
	return &LicenseRepo{q: q}
}

// Current devuelve la licencia vigente o nil si nunca se adquirió una.
func (r *LicenseRepo) Current(ctx context.Context) (*entity.License, error) {
	query := `
		SELECT id, license_key, plan_type, is_active, expires_at, purchased_at, updated_at
		FROM licenses WHERE singleton`
	var l entity.License
	err := r.q.QueryRow(ctx, query).Scan(&l.ID, &l.LicenseKey, &l.PlanType, &l.IsActive, &l.ExpiresAt, &l.PurchasedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get license: %w", err)
	}
	return &l, nil
}

// Save inserta o reemplaza la licencia de la instalación.
func (r *LicenseRepo) Save(ctx context.Context, l *entity.License) error {
	query := `
		INSERT INTO licenses (singleton, id, license_key, plan_type, is_active, expires_at, purchased_at, updated_at)
		VALUES (true, $1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (singleton) DO UPDATE
		SET id = EXCLUDED.id, license_key = EXCLUDED.license_key, plan_type = EXCLUDED.plan_type,
		    is_active = EXCLUDED.is_active, expires_at = EXCLUDED.expires_at,
		    purchased_at = EXCLUDED.purchased_at, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, l.ID, l.LicenseKey, l.PlanType, l.IsActive, l.ExpiresAt, l.PurchasedAt, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save license: %w", err)
	}
	return nil
}
