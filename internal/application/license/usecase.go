// Package license controla la suscripción de la instalación. Sin licencia vigente la API protegida
// responde 402 y solo quedan disponibles login y las rutas de compra/renovación.
package license

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
)

// PlanTrial plan asignado por EnsureTrial.
const PlanTrial = "trial"

// UseCase estado, compra y renovación de la licencia.
type UseCase struct {
	repo      repository.LicenseRepository
	trialDays int
	now       func() time.Time
}

// NewUseCase construye el caso de uso. trialDays <= 0 desactiva la licencia de prueba.
func NewUseCase(repo repository.LicenseRepository, trialDays int) *UseCase {
	return &UseCase{repo: repo, trialDays: trialDays, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Status valid = activa y expires_at > now; days_remaining redondea hacia arriba y nunca es negativo.
func (uc *UseCase) Status(ctx context.Context) (*dto.LicenseStatusResponse, error) {
	l, err := uc.repo.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("obtener licencia: %w", err)
	}
	now := uc.now()
	resp := &dto.LicenseStatusResponse{
		Valid:         l.IsValid(now),
		DaysRemaining: l.DaysRemaining(now),
	}
	if l != nil {
		resp.License = toLicenseResponse(l)
	}
	return resp, nil
}

// HasValidLicense usado por el middleware RequireLicense.
func (uc *UseCase) HasValidLicense(ctx context.Context) (bool, error) {
	l, err := uc.repo.Current(ctx)
	if err != nil {
		return false, err
	}
	return l.IsValid(uc.now()), nil
}

// Purchase reemplaza la licencia actual por una nueva con clave nueva que vence en now + duration_days.
func (uc *UseCase) Purchase(ctx context.Context, in dto.PurchaseLicenseRequest) (*dto.LicenseStatusResponse, error) {
	if in.DurationDays <= 0 || strings.TrimSpace(in.PlanType) == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	l := &entity.License{
		ID:          uuid.New().String(),
		LicenseKey:  newLicenseKey(now),
		PlanType:    in.PlanType,
		IsActive:    true,
		ExpiresAt:   now.AddDate(0, 0, in.DurationDays),
		PurchasedAt: now,
		UpdatedAt:   now,
	}
	if current, err := uc.repo.Current(ctx); err == nil && current != nil {
		l.ID = current.ID
	}
	if err := uc.repo.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("guardar licencia: %w", err)
	}
	return uc.Status(ctx)
}

// Renew extiende desde expires_at si la licencia sigue vigente, o desde ahora si ya venció.
func (uc *UseCase) Renew(ctx context.Context, in dto.RenewLicenseRequest) (*dto.LicenseStatusResponse, error) {
	if in.DurationDays <= 0 {
		return nil, domain.ErrInvalidInput
	}
	l, err := uc.repo.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("obtener licencia: %w", err)
	}
	if l == nil {
		return nil, fmt.Errorf("%w: no hay licencia para renovar", domain.ErrNotFound)
	}
	now := uc.now()
	base := now
	if l.IsValid(now) {
		base = l.ExpiresAt
	}
	l.ExpiresAt = base.AddDate(0, 0, in.DurationDays)
	l.IsActive = true
	l.UpdatedAt = now
	if err := uc.repo.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("guardar licencia: %w", err)
	}
	return uc.Status(ctx)
}

// EnsureTrial crea una licencia de prueba si la instalación nunca tuvo una. created=false si ya existía.
func (uc *UseCase) EnsureTrial(ctx context.Context) (created bool, err error) {
	if uc.trialDays <= 0 {
		return false, nil
	}
	current, err := uc.repo.Current(ctx)
	if err != nil {
		return false, fmt.Errorf("obtener licencia: %w", err)
	}
	if current != nil {
		return false, nil
	}
	if _, err := uc.Purchase(ctx, dto.PurchaseLicenseRequest{PlanType: PlanTrial, DurationDays: uc.trialDays}); err != nil {
		return false, err
	}
	return true, nil
}

// newLicenseKey LIC-<unix ms>-<8 caracteres en mayúscula>.
func newLicenseKey(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("LIC-%d-%s", now.UnixMilli(), suffix)
}

func toLicenseResponse(l *entity.License) *dto.LicenseResponse {
	return &dto.LicenseResponse{
		LicenseKey:  l.LicenseKey,
		PlanType:    l.PlanType,
		IsActive:    l.IsActive,
		ExpiresAt:   l.ExpiresAt,
		PurchasedAt: l.PurchasedAt,
	}
}
