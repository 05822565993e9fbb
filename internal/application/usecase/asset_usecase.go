package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/access"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// parseDay fecha YYYY-MM-DD. Vacía devuelve today.
func parseDay(field, s string, today time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		y, m, d := today.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s debe tener formato YYYY-MM-DD", domain.ErrInvalidInput, field)
	}
	return t, nil
}

// AssetUseCase activos fijos por sucursal (permiso assets).
//
//	operational ⇄ maintenance → retired. Un activo retirado no cambia de estado.
type AssetUseCase struct {
	repo       repository.AssetRepository
	branchRepo repository.BranchRepository
	now        func() time.Time
}

// NewAssetUseCase construye el caso de uso.
func NewAssetUseCase(repo repository.AssetRepository, branchRepo repository.BranchRepository) *AssetUseCase {
	return &AssetUseCase{repo: repo, branchRepo: branchRepo, now: time.Now}
}

// Create registra el activo como operational.
func (uc *AssetUseCase) Create(ctx context.Context, scope *access.Scope, in dto.CreateAssetRequest) (*dto.AssetResponse, error) {
	if !access.HasPermission(scope, access.PermAssets) {
		return nil, domain.ErrForbidden
	}
	if in.Value.IsNegative() {
		return nil, fmt.Errorf("%w: value no puede ser negativo", domain.ErrInvalidInput)
	}
	purchase, err := time.Parse(dateLayout, in.PurchaseDate)
	if err != nil {
		return nil, fmt.Errorf("%w: purchase_date debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
	}
	var last *time.Time
	if in.LastMaintenance != "" {
		t, err := time.Parse(dateLayout, in.LastMaintenance)
		if err != nil {
			return nil, fmt.Errorf("%w: last_maintenance debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
		}
		last = &t
	}
	branchID, err := TargetBranch(ctx, uc.branchRepo, scope, in.BranchID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	a := &entity.Asset{
		ID:              uuid.New().String(),
		BranchID:        branchID,
		Name:            in.Name,
		Type:            entity.AssetType(in.Type),
		Status:          entity.AssetStatusOperational,
		Value:           in.Value.Round(2),
		PurchaseDate:    purchase,
		LastMaintenance: last,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return toAssetResponse(a), nil
}

func (uc *AssetUseCase) GetByID(ctx context.Context, scope *access.Scope, id string) (*dto.AssetResponse, error) {
	a, err := uc.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	return toAssetResponse(a), nil
}

// Update cambia datos y estado. Salir de retired es una transición inválida.
func (uc *AssetUseCase) Update(ctx context.Context, scope *access.Scope, id string, in dto.UpdateAssetRequest) (*dto.AssetResponse, error) {
	a, err := uc.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if in.Status != nil {
		to := entity.AssetStatus(*in.Status)
		if !to.IsValid() {
			return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, *in.Status)
		}
		if a.Status == entity.AssetStatusRetired && to != entity.AssetStatusRetired {
			return nil, fmt.Errorf("%w: el activo está retirado", domain.ErrInvalidTransition)
		}
		a.Status = to
	}
	if in.Name != nil {
		a.Name = *in.Name
	}
	if in.Type != nil {
		a.Type = entity.AssetType(*in.Type)
	}
	if in.Value != nil {
		if in.Value.IsNegative() {
			return nil, fmt.Errorf("%w: value no puede ser negativo", domain.ErrInvalidInput)
		}
		a.Value = in.Value.Round(2)
	}
	a.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return toAssetResponse(a), nil
}

// RecordMaintenance registra un mantenimiento realizado y deja el activo operational.
func (uc *AssetUseCase) RecordMaintenance(ctx context.Context, scope *access.Scope, id string, in dto.AssetMaintenanceRequest) (*dto.AssetResponse, error) {
	a, err := uc.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if a.Status == entity.AssetStatusRetired {
		return nil, fmt.Errorf("%w: el activo está retirado", domain.ErrInvalidTransition)
	}
	day, err := parseDay("date", in.Date, uc.now())
	if err != nil {
		return nil, err
	}
	if day.Before(a.PurchaseDate) {
		return nil, fmt.Errorf("%w: el mantenimiento no puede ser anterior a la compra", domain.ErrInvalidInput)
	}
	a.LastMaintenance = &day
	a.Status = entity.AssetStatusOperational
	a.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return toAssetResponse(a), nil
}

// List activos visibles filtrados por tipo, estado y nombre, con resumen por estado.
func (uc *AssetUseCase) List(ctx context.Context, scope *access.Scope, f dto.AssetFilter, p dto.PageRequest) (*dto.AssetListResponse, error) {
	if !access.HasPermission(scope, access.PermAssets) {
		return nil, domain.ErrForbidden
	}
	out := &dto.AssetListResponse{Items: []dto.AssetResponse{}, Summary: dto.AssetSummary{TotalValue: decimal.Zero}}
	branchID, ok := listBranch(scope)
	if !ok {
		out.Page = dto.PageResponse{Limit: p.Limit, Offset: p.Offset}
		return out, nil
	}
	list, err := uc.repo.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	matched := make([]*entity.Asset, 0, len(list))
	for _, a := range access.Filter(scope, list) {
		if f.Type != "" && string(a.Type) != f.Type {
			continue
		}
		if f.Status != "" && string(a.Status) != f.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(a.Name), search) {
			continue
		}
		switch a.Status {
		case entity.AssetStatusOperational:
			out.Summary.Operational++
		case entity.AssetStatusMaintenance:
			out.Summary.Maintenance++
		case entity.AssetStatusRetired:
			out.Summary.Retired++
		}
		out.Summary.TotalValue = out.Summary.TotalValue.Add(a.Value)
		matched = append(matched, a)
	}
	visible, meta := Page(matched, p)
	for _, a := range visible {
		out.Items = append(out.Items, *toAssetResponse(a))
	}
	out.Page = meta
	return out, nil
}

func (uc *AssetUseCase) Delete(ctx context.Context, scope *access.Scope, id string) error {
	if _, err := uc.load(ctx, scope, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *AssetUseCase) load(ctx context.Context, scope *access.Scope, id string) (*entity.Asset, error) {
	if !access.HasPermission(scope, access.PermAssets) {
		return nil, domain.ErrForbidden
	}
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if !access.CanAccess(scope, a.BranchID) {
		return nil, domain.ErrScopeViolation
	}
	return a, nil
}

func toAssetResponse(a *entity.Asset) *dto.AssetResponse {
	r := &dto.AssetResponse{
		ID:           a.ID,
		BranchID:     a.BranchID,
		Name:         a.Name,
		Type:         string(a.Type),
		Status:       string(a.Status),
		Value:        a.Value,
		PurchaseDate: a.PurchaseDate.Format(dateLayout),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if a.LastMaintenance != nil {
		r.LastMaintenance = a.LastMaintenance.Format(dateLayout)
	}
	return r
}
