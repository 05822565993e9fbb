package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/access"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
)

// ActivityUseCase feed de labores de campo por sucursal (permiso activities).
type ActivityUseCase struct {
	repo       repository.ActivityRepository
	branchRepo repository.BranchRepository
	now        func() time.Time
}

// NewActivityUseCase construye el caso de uso.
func NewActivityUseCase(repo repository.ActivityRepository, branchRepo repository.BranchRepository) *ActivityUseCase {
	return &ActivityUseCase{repo: repo, branchRepo: branchRepo, now: time.Now}
}

// Create registra una actividad. Sin fecha se usa hoy; sin staff_id, el usuario de la sesión.
func (uc *ActivityUseCase) Create(ctx context.Context, scope *access.Scope, in dto.CreateActivityRequest) (*dto.ActivityResponse, error) {
	if !access.HasPermission(scope, access.PermActivities) {
		return nil, domain.ErrForbidden
	}
	typ := entity.ActivityType(in.Type)
	if !typ.IsValid() {
		return nil, fmt.Errorf("%w: tipo de actividad %q", domain.ErrInvalidInput, in.Type)
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, fmt.Errorf("%w: description es obligatoria", domain.ErrInvalidInput)
	}
	now := uc.now()
	day, err := parseDay("date", in.Date, now)
	if err != nil {
		return nil, err
	}
	branchID, err := TargetBranch(ctx, uc.branchRepo, scope, in.BranchID)
	if err != nil {
		return nil, err
	}
	staffID := strings.TrimSpace(in.StaffID)
	if staffID == "" {
		staffID = scope.UserID
	}

	a := &entity.Activity{
		ID:          uuid.New().String(),
		BranchID:    branchID,
		Type:        typ,
		Description: strings.TrimSpace(in.Description),
		Date:        day,
		StaffID:     staffID,
		CreatedAt:   now,
	}
	if err := uc.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return toActivityResponse(a), nil
}

// List feed visible, la actividad más reciente primero.
func (uc *ActivityUseCase) List(ctx context.Context, scope *access.Scope, p dto.PageRequest) (*dto.ActivityListResponse, error) {
	if !access.HasPermission(scope, access.PermActivities) {
		return nil, domain.ErrForbidden
	}
	branchID, ok := listBranch(scope)
	if !ok {
		return &dto.ActivityListResponse{Items: []dto.ActivityResponse{}, Page: dto.PageResponse{Limit: p.Limit, Offset: p.Offset}}, nil
	}
	list, err := uc.repo.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	visible, meta := Page(access.Filter(scope, list), p)
	items := make([]dto.ActivityResponse, 0, len(visible))
	for _, a := range visible {
		items = append(items, *toActivityResponse(a))
	}
	return &dto.ActivityListResponse{Items: items, Page: meta}, nil
}

// Delete retira una actividad del feed.
func (uc *ActivityUseCase) Delete(ctx context.Context, scope *access.Scope, id string) error {
	if !access.HasPermission(scope, access.PermActivities) {
		return domain.ErrForbidden
	}
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a == nil {
		return domain.ErrNotFound
	}
	if !access.CanAccess(scope, a.BranchID) {
		return domain.ErrScopeViolation
	}
	return uc.repo.Delete(ctx, id)
}

func toActivityResponse(a *entity.Activity) *dto.ActivityResponse {
	return &dto.ActivityResponse{
		ID:          a.ID,
		BranchID:    a.BranchID,
		Type:        string(a.Type),
		Description: a.Description,
		Date:        a.Date.Format(dateLayout),
		StaffID:     a.StaffID,
		CreatedAt:   a.CreatedAt,
	}
}
