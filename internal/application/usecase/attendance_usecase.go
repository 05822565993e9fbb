package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/access"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
)

// AttendanceUseCase registro diario de asistencia (permiso attendance). El registro hereda la
// sucursal del trabajador; uno por trabajador y fecha.
type AttendanceUseCase struct {
	repo     repository.AttendanceRepository
	userRepo repository.UserRepository
}

// NewAttendanceUseCase construye el caso de uso.
func NewAttendanceUseCase(repo repository.AttendanceRepository, userRepo repository.UserRepository) *AttendanceUseCase {
	return &AttendanceUseCase{repo: repo, userRepo: userRepo}
}

// Create registra la jornada. El trabajador debe existir y pertenecer a una sucursal visible.
func (uc *AttendanceUseCase) Create(ctx context.Context, scope *access.Scope, in dto.CreateAttendanceRequest) (*dto.AttendanceResponse, error) {
	if !access.HasPermission(scope, access.PermAttendance) {
		return nil, domain.ErrForbidden
	}
	day, err := time.Parse(dateLayout, in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
	}
	status := entity.AttendanceStatus(in.Status)
	if err := checkShift(status, in.CheckIn, in.CheckOut); err != nil {
		return nil, err
	}
	staff, err := uc.userRepo.GetByID(ctx, in.StaffID)
	if err != nil {
		return nil, err
	}
	if staff == nil || staff.BranchID == "" {
		return nil, fmt.Errorf("%w: el trabajador %s no existe o no tiene sucursal", domain.ErrInvalidReference, in.StaffID)
	}
	if !access.CanAccess(scope, staff.BranchID) {
		return nil, domain.ErrScopeViolation
	}

	now := time.Now()
	rec := &entity.AttendanceRecord{
		ID:        uuid.New().String(),
		BranchID:  staff.BranchID,
		StaffID:   staff.ID,
		StaffName: staff.Name,
		Date:      day,
		CheckIn:   in.CheckIn,
		CheckOut:  in.CheckOut,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return toAttendanceResponse(rec), nil
}

func (uc *AttendanceUseCase) GetByID(ctx context.Context, scope *access.Scope, id string) (*dto.AttendanceResponse, error) {
	rec, err := uc.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	return toAttendanceResponse(rec), nil
}

// Update corrige horas o estado. Trabajador y fecha no cambian.
func (uc *AttendanceUseCase) Update(ctx context.Context, scope *access.Scope, id string, in dto.UpdateAttendanceRequest) (*dto.AttendanceResponse, error) {
	rec, err := uc.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if in.Status != nil {
		rec.Status = entity.AttendanceStatus(*in.Status)
	}
	if in.CheckIn != nil {
		rec.CheckIn = *in.CheckIn
	}
	if in.CheckOut != nil {
		rec.CheckOut = *in.CheckOut
	}
	if rec.Status == entity.AttendanceAbsent && in.CheckIn == nil && in.CheckOut == nil {
		rec.CheckIn, rec.CheckOut = "", ""
	}
	if err := checkShift(rec.Status, rec.CheckIn, rec.CheckOut); err != nil {
		return nil, err
	}
	rec.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return toAttendanceResponse(rec), nil
}

// List registros visibles de una fecha (vacía = todas), con conteo por estado.
func (uc *AttendanceUseCase) List(ctx context.Context, scope *access.Scope, f dto.AttendanceFilter, p dto.PageRequest) (*dto.AttendanceListResponse, error) {
	if !access.HasPermission(scope, access.PermAttendance) {
		return nil, domain.ErrForbidden
	}
	var day time.Time
	if f.Date != "" {
		d, err := time.Parse(dateLayout, f.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
		}
		day = d
	}
	out := &dto.AttendanceListResponse{Items: []dto.AttendanceResponse{}}
	branchID, ok := listBranch(scope)
	if !ok {
		out.Page = dto.PageResponse{Limit: p.Limit, Offset: p.Offset}
		return out, nil
	}
	list, err := uc.repo.ListByBranch(ctx, branchID, day)
	if err != nil {
		return nil, err
	}
	matched := make([]*entity.AttendanceRecord, 0, len(list))
	for _, rec := range access.Filter(scope, list) {
		if f.Status != "" && string(rec.Status) != f.Status {
			continue
		}
		switch rec.Status {
		case entity.AttendancePresent:
			out.Summary.Present++
		case entity.AttendanceAbsent:
			out.Summary.Absent++
		case entity.AttendanceLate:
			out.Summary.Late++
		case entity.AttendanceHalfDay:
			out.Summary.HalfDay++
		}
		matched = append(matched, rec)
	}
	visible, meta := Page(matched, p)
	for _, rec := range visible {
		out.Items = append(out.Items, *toAttendanceResponse(rec))
	}
	out.Page = meta
	return out, nil
}

func (uc *AttendanceUseCase) Delete(ctx context.Context, scope *access.Scope, id string) error {
	if _, err := uc.load(ctx, scope, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *AttendanceUseCase) load(ctx context.Context, scope *access.Scope, id string) (*entity.AttendanceRecord, error) {
	if !access.HasPermission(scope, access.PermAttendance) {
		return nil, domain.ErrForbidden
	}
	rec, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	if !access.CanAccess(scope, rec.BranchID) {
		return nil, domain.ErrScopeViolation
	}
	return rec, nil
}

// checkShift un ausente no tiene horas; la salida no puede ser anterior a la entrada (HH:MM).
func checkShift(status entity.AttendanceStatus, checkIn, checkOut string) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	if status == entity.AttendanceAbsent && (checkIn != "" || checkOut != "") {
		return fmt.Errorf("%w: una ausencia no lleva horas", domain.ErrInvalidInput)
	}
	for _, hm := range []string{checkIn, checkOut} {
		if hm == "" {
			continue
		}
		if _, err := time.Parse("15:04", hm); err != nil {
			return fmt.Errorf("%w: hora %q debe tener formato HH:MM", domain.ErrInvalidInput, hm)
		}
	}
	if checkIn != "" && checkOut != "" && checkOut < checkIn {
		return fmt.Errorf("%w: check_out anterior a check_in", domain.ErrInvalidInput)
	}
	return nil
}

func toAttendanceResponse(r *entity.AttendanceRecord) *dto.AttendanceResponse {
	return &dto.AttendanceResponse{
		ID:        r.ID,
		BranchID:  r.BranchID,
		StaffID:   r.StaffID,
		StaffName: r.StaffName,
		Date:      r.Date.Format(dateLayout),
		CheckIn:   r.CheckIn,
		CheckOut:  r.CheckOut,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
