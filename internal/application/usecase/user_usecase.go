package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/FarmHub-api/internal/application/auth"
	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/access"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo       repository.UserRepository
	branchRepo repository.BranchRepository
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(repo repository.UserRepository, branchRepo repository.BranchRepository) *UserUseCase {
	return &UserUseCase{repo: repo, branchRepo: branchRepo}
}

// Create crea un usuario. Un branch_manager solo crea usuarios de su sucursal y nunca un super_admin.
// Todo rol distinto de super_admin necesita una sucursal existente.
func (uc *UserUseCase) Create(ctx context.Context, scope *access.Scope, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !access.HasPermission(scope, access.PermUsers) {
		return nil, domain.ErrForbidden
	}
	role := entity.Role(in.Role)
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, in.Role)
	}

	branchID := strings.TrimSpace(in.BranchID)
	if scope.Role != entity.RoleSuperAdmin {
		if role == entity.RoleSuperAdmin {
			return nil, fmt.Errorf("%w: solo un super_admin puede crear otro super_admin", domain.ErrForbidden)
		}
		if branchID != "" && branchID != scope.HomeBranchID {
			return nil, domain.ErrScopeViolation
		}
		branchID = scope.HomeBranchID
	}
	if role == entity.RoleSuperAdmin {
		branchID = ""
	} else {
		if branchID == "" {
			return nil, fmt.Errorf("%w: branch_id es obligatorio para el rol %s", domain.ErrInvalidInput, role)
		}
		branch, err := uc.branchRepo.GetByID(ctx, branchID)
		if err != nil {
			return nil, err
		}
		if branch == nil {
			return nil, fmt.Errorf("%w: la sucursal %s no existe", domain.ErrInvalidReference, branchID)
		}
	}

	existing, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		BranchID:     branchID,
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(hash),
		Name:         in.Name,
		Phone:        in.Phone,
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// GetByID obtiene un usuario visible para la sesión.
func (uc *UserUseCase) GetByID(ctx context.Context, scope *access.Scope, id string) (*dto.UserResponse, error) {
	if !access.HasPermission(scope, access.PermUsers) && (scope == nil || scope.UserID != id) {
		return nil, domain.ErrForbidden
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.ID != scope.UserID && !access.CanAccess(scope, user.BranchID) {
		return nil, domain.ErrScopeViolation
	}
	return auth.ToUserResponse(user), nil
}

// List usuarios de la sucursal efectiva (todos para super_admin sin selección).
func (uc *UserUseCase) List(ctx context.Context, scope *access.Scope, p dto.PageRequest) (*dto.UserListResponse, error) {
	if !access.HasPermission(scope, access.PermUsers) {
		return nil, domain.ErrForbidden
	}
	branchID := access.EffectiveBranchID(scope)
	if branchID == access.AllBranches {
		branchID = ""
	}
	list, err := uc.repo.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	visible, meta := Page(access.Filter(scope, list), p)
	items := make([]dto.UserResponse, 0, len(visible))
	for _, u := range visible {
		items = append(items, *auth.ToUserResponse(u))
	}
	return &dto.UserListResponse{Items: items, Page: meta}, nil
}
