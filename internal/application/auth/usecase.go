package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/domain"
	"github.com/jhoicas/FarmHub-api/internal/domain/access"
	"github.com/jhoicas/FarmHub-api/internal/domain/entity"
	"github.com/jhoicas/FarmHub-api/internal/domain/repository"
	"github.com/jhoicas/FarmHub-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login y manejo del alcance de la sesión (cambio de sucursal del super_admin).
type AuthUseCase struct {
	userRepo   repository.UserRepository
	branchRepo repository.BranchRepository
	jwtCfg     JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, branchRepo repository.BranchRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, branchRepo: branchRepo, jwtCfg: jwtCfg}
}

// Login verifica email/password, genera JWT con el alcance inicial y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, err
	}
	// Email desconocido y contraseña incorrecta responden igual.
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	scope := access.Scope{UserID: user.ID, Role: user.Role, HomeBranchID: user.BranchID}
	token, err := uc.issue(scope)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:   token,
		User:    *ToUserResponse(user),
		Session: SessionOf(scope),
	}, nil
}

// SwitchBranch selecciona una sucursal (solo super_admin y sucursal existente) y reemite el token.
// Para otros roles o sucursales inexistentes el alcance no cambia y Switched=false.
func (uc *AuthUseCase) SwitchBranch(ctx context.Context, scope access.Scope, branchID string) (*dto.SwitchBranchResponse, error) {
	target, err := uc.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("obtener sucursal: %w", err)
	}
	next := access.SwitchBranch(scope, target)
	token, err := uc.issue(next)
	if err != nil {
		return nil, err
	}
	return &dto.SwitchBranchResponse{
		Token:    token,
		Switched: scope.Role == entity.RoleSuperAdmin && target != nil,
		Session:  SessionOf(next),
	}, nil
}

// ClearBranch vuelve a la vista de todas las sucursales y reemite el token.
func (uc *AuthUseCase) ClearBranch(scope access.Scope) (*dto.SwitchBranchResponse, error) {
	next := access.ClearBranch(scope)
	token, err := uc.issue(next)
	if err != nil {
		return nil, err
	}
	return &dto.SwitchBranchResponse{
		Token:    token,
		Switched: next.SelectedBranchID != scope.SelectedBranchID,
		Session:  SessionOf(next),
	}, nil
}

// ScopeFromClaims reconstruye el alcance a partir de los claims del token.
func ScopeFromClaims(c *jwt.Claims) access.Scope {
	return access.Scope{
		UserID:           c.UserID,
		Role:             entity.Role(c.Role),
		HomeBranchID:     c.BranchID,
		SelectedBranchID: c.SelectedBranchID,
	}
}

// SessionOf alcance y permisos listos para el cliente.
func SessionOf(s access.Scope) dto.SessionResponse {
	perms := access.PermissionsFor(s.Role)
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, string(p))
	}
	return dto.SessionResponse{
		UserID:            s.UserID,
		Role:              s.Role.String(),
		BranchID:          s.HomeBranchID,
		SelectedBranchID:  s.SelectedBranchID,
		EffectiveBranchID: access.EffectiveBranchID(&s),
		Permissions:       names,
	}
}

func (uc *AuthUseCase) issue(s access.Scope) (string, error) {
	return jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes, jwt.Session{
		UserID:           s.UserID,
		Role:             s.Role.String(),
		BranchID:         s.HomeBranchID,
		SelectedBranchID: s.SelectedBranchID,
	})
}

// ToUserResponse mapea la entidad a la respuesta (sin password).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		BranchID:  u.BranchID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		Role:      u.Role.String(),
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
