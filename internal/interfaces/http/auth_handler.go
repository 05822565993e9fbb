package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/FarmHub-api/internal/application/auth"
	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/domain"
)

// AuthHandler maneja login y el alcance de la sesión.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
		}
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "cuenta inactiva o suspendida"})
		}
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Session godoc
// @Summary      Alcance de la sesión
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  dto.SessionResponse
// @Router       /api/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	return c.JSON(auth.SessionOf(*GetScope(c)))
}

// SwitchBranch godoc
// @Summary      Seleccionar sucursal (super_admin)
// @Description  Para otros roles o sucursales inexistentes el alcance no cambia (switched=false).
// @Tags         session
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.SwitchBranchRequest  true  "branch_id"
// @Success      200   {object}  dto.SwitchBranchResponse
// @Router       /api/session/branch [post]
func (h *AuthHandler) SwitchBranch(c *fiber.Ctx) error {
	var in dto.SwitchBranchRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.SwitchBranch(c.UserContext(), *GetScope(c), in.BranchID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ClearBranch godoc
// @Summary      Volver a la vista de todas las sucursales
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  dto.SwitchBranchResponse
// @Router       /api/session/branch [delete]
func (h *AuthHandler) ClearBranch(c *fiber.Ctx) error {
	out, err := h.uc.ClearBranch(*GetScope(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
