package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/application/usecase"
)

// ActivityHandler feed de actividades de campo.
type ActivityHandler struct {
	uc *usecase.ActivityUseCase
}

func NewActivityHandler(uc *usecase.ActivityUseCase) *ActivityHandler {
	return &ActivityHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar actividad de campo
// @Tags         activities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateActivityRequest  true  "actividad"
// @Success      201   {object}  dto.ActivityResponse
// @Router       /api/activities [post]
func (h *ActivityHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateActivityRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetScope(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Feed de actividades (más reciente primero)
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  dto.ActivityListResponse
// @Router       /api/activities [get]
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetScope(c), parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *ActivityHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetScope(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
