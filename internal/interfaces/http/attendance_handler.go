package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/application/usecase"
)

// AttendanceHandler asistencia diaria.
type AttendanceHandler struct {
	uc *usecase.AttendanceUseCase
}

func NewAttendanceHandler(uc *usecase.AttendanceUseCase) *AttendanceHandler {
	return &AttendanceHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar jornada (una por trabajador y fecha)
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateAttendanceRequest  true  "jornada"
// @Success      201   {object}  dto.AttendanceResponse
// @Failure      409   {object}  dto.ErrorResponse  "ya existe registro para esa fecha"
// @Router       /api/attendance [post]
func (h *AttendanceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAttendanceRequest
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
// @Summary      Listar asistencia visible
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        date    query  string  false  "YYYY-MM-DD"
// @Param        status  query  string  false  "estado"
// @Success      200   {object}  dto.AttendanceListResponse
// @Router       /api/attendance [get]
func (h *AttendanceHandler) List(c *fiber.Ctx) error {
	var f dto.AttendanceFilter
	if ok, err := parseQuery(c, &f); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetScope(c), f, parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *AttendanceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *AttendanceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateAttendanceRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetScope(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *AttendanceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetScope(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
