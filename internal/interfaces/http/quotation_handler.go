package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/application/finance"
)

// QuotationHandler maneja las peticiones HTTP de cotizaciones (requiere permiso finance).
type QuotationHandler struct {
	uc    *finance.QuotationUseCase
	print *finance.PrintUseCase
}

// NewQuotationHandler construye el handler.
func NewQuotationHandler(uc *finance.QuotationUseCase, print *finance.PrintUseCase) *QuotationHandler {
	return &QuotationHandler{uc: uc, print: print}
}

// Create godoc
// @Summary      Crear cotización
// @Description  Se crea en draft, o en sent y notificando al cliente si notify=true.
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateQuotationRequest  true  "cotización"
// @Success      201   {object}  dto.QuotationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/finance/quotations [post]
func (h *QuotationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateQuotationRequest
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
// @Summary      Listar cotizaciones visibles (más recientes primero)
// @Tags         quotations
// @Produce      json
// @Security     BearerAuth
// @Success      200   {array}  dto.QuotationResponse
// @Router       /api/finance/quotations [get]
func (h *QuotationHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetScope(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cotización
// @Tags         quotations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200   {object}  dto.QuotationResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/finance/quotations/{id} [get]
func (h *QuotationHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar cotización (no convertida)
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                      true  "ID"
// @Param        body  body  dto.UpdateQuotationRequest  true  "campos a modificar"
// @Success      200   {object}  dto.QuotationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/finance/quotations/{id} [put]
func (h *QuotationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateQuotationRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetScope(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar cotización (no convertida)
// @Tags         quotations
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      204
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/finance/quotations/{id} [delete]
func (h *QuotationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetScope(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Send godoc
// @Summary      Enviar cotización al cliente
// @Tags         quotations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200   {object}  dto.QuotationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/finance/quotations/{id}/send [post]
func (h *QuotationHandler) Send(c *fiber.Ctx) error {
	out, err := h.uc.Send(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Accept godoc
// @Summary      Marcar cotización como aceptada
// @Tags         quotations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200   {object}  dto.QuotationResponse
// @Router       /api/finance/quotations/{id}/accept [post]
func (h *QuotationHandler) Accept(c *fiber.Ctx) error {
	out, err := h.uc.Accept(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Marcar cotización como rechazada
// @Tags         quotations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200   {object}  dto.QuotationResponse
// @Router       /api/finance/quotations/{id}/reject [post]
func (h *QuotationHandler) Reject(c *fiber.Ctx) error {
	out, err := h.uc.Reject(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Convert godoc
// @Summary      Convertir cotización aceptada en factura
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                       true   "ID"
// @Param        body  body  dto.ConvertQuotationRequest  false  "due_date opcional"
// @Success      201   {object}  dto.ConvertQuotationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/finance/quotations/{id}/convert [post]
func (h *QuotationHandler) Convert(c *fiber.Ctx) error {
	var in dto.ConvertQuotationRequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
	}
	out, err := h.uc.Convert(c.UserContext(), GetScope(c), c.Params("id"), in.DueDate)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// PDF godoc
// @Summary      Versión imprimible de la cotización
// @Tags         quotations
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200   {file}  binary
// @Router       /api/finance/quotations/{id}/pdf [get]
func (h *QuotationHandler) PDF(c *fiber.Ctx) error {
	pdf, filename, err := h.print.QuotationPDF(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return sendPDF(c, pdf, filename)
}

// sendPDF responde los bytes del documento para abrirlo en el navegador.
func sendPDF(c *fiber.Ctx, pdf []byte, filename string) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdf)
}
