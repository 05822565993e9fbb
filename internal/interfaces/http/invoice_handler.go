package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/application/finance"
)

// InvoiceHandler maneja las peticiones HTTP de facturación (requiere permiso finance).
type InvoiceHandler struct {
	uc    *finance.InvoiceUseCase
	print *finance.PrintUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *finance.InvoiceUseCase, print *finance.PrintUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, print: print}
}

// Create godoc
// @Summary      Crear factura
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateInvoiceRequest  true  "factura"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/finance/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
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
// @Summary      Listar facturas visibles (más recientes primero)
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Success      200   {array}  dto.InvoiceResponse
// @Router       /api/finance/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetScope(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener factura
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/finance/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar factura (no pagada)
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                    true  "ID"
// @Param        body  body  dto.UpdateInvoiceRequest  true  "campos a modificar"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/finance/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceRequest
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
// @Summary      Eliminar factura (no pagada)
// @Tags         invoices
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      204
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/finance/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetScope(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Send godoc
// @Summary      Enviar factura al cliente
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200   {object}  dto.InvoiceResponse
// @Router       /api/finance/invoices/{id}/send [post]
func (h *InvoiceHandler) Send(c *fiber.Ctx) error {
	out, err := h.uc.Send(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MarkPaid godoc
// @Summary      Registrar pago de la factura
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/finance/invoices/{id}/pay [post]
func (h *InvoiceHandler) MarkPaid(c *fiber.Ctx) error {
	out, err := h.uc.MarkPaid(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Anular factura
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/finance/invoices/{id}/cancel [post]
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Versión imprimible de la factura
// @Tags         invoices
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200   {file}  binary
// @Router       /api/finance/invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	pdf, filename, err := h.print.InvoicePDF(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return sendPDF(c, pdf, filename)
}
