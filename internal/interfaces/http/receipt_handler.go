package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/application/finance"
)

// ReceiptHandler maneja las peticiones HTTP de recibos (requiere permiso finance).
type ReceiptHandler struct {
	uc    *finance.ReceiptUseCase
	print *finance.PrintUseCase
}

// NewReceiptHandler construye el handler.
func NewReceiptHandler(uc *finance.ReceiptUseCase, print *finance.PrintUseCase) *ReceiptHandler {
	return &ReceiptHandler{uc: uc, print: print}
}

// Create godoc
// @Summary      Emitir recibo contra una factura pagada
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateReceiptRequest  true  "recibo"
// @Success      201   {object}  dto.ReceiptResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/finance/receipts [post]
func (h *ReceiptHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReceiptRequest
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
// @Summary      Listar recibos visibles (más recientes primero)
// @Tags         receipts
// @Produce      json
// @Security     BearerAuth
// @Success      200   {array}  dto.ReceiptResponse
// @Router       /api/finance/receipts [get]
func (h *ReceiptHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetScope(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener recibo
// @Tags         receipts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200   {object}  dto.ReceiptResponse
// @Router       /api/finance/receipts/{id} [get]
func (h *ReceiptHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar recibo (no impreso)
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                    true  "ID"
// @Param        body  body  dto.UpdateReceiptRequest  true  "campos a modificar"
// @Success      200   {object}  dto.ReceiptResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/finance/receipts/{id} [put]
func (h *ReceiptHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateReceiptRequest
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
// @Summary      Eliminar recibo (no impreso)
// @Tags         receipts
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      204
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/finance/receipts/{id} [delete]
func (h *ReceiptHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetScope(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Print godoc
// @Summary      Imprimir recibo
// @Description  Marca el recibo como impreso (una sola vez) y devuelve el PDF. Con ?format=json devuelve el recibo.
// @Tags         receipts
// @Produce      application/pdf
// @Produce      json
// @Security     BearerAuth
// @Param        id      path   string  true   "ID"
// @Param        format  query  string  false  "json"
// @Success      200   {object}  dto.PrintReceiptResponse
// @Router       /api/finance/receipts/{id}/print [post]
func (h *ReceiptHandler) Print(c *fiber.Ctx) error {
	scope := GetScope(c)
	pdf, filename, _, err := h.print.ReceiptPDF(c.UserContext(), scope, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if c.Query("format") != "json" {
		return sendPDF(c, pdf, filename)
	}
	out, err := h.uc.Get(c.UserContext(), scope, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PrintReceiptResponse{Receipt: *out, Filename: filename})
}
