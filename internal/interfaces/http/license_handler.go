package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/application/license"
)

// LicenseHandler estado, compra y renovación de la licencia.
type LicenseHandler struct {
	uc *license.UseCase
}

// NewLicenseHandler construye el handler.
func NewLicenseHandler(uc *license.UseCase) *LicenseHandler {
	return &LicenseHandler{uc: uc}
}

// Status godoc
// @Summary      Estado de la licencia
// @Tags         license
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  dto.LicenseStatusResponse
// @Router       /api/license [get]
func (h *LicenseHandler) Status(c *fiber.Ctx) error {
	out, err := h.uc.Status(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Purchase godoc
// @Summary      Adquirir un plan
// @Tags         license
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.PurchaseLicenseRequest  true  "plan_type, duration_days"
// @Success      200   {object}  dto.LicenseStatusResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/license/purchase [post]
func (h *LicenseHandler) Purchase(c *fiber.Ctx) error {
	var in dto.PurchaseLicenseRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Purchase(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Renew godoc
// @Summary      Renovar la licencia
// @Tags         license
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.RenewLicenseRequest  true  "duration_days"
// @Success      200   {object}  dto.LicenseStatusResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/license/renew [post]
func (h *LicenseHandler) Renew(c *fiber.Ctx) error {
	var in dto.RenewLicenseRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Renew(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
