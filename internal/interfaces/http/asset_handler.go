package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/application/usecase"
)

// AssetHandler activos fijos.
type AssetHandler struct {
	uc *usecase.AssetUseCase
}

func NewAssetHandler(uc *usecase.AssetUseCase) *AssetHandler {
	return &AssetHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar activo
// @Tags         assets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateAssetRequest  true  "activo"
// @Success      201   {object}  dto.AssetResponse
// @Router       /api/assets [post]
func (h *AssetHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAssetRequest
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
// @Summary      Listar activos visibles con resumen por estado
// @Tags         assets
// @Produce      json
// @Security     BearerAuth
// @Param        type    query  string  false  "tipo"
// @Param        status  query  string  false  "estado"
// @Param        q       query  string  false  "búsqueda por nombre"
// @Success      200   {object}  dto.AssetListResponse
// @Router       /api/assets [get]
func (h *AssetHandler) List(c *fiber.Ctx) error {
	var f dto.AssetFilter
	if ok, err := parseQuery(c, &f); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetScope(c), f, parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *AssetHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar activo (un activo retirado no cambia de estado)
// @Tags         assets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                  true  "ID"
// @Param        body  body  dto.UpdateAssetRequest  true  "campos a modificar"
// @Success      200   {object}  dto.AssetResponse
// @Router       /api/assets/{id} [put]
func (h *AssetHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateAssetRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetScope(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Maintenance godoc
// @Summary      Registrar mantenimiento
// @Tags         assets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                       true  "ID"
// @Param        body  body  dto.AssetMaintenanceRequest  true  "fecha (vacía = hoy)"
// @Success      200   {object}  dto.AssetResponse
// @Router       /api/assets/{id}/maintenance [post]
func (h *AssetHandler) Maintenance(c *fiber.Ctx) error {
	var in dto.AssetMaintenanceRequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
	}
	out, err := h.uc.RecordMaintenance(c.UserContext(), GetScope(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *AssetHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetScope(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
