package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/application/inventory"
)

// InventoryHandler ítems de inventario y movimientos de stock.
type InventoryHandler struct {
	items     *inventory.ItemUseCase
	movements *inventory.RegisterMovementUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(items *inventory.ItemUseCase, movements *inventory.RegisterMovementUseCase) *InventoryHandler {
	return &InventoryHandler{items: items, movements: movements}
}

// Create godoc
// @Summary      Crear ítem de inventario (la existencia inicial queda como entrada)
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateInventoryItemRequest  true  "ítem"
// @Success      201   {object}  dto.InventoryItemResponse
// @Router       /api/inventory [post]
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInventoryItemRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.items.Create(c.UserContext(), GetScope(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar inventario visible con resumen de bajo stock y valor
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        category   query  string  false  "categoría"
// @Param        q          query  string  false  "búsqueda por nombre"
// @Param        low_stock  query  bool    false  "solo en o bajo el mínimo"
// @Param        limit      query  int     false  "límite"
// @Param        offset     query  int     false  "desplazamiento"
// @Success      200   {object}  dto.InventoryListResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	var f dto.InventoryFilter
	if ok, err := parseQuery(c, &f); !ok {
		return err
	}
	out, err := h.items.List(c.UserContext(), GetScope(c), f, parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener ítem de inventario
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200   {object}  dto.InventoryItemResponse
// @Router       /api/inventory/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.items.GetByID(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar datos del ítem (la cantidad solo cambia con /adjust)
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                          true  "ID"
// @Param        body  body  dto.UpdateInventoryItemRequest  true  "campos a modificar"
// @Success      200   {object}  dto.InventoryItemResponse
// @Router       /api/inventory/{id} [put]
func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInventoryItemRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.items.Update(c.UserContext(), GetScope(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar ítem y su historial
// @Tags         inventory
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      204
// @Router       /api/inventory/{id} [delete]
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.items.Delete(c.UserContext(), GetScope(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Adjust godoc
// @Summary      Registrar movimiento de stock (IN, OUT, ADJUSTMENT)
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                  true  "ID"
// @Param        body  body  dto.AdjustStockRequest  true  "movimiento"
// @Success      200   {object}  dto.AdjustStockResponse
// @Failure      409   {object}  dto.ErrorResponse  "stock insuficiente"
// @Router       /api/inventory/{id}/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.movements.RegisterMovement(c.UserContext(), GetScope(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Historial de movimientos del ítem (más reciente primero)
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        id      path   string  true   "ID"
// @Param        limit   query  int     false  "límite"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200   {object}  dto.StockMovementListResponse
// @Router       /api/inventory/{id}/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	out, err := h.movements.ListMovements(c.UserContext(), GetScope(c), c.Params("id"), parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
