package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
)

// InventoryHandler maneja movimientos, existencias y el libro de movimientos (protegido).
type InventoryHandler struct {
	uc    *inventory.RegisterMovementUseCase
	query *inventory.StockQueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase, query *inventory.StockQueryUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, query: query}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "item_id, warehouse_id (o from/to para TRANSFER), type, quantity, unit_cost (entradas)"
// @Success      201   {object}  dto.RegisterMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.RegisterMovementFromRequest(c.UserContext(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetItemStock godoc
// @Summary      Existencias de un artículo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id  path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ItemStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{item_id} [get]
func (h *InventoryHandler) GetItemStock(c *fiber.Ctx) error {
	out, err := h.query.GetItemStock(c.UserContext(), GetCompanyID(c), c.Params("item_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListItemMovements godoc
// @Summary      Libro de movimientos de un artículo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id  path   string  true   "ID del artículo"
// @Param        from     query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to       query  string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Param        limit    query  int     false  "Límite"  default(20)
// @Param        offset   query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/inventory/items/{item_id}/movements [get]
func (h *InventoryHandler) ListItemMovements(c *fiber.Ctx) error {
	from, err := parseDate(c.Query("from"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_QUERY", "from inválido")
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "INVALID_QUERY", "to inválido")
	}
	page, ok, err := parsePage(c)
	if !ok {
		return err
	}
	out, err := h.query.ListItemMovements(c.UserContext(), GetCompanyID(c), c.Params("item_id"), from, to, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListReferenceMovements godoc
// @Summary      Movimientos generados por un documento
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        type  path  string  true  "manual | manufacturing"
// @Param        id    path  string  true  "ID del documento"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/references/{type}/{id}/movements [get]
func (h *InventoryHandler) ListReferenceMovements(c *fiber.Ctx) error {
	out, err := h.query.ListReferenceMovements(c.UserContext(), GetCompanyID(c), c.Params("type"), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
