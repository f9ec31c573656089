package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/manufacturing"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BOMHandler lista de materiales de un artículo.
type BOMHandler struct {
	uc *manufacturing.BOMUseCase
}

// NewBOMHandler construye el handler.
func NewBOMHandler(uc *manufacturing.BOMUseCase) *BOMHandler {
	return &BOMHandler{uc: uc}
}

// Get godoc
// @Summary      Lista de materiales de un artículo
// @Tags         bom
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del artículo padre"
// @Success      200  {object}  dto.BOMResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/bom [get]
func (h *BOMHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetBOM(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddLine godoc
// @Summary      Agregar componente a la lista de materiales
// @Tags         bom
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del artículo padre"
// @Param        body  body  dto.AddBOMLineRequest  true  "component_item_id, quantity_per_unit"
// @Success      201   {object}  dto.BOMLineResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/bom [post]
func (h *BOMHandler) AddLine(c *fiber.Ctx) error {
	var in dto.AddBOMLineRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddLine(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateLine godoc
// @Summary      Cambiar cantidad por unidad de una línea
// @Tags         bom
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        line_id  path  string                    true  "ID de la línea"
// @Param        body     body  dto.UpdateBOMLineRequest  true  "quantity_per_unit"
// @Success      200   {object}  dto.BOMLineResponse
// @Router       /api/bom/lines/{line_id} [put]
func (h *BOMHandler) UpdateLine(c *fiber.Ctx) error {
	var in dto.UpdateBOMLineRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateLine(c.UserContext(), GetCompanyID(c), c.Params("line_id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RemoveLine godoc
// @Summary      Quitar línea (soft delete)
// @Tags         bom
// @Security     Bearer
// @Param        line_id  path  string  true  "ID de la línea"
// @Success      204
// @Router       /api/bom/lines/{line_id} [delete]
func (h *BOMHandler) RemoveLine(c *fiber.Ctx) error {
	if err := h.uc.RemoveLine(c.UserContext(), GetCompanyID(c), c.Params("line_id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Export godoc
// @Summary      Exportar lista de materiales a xlsx
// @Tags         bom
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path  string  true  "ID del artículo padre"
// @Success      200  {file}  binary
// @Router       /api/items/{id}/bom/export [get]
func (h *BOMHandler) Export(c *fiber.Ctx) error {
	b, err := h.uc.Export(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Attachment("bom_" + c.Params("id") + ".xlsx")
	return c.Send(b)
}
