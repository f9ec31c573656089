package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/manufacturing"
)

// ManufacturingHandler órdenes de fabricación: CRUD de borradores, vista previa, cálculo y hoja de costos.
type ManufacturingHandler struct {
	records   *manufacturing.RecordUseCase
	calculate *manufacturing.CalculateUseCase
	costSheet *manufacturing.CostSheetUseCase
}

// NewManufacturingHandler construye el handler.
func NewManufacturingHandler(
	records *manufacturing.RecordUseCase,
	calculate *manufacturing.CalculateUseCase,
	costSheet *manufacturing.CostSheetUseCase,
) *ManufacturingHandler {
	return &ManufacturingHandler{records: records, calculate: calculate, costSheet: costSheet}
}

// Create godoc
// @Summary      Crear orden de fabricación (borrador)
// @Tags         manufacturing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateManufacturingRecordRequest  true  "Orden"
// @Success      201   {object}  dto.ManufacturingRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/manufacturing/records [post]
func (h *ManufacturingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateManufacturingRecordRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.records.Create(c.UserContext(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden con su desglose
// @Tags         manufacturing
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.ManufacturingRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/manufacturing/records/{id} [get]
func (h *ManufacturingHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.records.GetByID(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar órdenes
// @Tags         manufacturing
// @Security     Bearer
// @Produce      json
// @Param        status   query  string  false  "draft | completed"
// @Param        item_id  query  string  false  "Producto terminado"
// @Param        limit    query  int     false  "Límite"  default(20)
// @Param        offset   query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ManufacturingRecordListResponse
// @Router       /api/manufacturing/records [get]
func (h *ManufacturingHandler) List(c *fiber.Ctx) error {
	page, ok, err := parsePage(c)
	if !ok {
		return err
	}
	out, err := h.records.List(c.UserContext(), GetCompanyID(c), c.Query("status"), c.Query("item_id"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Modificar borrador
// @Tags         manufacturing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                                true  "ID de la orden"
// @Param        body  body  dto.UpdateManufacturingRecordRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.ManufacturingRecordResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/manufacturing/records/{id} [put]
func (h *ManufacturingHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateManufacturingRecordRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.records.Update(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar borrador (soft delete)
// @Tags         manufacturing
// @Security     Bearer
// @Param        id   path  string  true  "ID de la orden"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/manufacturing/records/{id} [delete]
func (h *ManufacturingHandler) Delete(c *fiber.Ctx) error {
	if err := h.records.Delete(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Preview godoc
// @Summary      Vista previa de requerimientos
// @Description  Calcula consumos y disponibilidad sin bloquear ni mover inventario.
// @Tags         manufacturing
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true   "ID de la orden"
// @Param        quantity  query  string  false  "Cantidad a producir (por defecto la planeada)"
// @Success      200  {object}  dto.RequirementPreviewResponse
// @Router       /api/manufacturing/records/{id}/preview [get]
func (h *ManufacturingHandler) Preview(c *fiber.Ctx) error {
	qty := decimal.Zero
	if s := c.Query("quantity"); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "INVALID_QUERY", "quantity inválida")
		}
		qty = d
	}
	out, err := h.records.Preview(c.UserContext(), GetCompanyID(c), c.Params("id"), qty)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Calculate godoc
// @Summary      Calcular fabricación
// @Description  Descuenta materias primas, ingresa el producto terminado, costea y completa la orden en una transacción.
// @Tags         manufacturing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID de la orden"
// @Param        body  body  dto.CalculateRequest  true  "produced_quantity"
// @Success      200   {object}  dto.ManufacturingRecordResponse
// @Failure      400   {object}  dto.ShortageReportResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/manufacturing/records/{id}/calculate [post]
func (h *ManufacturingHandler) Calculate(c *fiber.Ctx) error {
	var in dto.CalculateRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.calculate.Calculate(c.UserContext(), GetCompanyID(c), GetUserID(c), c.Params("id"), in.ProducedQuantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CostSheet godoc
// @Summary      Hoja de costos en PDF
// @Tags         manufacturing
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {file}  binary
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/manufacturing/records/{id}/cost-sheet [get]
func (h *ManufacturingHandler) CostSheet(c *fiber.Ctx) error {
	b, err := h.costSheet.GetCostSheetPDF(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment("hoja_costos_" + c.Params("id") + ".pdf")
	return c.Send(b)
}
