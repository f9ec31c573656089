package http

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// writeError traduce errores de dominio a la respuesta HTTP. Lo que no es de dominio es 500.
func writeError(c *fiber.Ctx, err error) error {
	var shortage *domain.ShortageError
	if errors.As(err, &shortage) {
		return c.Status(fiber.StatusBadRequest).JSON(shortageReport(shortage))
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp := dto.ErrorResponse{Code: "VALIDATION", Message: verr.Error()}
		if verr.Field != "" {
			resp.Fields = map[string]string{verr.Field: verr.Message}
		}
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "datos inválidos")
	case errors.Is(err, domain.ErrInsufficientStock):
		return fail(c, fiber.StatusBadRequest, "INSUFFICIENT_STOCK", "stock insuficiente")
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado")
	case errors.Is(err, domain.ErrUnauthorized):
		return fail(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas")
	case errors.Is(err, domain.ErrForbidden):
		return fail(c, fiber.StatusForbidden, "FORBIDDEN", "acceso denegado")
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fail(c, fiber.StatusConflict, "EMAIL_EXISTS", "el email ya está registrado")
	case errors.Is(err, domain.ErrDuplicate):
		return fail(c, fiber.StatusConflict, "DUPLICATE", "el recurso ya existe")
	case errors.Is(err, domain.ErrAlreadyCompleted):
		return fail(c, fiber.StatusConflict, "ALREADY_COMPLETED", domain.ErrAlreadyCompleted.Error())
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return fail(c, fiber.StatusConflict, "CONCURRENCY_CONFLICT", domain.ErrConcurrencyConflict.Error())
	case errors.Is(err, domain.ErrConflict):
		return fail(c, fiber.StatusConflict, "CONFLICT", domain.ErrConflict.Error())
	}
	// el detalle queda en el log de la petición, no en la respuesta
	c.Locals(localError, err)
	return fail(c, fiber.StatusInternalServerError, "INTERNAL", "error interno")
}

func fail(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func shortageReport(e *domain.ShortageError) dto.ShortageReportResponse {
	out := dto.ShortageReportResponse{
		Code:      "INSUFFICIENT_STOCK",
		Message:   domain.ErrInsufficientStock.Error(),
		Shortages: make([]dto.ShortageDTO, 0, len(e.Shortages)),
	}
	for _, s := range e.Shortages {
		out.Shortages = append(out.Shortages, dto.ShortageDTO{
			ComponentID:   s.ComponentID,
			ComponentSKU:  s.ComponentSKU,
			ComponentName: s.ComponentName,
			Unit:          s.Unit,
			Required:      s.Required,
			Available:     s.Available,
			Shortage:      s.Missing,
		})
	}
	return out
}

// bindJSON parsea el cuerpo y lo valida con las etiquetas `validate`. Si falla ya respondió: devolver el error tal cual.
func bindJSON(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	}
	return checkStruct(c, out)
}

func checkStruct(c *fiber.Ctx, v any) (bool, error) {
	if err := validate.Struct(v); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return false, fail(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
		}
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			fields[jsonName(fe.Field())] = fe.Tag()
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "datos inválidos", Fields: fields,
		})
	}
	return true, nil
}

// parsePage lee limit/offset del query string.
func parsePage(c *fiber.Ctx) (dto.PageRequest, bool, error) {
	var p dto.PageRequest
	if err := c.QueryParser(&p); err != nil {
		return p, false, fail(c, fiber.StatusBadRequest, "INVALID_QUERY", "limit/offset inválidos")
	}
	ok, err := checkStruct(c, &p)
	if !ok {
		return p, false, err
	}
	p.DefaultPage()
	return p, true, nil
}

// parseDate acepta RFC3339 o YYYY-MM-DD; vacío = nil.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// jsonName convierte CamelCase (ItemID) a snake_case (item_id) para el mapa de campos.
func jsonName(field string) string {
	var b strings.Builder
	runes := []rune(field)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
