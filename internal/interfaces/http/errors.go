package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los errores reportan el nombre del tag json, no el del campo Go.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		return name
	})
	return v
}

// parseBody decodifica el cuerpo JSON y aplica los tags validate. Si falla ya respondió 400.
func parseBody(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(validationResponse(err))
	}
	return true, nil
}

// parseQuery filtros de listado desde el query string. Un valor mal formado (low_stock=quizá) es 400.
func parseQuery(c *fiber.Ctx, out any) (bool, error) {
	if err := c.QueryParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
	}
	return true, nil
}

// parsePage lee limit/offset del query string (limit 20 por defecto, máximo 100).
func parsePage(c *fiber.Ctx) dto.PageRequest {
	var p dto.PageRequest
	_ = c.QueryParser(&p)
	p.DefaultPage()
	if p.Limit > 100 {
		p.Limit = 100
	}
	return p
}

func validationResponse(err error) dto.ErrorResponse {
	out := dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			out.Details = append(out.Details, dto.ValidationDetail{Field: e.Field(), Message: validationMessage(e)})
		}
	}
	return out
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "campo obligatorio"
	case "email":
		return "email inválido"
	case "min":
		if e.Kind() == reflect.String {
			return "mínimo " + e.Param() + " caracteres"
		}
		return "debe ser al menos " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "máximo " + e.Param() + " caracteres"
		}
		return "debe ser como máximo " + e.Param()
	case "oneof":
		return "debe ser uno de: " + e.Param()
	case "gte":
		return "debe ser mayor o igual a " + e.Param()
	case "datetime":
		return "formato de fecha esperado " + e.Param()
	default:
		return "valor inválido"
	}
}

// respondError traduce errores de dominio a HTTP.
func respondError(c *fiber.Ctx, err error) error {
	status, code := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "error interno"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrImmutableDocument):
		return fiber.StatusConflict, "IMMUTABLE_DOCUMENT"
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, "EMAIL_EXISTS"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrInvalidReference):
		return fiber.StatusUnprocessableEntity, "INVALID_REFERENCE"
	case errors.Is(err, domain.ErrScopeViolation):
		return fiber.StatusForbidden, "SCOPE_VIOLATION"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrEmptyDocument):
		return fiber.StatusBadRequest, "EMPTY_DOCUMENT"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrLicenseExpired):
		return fiber.StatusPaymentRequired, "LICENSE_EXPIRED"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}
