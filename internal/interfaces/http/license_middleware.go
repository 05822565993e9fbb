package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/FarmHub-api/internal/application/dto"
)

// licenseChecker lo implementa *license.UseCase.
type licenseChecker interface {
	HasValidLicense(ctx context.Context) (bool, error)
}

// RequireLicense bloquea la API protegida si la instalación no tiene licencia vigente.
//
// Comportamiento:
//   - 402 Payment Required → sin licencia, inactiva o vencida.
//   - 503 Service Unavailable → fallo de infraestructura al consultar la licencia.
func RequireLicense(checker licenseChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ok, err := checker.HasValidLicense(c.UserContext())
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "LICENSE_CHECK_FAILED",
				Message: "no se pudo verificar la licencia, intente más tarde",
			})
		}
		if !ok {
			return c.Status(fiber.StatusPaymentRequired).JSON(dto.ErrorResponse{
				Code:    "LICENSE_EXPIRED",
				Message: "la licencia no está vigente; adquiera o renueve un plan",
			})
		}
		return c.Next()
	}
}
