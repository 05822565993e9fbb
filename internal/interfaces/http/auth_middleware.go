package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/FarmHub-api/internal/application/auth"
	"github.com/jhoicas/FarmHub-api/internal/application/dto"
	"github.com/jhoicas/FarmHub-api/internal/domain/access"
	"github.com/jhoicas/FarmHub-api/pkg/jwt"
)

// LocalScope key del alcance de la sesión en c.Locals.
const LocalScope = "scope"

// AuthMiddleware valida el Bearer Token JWT y reconstruye el alcance de la sesión en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if claims.Role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		scope := auth.ScopeFromClaims(claims)
		c.Locals(LocalScope, &scope)
		return c.Next()
	}
}

// GetScope devuelve el alcance de la sesión (nil sin AuthMiddleware).
func GetScope(c *fiber.Ctx) *access.Scope {
	s, _ := c.Locals(LocalScope).(*access.Scope)
	return s
}

// RequirePermission permite el paso si el rol de la sesión otorga la capacidad.
func RequirePermission(p access.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !access.HasPermission(GetScope(c), p) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "permiso requerido: " + string(p)})
		}
		return c.Next()
	}
}
