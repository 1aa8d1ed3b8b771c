package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/elaia-api/internal/application/dto"
	"github.com/jhoicas/elaia-api/internal/domain/entity"
)

// RequireCapability devuelve un middleware que exige el permiso indicado.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalIdentity).
//
// Comportamiento:
//   - 401 Unauthorized → no hay identidad en el contexto.
//   - 403 Forbidden    → el rol del token no tiene el permiso.
func RequireCapability(capability entity.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := GetIdentity(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "identidad no encontrada en el token",
			})
		}
		if !identity.Can(capability) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "acceso solo para administradores",
			})
		}
		return c.Next()
	}
}
