package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/elaia-api/internal/application/dto"
	"github.com/jhoicas/elaia-api/internal/domain/entity"
)

// LocalIdentity clave en c.Locals para la identidad autenticada.
const LocalIdentity = "identity"

// tokenVerifier lo implementa *auth.AuthUseCase.
type tokenVerifier interface {
	Verify(token string) (entity.Identity, error)
}

// AuthMiddleware valida el Bearer Token JWT y guarda la identidad en c.Locals.
// Sin header responde 403; token mal formado, inválido o expirado responde 401.
func AuthMiddleware(verifier tokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token vacío"})
		}
		identity, err := verifier.Verify(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalIdentity, identity)
		return c.Next()
	}
}

// GetIdentity devuelve la identidad del contexto (después del middleware de auth).
func GetIdentity(c *fiber.Ctx) (entity.Identity, bool) {
	identity, ok := c.Locals(LocalIdentity).(entity.Identity)
	return identity, ok
}
