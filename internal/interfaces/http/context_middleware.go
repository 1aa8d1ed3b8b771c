package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestContext instala en UserContext un contexto con plazo para que las llamadas a la base
// se cancelen si la petición excede timeout. fasthttp no avisa desconexiones del cliente.
func RequestContext(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}
