package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/elaia-api/pkg/logger"
	"github.com/jhoicas/elaia-api/pkg/metrics"
)

// LocalLogger clave en c.Locals para el logger de la petición.
const LocalLogger = "logger"

// RequestLogger registra cada petición con su request id y alimenta las métricas HTTP.
// Debe ir después de requestid.New().
func RequestLogger(l *logger.Logger, m *metrics.HTTPMetrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqLog := l.Zerolog().With().
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Logger()
		c.Locals(LocalLogger, &reqLog)

		err := c.Next()
		if err != nil {
			// El ErrorHandler de la app escribe la respuesta; aquí solo se registra.
			if hErr := c.App().ErrorHandler(c, err); hErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		elapsed := time.Since(start)
		m.ObserveRequest(c.Method(), c.Route().Path, status, elapsed)

		ev := reqLog.Info()
		if status >= fiber.StatusInternalServerError {
			ev = reqLog.Error()
		}
		ev.Int("status", status).Dur("duration", elapsed).Msg("request.complete")
		return nil
	}
}

// requestLogger logger de la petición o el global si el middleware no corrió.
func requestLogger(c *fiber.Ctx) *zerolog.Logger {
	if l, ok := c.Locals(LocalLogger).(*zerolog.Logger); ok {
		return l
	}
	return &log.Logger
}
