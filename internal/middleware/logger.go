package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Logger logs one structured line per request after the handler runs,
// so the final status code is captured.
func Logger(logger *slog.Logger) fiber.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		logger.Info("request",
			"request_id", rid,
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"latency_ms", float64(time.Since(start).Microseconds())/1000.0,
		)
		return err
	}
}
