package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ProcessTime measures request duration, exposes it via the X-Process-Time
// header (milliseconds), and logs every request.
func ProcessTime() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		// Capture request data BEFORE handler execution (Fiber reuses context objects)
		method := c.Method()
		path := c.Path()

		err := c.Next()

		ms := time.Since(start).Milliseconds()
		c.Set("X-Process-Time", strconv.FormatInt(ms, 10))

		slog.Info("request",
			"method", method,
			"path", path,
			"status", c.Response().StatusCode(),
			"ms", ms,
		)
		return err
	}
}
