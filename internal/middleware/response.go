package middleware

import (
	"inventory-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ResponseFormatter tells response.Fail whether storage error causes may be
// attached to error bodies. Disabled in production.
func ResponseFormatter(exposeDetails bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(response.LocalExposeDetails, exposeDetails)
		return c.Next()
	}
}
