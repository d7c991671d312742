package middleware

import (
	"lingo/learning"

	"github.com/gofiber/fiber/v2"
)

// RequestScope gives every request its own memo for learning reads.
func RequestScope(c *fiber.Ctx) error {
	c.SetUserContext(learning.WithRequestCache(c.UserContext()))
	return c.Next()
}
