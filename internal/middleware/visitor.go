package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

const (
	// VisitorHeader lets API clients pick their own visitor id.
	VisitorHeader = "X-Visitor-ID"
	// VisitorCookie remembers the visitor id for browsers.
	VisitorCookie = "visitor_id"
	// VisitorLocal is the Locals key holding the resolved id.
	VisitorLocal = "visitor_id"

	maxVisitorIDLen  = 64
	visitorCookieTTL = 365 * 24 * time.Hour
)

// Visitor resolves an anonymous visitor id for favorites and compare lists.
// A new id is issued as a cookie when the request carries none.
func Visitor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(VisitorHeader)
		if id == "" {
			id = c.Cookies(VisitorCookie)
		}
		if len(id) > maxVisitorIDLen {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Visitor id is too long",
			})
		}
		if id == "" {
			id = uuid.New().String()
			c.Cookie(&fiber.Cookie{
				Name:     VisitorCookie,
				Value:    id,
				Path:     "/",
				Expires:  time.Now().Add(visitorCookieTTL),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		// The header and cookie values alias the request buffer.
		c.Locals(VisitorLocal, utils.CopyString(id))
		return c.Next()
	}
}

// VisitorID returns the id stored by Visitor.
func VisitorID(c *fiber.Ctx) string {
	id, _ := c.Locals(VisitorLocal).(string)
	return id
}
