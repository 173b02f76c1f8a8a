package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RoleMiddleware creates role-based access control middleware
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := c.Locals("role")
		if role == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Unauthorized, role information missing",
			})
		}

		userRole := role.(string)
		allowed := false

		for _, r := range allowedRoles {
			if r == userRole {
				allowed = true
				break
			}
		}

		if !allowed {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Forbidden, insufficient permissions",
			})
		}

		return c.Next()
	}
}

// AdminOnly middleware for admin-only routes
func AdminOnly() fiber.Handler {
	return RoleMiddleware("admin")
}

// AnalystOrAdmin middleware for routes accessible by analysts and admins
func AnalystOrAdmin() fiber.Handler {
	return RoleMiddleware("analyst", "admin")
}
