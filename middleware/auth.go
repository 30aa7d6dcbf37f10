package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware extracts the already-authenticated identity set by
// the Gateway. The engine never authenticates users itself; it only receives
// an account id and a role list.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID := c.Get("X-User-ID")
		rolesStr := c.Get("X-User-Roles")

		if accountID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}

		var roles []string
		for _, r := range strings.Split(rolesStr, ",") {
			if r = strings.TrimSpace(r); r != "" {
				roles = append(roles, r)
			}
		}

		c.Locals("account_id", accountID)
		c.Locals("user_roles", roles)

		return c.Next()
	}
}

// AdminRequired gates admin-only routes on the role list forwarded by the
// Gateway.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles, _ := c.Locals("user_roles").([]string)
		for _, r := range roles {
			if r == "admin" {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "admin role required",
		})
	}
}
