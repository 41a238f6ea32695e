package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clockquest/clockquest/clockquest/utils"
)

func HealthCheck(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if app.Health != nil {
			if err := app.Health(); err != nil {
				return utils.SendError(c, fiber.StatusServiceUnavailable, "UNHEALTHY", "database unreachable")
			}
		}
		return utils.SendSuccess(c, fiber.Map{
			"status":  "ok",
			"version": app.Version,
		})
	}
}
