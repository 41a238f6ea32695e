package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clockquest/clockquest/clockquest/progression"
	"github.com/clockquest/clockquest/clockquest/utils"
)

// ListTiers serves the tier catalog so the client never hardcodes it.
func ListTiers(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, progression.TierList())
	}
}
