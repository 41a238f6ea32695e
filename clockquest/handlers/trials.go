package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/clockquest/clockquest/clockquest/services"
	"github.com/clockquest/clockquest/clockquest/utils"
)

func GetTrialConfig(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tier, err := strconv.Atoi(c.Params("tier"))
		if err != nil {
			return utils.SendBadRequest(c, "tier must be an integer")
		}

		config, err := app.Progression.TrialConfig(tier)
		if err != nil {
			return serviceError(c, err)
		}
		return utils.SendSuccess(c, config)
	}
}

func SubmitTrial(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req services.TrialSubmission
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "invalid request body")
		}

		result, err := app.Progression.SubmitTrial(c.Context(), req)
		if err != nil {
			return serviceError(c, err)
		}
		return utils.SendSuccess(c, result)
	}
}
