package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clockquest/clockquest/clockquest/services"
	"github.com/clockquest/clockquest/clockquest/utils"
)

func RecordQuestRun(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req services.QuestRunSubmission
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "invalid request body")
		}

		run, err := app.Progression.RecordQuestRun(c.Context(), req)
		if err != nil {
			return serviceError(c, err)
		}
		return utils.SendSuccess(c, run)
	}
}
