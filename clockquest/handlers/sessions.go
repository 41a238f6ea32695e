package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clockquest/clockquest/clockquest/services"
	"github.com/clockquest/clockquest/clockquest/utils"
)

var validModes = map[string]bool{
	"read": true, "set": true, "speedrun": true, "quest": true,
}

var validDifficulties = map[string]bool{
	"hour": true, "half": true, "quarter": true,
	"five_min": true, "one_min": true, "interval": true,
}

func SubmitSession(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req services.SessionSubmission
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "invalid request body")
		}

		if !validModes[req.Mode] {
			return utils.SendBadRequest(c, "mode must be one of read, set, speedrun, quest")
		}
		if !validDifficulties[req.Difficulty] {
			return utils.SendBadRequest(c, "unknown difficulty")
		}

		result, err := app.Progression.SubmitSession(c.Context(), req)
		if err != nil {
			return serviceError(c, err)
		}
		return utils.SendSuccess(c, result)
	}
}
