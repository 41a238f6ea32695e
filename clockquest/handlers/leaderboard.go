package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/clockquest/clockquest/clockquest/utils"
)

func GetLeaderboard(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope := c.Query("scope", "global")

		var worldID *int64
		if raw := c.Query("world_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return utils.SendBadRequest(c, "world_id must be an integer")
			}
			worldID = &id
		}

		board, err := app.Leaderboard.Get(c.Context(), scope, worldID)
		if err != nil {
			return serviceError(c, err)
		}
		return utils.SendSuccess(c, board)
	}
}
