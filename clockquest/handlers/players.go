package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clockquest/clockquest/clockquest/utils"
)

type createPlayerRequest struct {
	Nickname string `json:"nickname"`
	WorldID  int64  `json:"world_id"`
}

func CreatePlayer(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createPlayerRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "invalid request body")
		}

		player, err := app.Players.Create(c.Context(), req.Nickname, req.WorldID)
		if err != nil {
			return serviceError(c, err)
		}
		return utils.SendCreated(c, player)
	}
}

func GetPlayer(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}

		player, err := app.Players.Get(c.Context(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return utils.SendSuccess(c, player)
	}
}

func ListWorldPlayers(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		worldID, err := parseID(c, "worldID")
		if err != nil {
			return err
		}

		players, err := app.Players.ListByWorld(c.Context(), worldID)
		if err != nil {
			return serviceError(c, err)
		}
		return utils.SendSuccess(c, players)
	}
}

func SearchWorldPlayers(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		worldID, err := parseID(c, "worldID")
		if err != nil {
			return err
		}

		players, err := app.Players.Search(c.Context(), worldID, c.Query("q"))
		if err != nil {
			return serviceError(c, err)
		}
		return utils.SendSuccess(c, players)
	}
}

func GetBriefing(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}

		briefing, err := app.Progression.GetBriefing(c.Context(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return utils.SendSuccess(c, briefing)
	}
}

type tipSeenRequest struct {
	TierIndex int    `json:"tier_index"`
	TipID     string `json:"tip_id"`
}

func MarkTipSeen(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}

		var req tipSeenRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "invalid request body")
		}

		if err := app.Progression.MarkTipSeen(c.Context(), id, req.TierIndex, req.TipID); err != nil {
			return serviceError(c, err)
		}
		return utils.SendSuccess(c, fiber.Map{"ok": true})
	}
}

func DeletePlayer(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}

		if err := app.Players.Delete(c.Context(), id); err != nil {
			return serviceError(c, err)
		}
		return utils.SendSuccess(c, fiber.Map{"ok": true})
	}
}
