package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/clockquest/clockquest/clockquest/utils"
)

type createWorldRequest struct {
	Name string `json:"name"`
	Pin  string `json:"pin"`
}

func CreateWorld(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createWorldRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "invalid request body")
		}

		world, err := app.Worlds.Create(c.Context(), req.Name, req.Pin)
		if err != nil {
			return serviceError(c, err)
		}
		return utils.SendCreated(c, world)
	}
}

func GetWorld(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}

		world, err := app.Worlds.Get(c.Context(), id)
		if err != nil {
			return serviceError(c, err)
		}
		return utils.SendSuccess(c, world)
	}
}

func JoinWorld(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		world, err := app.Worlds.JoinByCode(c.Context(), c.Params("code"))
		if err != nil {
			return serviceError(c, err)
		}
		return utils.SendSuccess(c, world)
	}
}

func DeleteWorld(app *App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}

		if err := app.Worlds.Delete(c.Context(), id); err != nil {
			return serviceError(c, err)
		}

		slog.Info("World deleted", slog.Int64("world_id", id))
		return utils.SendSuccess(c, fiber.Map{"ok": true})
	}
}
