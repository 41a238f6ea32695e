// Package handlers is the thin HTTP glue over the service layer.
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/clockquest/clockquest/clockquest/services"
	"github.com/clockquest/clockquest/clockquest/utils"
)

// App bundles the services the handlers dispatch to.
type App struct {
	Worlds      *services.WorldService
	Players     *services.PlayerService
	Progression *services.ProgressionService
	Leaderboard *services.LeaderboardService
	Health      func() error
	Version     string
}

// serviceError maps service sentinel errors onto HTTP responses.
// Anything unrecognized is a 500 with the detail kept server-side.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrWorldNotFound),
		errors.Is(err, services.ErrPlayerNotFound),
		errors.Is(err, services.ErrNoTrial):
		return utils.SendNotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		return utils.SendBadRequest(c, err.Error())
	default:
		return utils.SendInternalServerError(c, "something went wrong")
	}
}

func parseID(c *fiber.Ctx, name string) (int64, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id < 1 {
		return 0, fiber.NewError(fiber.StatusBadRequest, name+" must be a positive integer")
	}
	return int64(id), nil
}
