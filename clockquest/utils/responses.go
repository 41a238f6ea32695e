package utils

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// SendJSON sends a JSON response using Fiber
func SendJSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(data)
}

// SendSuccess sends a successful JSON response
func SendSuccess(c *fiber.Ctx, data interface{}) error {
	return SendJSON(c, http.StatusOK, data)
}

// SendCreated sends a created resource JSON response
func SendCreated(c *fiber.Ctx, data interface{}) error {
	return SendJSON(c, http.StatusCreated, data)
}

// SendError sends an error JSON response
func SendError(c *fiber.Ctx, statusCode int, code, message string) error {
	return SendJSON(c, statusCode, fiber.Map{
		"success": false,
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// SendBadRequest sends a bad request error response
func SendBadRequest(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// SendNotFound sends a not found error response
func SendNotFound(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusNotFound, "NOT_FOUND", message)
}

// SendInternalServerError sends an internal server error response
func SendInternalServerError(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message)
}
