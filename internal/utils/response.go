package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"koperasi-web/internal/models"
)

// SuccessResponse writes the standard success envelope.
func SuccessResponse(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// ErrorResponse writes the standard error envelope.
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	resp := fiber.Map{
		"success": false,
		"message": message,
	}
	if err != nil {
		resp["error"] = err.Error()
	}
	return c.Status(status).JSON(resp)
}

// DomainErrorResponse maps an engine error onto the right HTTP status so
// handlers don't repeat the taxonomy switch.
func DomainErrorResponse(c *fiber.Ctx, err error) error {
	var validationErr *models.ValidationError
	var stateErr *models.InvalidStateTransitionError
	var partialErr *models.PartialCommitError
	var notFoundErr *models.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		return ErrorResponse(c, fiber.StatusBadRequest, validationErr.Message, err)
	case errors.As(err, &stateErr):
		return ErrorResponse(c, fiber.StatusConflict, stateErr.Error(), err)
	case errors.As(err, &partialErr):
		return ErrorResponse(c, fiber.StatusInternalServerError, partialErr.Error(), err)
	case errors.As(err, &notFoundErr):
		return ErrorResponse(c, fiber.StatusNotFound, notFoundErr.Error(), err)
	default:
		return ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error", err)
	}
}
