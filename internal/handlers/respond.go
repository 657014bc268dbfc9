package handlers

import (
	"errors"

	"galeri/internal/repositories"
	"galeri/internal/scraper"
	"galeri/internal/services"
	"galeri/pkg/media"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// respondError maps a service error to its HTTP status and logs the ones
// the caller cannot fix.
func respondError(c *fiber.Ctx, log *zap.Logger, message string, err error) error {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  verr.Fields,
		})
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, scraper.ErrInvalidURL),
		errors.Is(err, media.ErrInvalidURL):
		status = fiber.StatusBadRequest
	case errors.Is(err, repositories.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		status = fiber.StatusUnauthorized
	case errors.Is(err, services.ErrConflict),
		errors.Is(err, repositories.ErrDuplicate):
		status = fiber.StatusConflict
	case errors.Is(err, scraper.ErrFetch):
		status = fiber.StatusBadGateway
	case errors.Is(err, media.ErrDisabled):
		status = fiber.StatusServiceUnavailable
	}

	if status >= fiber.StatusInternalServerError {
		log.Error(message, zap.String("path", c.Path()), zap.Error(err))
	} else {
		log.Debug(message, zap.String("path", c.Path()), zap.Int("status", status), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// badBody answers a request whose body could not be decoded.
func badBody(c *fiber.Ctx, log *zap.Logger, err error) error {
	log.Debug("Error parsing request body", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// param copies a route parameter out of the request buffer, which fiber
// reuses once the handler returns. Anything handed to a store goes
// through here.
func param(c *fiber.Ctx, name string) string {
	return utils.CopyString(c.Params(name))
}
