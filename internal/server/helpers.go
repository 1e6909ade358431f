package server

import (
	"errors"
	"strings"

	"bizsite/internal/middleware"
	"bizsite/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+strings.ToUpper(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseBody decodes the JSON body into dst, writing a 400 on failure.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// parseQuery decodes query parameters into dst, writing a 400 on failure.
func parseQuery(c *fiber.Ctx, dst any) error {
	if err := c.QueryParser(dst); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid query parameters"))
		return errResponseWritten
	}
	return nil
}

// fail writes err with the status its code maps to.
func fail(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request error",
			"error", err, "method", c.Method(), "path", c.Path())
	}
	return models.RespondWithError(c, status, err)
}

// ok writes {success:true, <key>: v}.
func ok(c *fiber.Ctx, status int, key string, v any) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		key:       v,
	})
}

// okPage writes a list page as {success:true, <key>: items, pagination}.
func okPage[T any](c *fiber.Ctx, key string, p models.Page[T]) error {
	return c.JSON(fiber.Map{
		"success": true,
		key:       p.Items,
		"pagination": fiber.Map{
			"page":       p.Page,
			"limit":      p.Limit,
			"total":      p.Total,
			"totalPages": p.TotalPages,
		},
	})
}

// okMessage writes {success:true, message}.
func okMessage(c *fiber.Ctx, message string) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

// actorID returns the session user id. Admin and authenticated routes always
// run behind RequireAuth.
func actorID(c *fiber.Ctx) uint {
	id, _ := middleware.UserID(c)
	return id
}
