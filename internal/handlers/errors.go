package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/hiring-pipeline/internal/repositories"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

// respondError writes the JSON error body for a service error.
func respondError(c *fiber.Ctx, err error) error {
	var (
		ve  *services.ValidationError
		pe  *services.PreconditionError
		ite *services.InvalidTransitionError
		nf  *repositories.RecordNotFoundError
		fe  *fiber.Error
	)

	switch {
	case errors.As(err, &ve):
		body := fiber.Map{"error": ve.Error(), "kind": "validation"}
		if ve.Field != "" {
			body["field"] = ve.Field
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.As(err, &pe):
		return c.Status(fiber.StatusPreconditionFailed).JSON(fiber.Map{
			"error":     pe.Error(),
			"kind":      "precondition",
			"condition": pe.Condition,
		})
	case errors.As(err, &ite):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": ite.Error(),
			"kind":  "invalid_transition",
			"from":  ite.From,
			"to":    ite.To,
		})
	case errors.Is(err, repositories.ErrConcurrentUpdate):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
			"kind":  "concurrent_update",
		})
	case errors.As(err, &nf):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": nf.Error(),
			"kind":  "not_found",
		})
	case errors.As(err, &fe):
		return c.Status(fe.Code).JSON(fiber.Map{
			"error": fe.Message,
		})
	}

	slog.Error("request failed",
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
		slog.Any("error", err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}

// ErrorHandler is the fiber error handler for errors returned by handlers
// and middleware.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return respondError(c, err)
}

func badRequest(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid request payload",
	})
}

var idLabels = map[string]string{
	"id":          "ID",
	"memberID":    "member ID",
	"referenceID": "reference ID",
}

// idParam reads a path parameter that must hold a UUID.
func idParam(c *fiber.Ctx, name string) (string, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "Invalid "+idLabels[name]+" format")
	}
	return id.String(), nil
}
