package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
)

// Every endpoint answers with the same envelope:
// {success, data?, message, errors?}. The HTTP status carries the error
// kind redundantly with success=false.

// ErrorHandler is the app-level fiber error handler. Errors returned by
// middleware (fiber.NewError and friends) keep their status and message;
// anything else is logged and collapsed to a generic 500 so internals
// never leak to clients.
func ErrorHandler(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fail(c, fe.Code, fe.Message)
	}
	slog.Error("unhandled request error",
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)
	return internalError(c)
}

func ok(c fiber.Ctx, data any, message string) error {
	return c.JSON(fiber.Map{"success": true, "data": data, "message": message})
}

func created(c fiber.Ctx, data any, message string) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": data, "message": message})
}

func fail(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message, "errors": []string{}})
}

func badRequest(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusBadRequest, msg)
}

func unauthorized(c fiber.Ctx, msg string) error {
	if msg == "" {
		msg = "unauthorized"
	}
	return fail(c, fiber.StatusUnauthorized, msg)
}

func notFound(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusNotFound, msg)
}

func conflict(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusConflict, msg)
}

func internalError(c fiber.Ctx) error {
	return fail(c, fiber.StatusInternalServerError, "internal server error")
}

// upstreamError reports a dependency failure (the AI provider) with the
// provider's status and payload attached.
func upstreamError(c fiber.Ctx, providerStatus int, payload string) error {
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"success": false,
		"message": "upstream provider error",
		"errors":  []any{fiber.Map{"status": providerStatus, "payload": payload}},
	})
}
