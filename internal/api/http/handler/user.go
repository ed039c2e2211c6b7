package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/nabhcare/nabh-backend/internal/model"
	"github.com/nabhcare/nabh-backend/internal/service/user"
)

type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

// GET /api/users/profile
func (h *UserHandler) Profile(c fiber.Ctx) error {
	id, authed := callerID(c)
	if !authed {
		return unauthorized(c, "")
	}

	u, err := h.svc.Profile(c.Context(), id)
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, fiber.Map{"user": u}, "Profile fetched successfully")
}

// PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c fiber.Ctx) error {
	id, authed := callerID(c)
	if !authed {
		return unauthorized(c, "")
	}

	var body model.ProfileUpdate
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	u, err := h.svc.UpdateProfile(c.Context(), id, body)
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, fiber.Map{"user": u}, "Profile updated successfully")
}

// GET /api/users/doctors
func (h *UserHandler) ListDoctors(c fiber.Ctx) error {
	doctors, err := h.svc.ListDoctors(c.Context())
	if err != nil {
		return internalError(c)
	}
	return ok(c, doctors, "Doctors fetched successfully")
}

func mapUserError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		return notFound(c, err.Error())
	default:
		return internalError(c)
	}
}
