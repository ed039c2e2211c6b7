package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/nabhcare/nabh-backend/internal/service/notification"
)

type NotificationHandler struct {
	svc notification.Service
}

func NewNotificationHandler(svc notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// GET /api/patient/notifications
func (h *NotificationHandler) List(c fiber.Ctx) error {
	id, authed := callerID(c)
	if !authed {
		return unauthorized(c, "")
	}

	items, err := h.svc.List(c.Context(), id)
	if err != nil {
		return internalError(c)
	}
	return ok(c, items, "Notifications fetched successfully")
}

// PUT /api/patient/notifications/:id/read
func (h *NotificationHandler) MarkRead(c fiber.Ctx) error {
	id, authed := callerID(c)
	if !authed {
		return unauthorized(c, "")
	}
	notifID, err := bson.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid notification id")
	}

	if err := h.svc.MarkRead(c.Context(), id, notifID); err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			return notFound(c, err.Error())
		}
		return internalError(c)
	}
	return ok(c, nil, "Notification marked as read")
}
