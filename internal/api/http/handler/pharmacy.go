package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/nabhcare/nabh-backend/internal/model"
	"github.com/nabhcare/nabh-backend/internal/service/pharmacy"
)

type PharmacyHandler struct {
	svc pharmacy.Service
}

func NewPharmacyHandler(svc pharmacy.Service) *PharmacyHandler {
	return &PharmacyHandler{svc: svc}
}

// GET /api/pharmacy/dashboard/stats
func (h *PharmacyHandler) Dashboard(c fiber.Ctx) error {
	id, authed := callerID(c)
	if !authed {
		return unauthorized(c, "")
	}

	stats, err := h.svc.Dashboard(c.Context(), id)
	if err != nil {
		return internalError(c)
	}
	return ok(c, stats, "Dashboard stats fetched successfully")
}

// GET /api/pharmacy/medicines
func (h *PharmacyHandler) Medicines(c fiber.Ctx) error {
	id, authed := callerID(c)
	if !authed {
		return unauthorized(c, "")
	}

	meds, err := h.svc.Medicines(c.Context(), id)
	if err != nil {
		return mapPharmacyError(c, err)
	}
	return ok(c, meds, "Medicines fetched successfully")
}

// POST /api/pharmacy/medicines
func (h *PharmacyHandler) AddMedicine(c fiber.Ctx) error {
	id, authed := callerID(c)
	if !authed {
		return unauthorized(c, "")
	}

	var body pharmacy.AddMedicineRequest
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	meds, err := h.svc.AddMedicine(c.Context(), id, body)
	if err != nil {
		return mapPharmacyError(c, err)
	}
	return created(c, meds, "Medicine added successfully")
}

// GET /api/pharmacy/medicines/low-stock
func (h *PharmacyHandler) LowStock(c fiber.Ctx) error {
	id, authed := callerID(c)
	if !authed {
		return unauthorized(c, "")
	}

	meds, err := h.svc.LowStock(c.Context(), id)
	if err != nil {
		return mapPharmacyError(c, err)
	}
	return ok(c, meds, "Low stock medicines fetched successfully")
}

// PUT /api/pharmacy/medicines/:id
func (h *PharmacyHandler) UpdateMedicine(c fiber.Ctx) error {
	id, authed := callerID(c)
	if !authed {
		return unauthorized(c, "")
	}

	var body pharmacy.UpdateMedicineRequest
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	med, err := h.svc.UpdateMedicine(c.Context(), id, c.Params("id"), body)
	if err != nil {
		return mapPharmacyError(c, err)
	}
	return ok(c, med, "Medicine stock updated")
}

// DELETE /api/pharmacy/medicines/:id
func (h *PharmacyHandler) RemoveMedicine(c fiber.Ctx) error {
	id, authed := callerID(c)
	if !authed {
		return unauthorized(c, "")
	}

	meds, err := h.svc.RemoveMedicine(c.Context(), id, c.Params("id"))
	if err != nil {
		return mapPharmacyError(c, err)
	}
	return ok(c, meds, "Medicine removed successfully")
}

// GET /api/pharmacy/orders
func (h *PharmacyHandler) Orders(c fiber.Ctx) error {
	id, authed := callerID(c)
	if !authed {
		return unauthorized(c, "")
	}

	orders, err := h.svc.Orders(c.Context(), id)
	if err != nil {
		return internalError(c)
	}
	return ok(c, orders, "Orders fetched successfully")
}

// POST /api/pharmacy/orders
func (h *PharmacyHandler) CreateOrder(c fiber.Ctx) error {
	id, authed := callerID(c)
	if !authed {
		return unauthorized(c, "")
	}

	var body pharmacy.CreateOrderRequest
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	order, err := h.svc.CreateOrder(c.Context(), id, body)
	if err != nil {
		return mapPharmacyError(c, err)
	}
	return created(c, order, "Order created successfully")
}

// PUT /api/pharmacy/orders/:id/status
func (h *PharmacyHandler) UpdateOrderStatus(c fiber.Ctx) error {
	id, authed := callerID(c)
	if !authed {
		return unauthorized(c, "")
	}
	orderID, err := bson.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid order id")
	}

	var body struct {
		Status model.OrderStatus `json:"status"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	order, err := h.svc.UpdateOrderStatus(c.Context(), id, orderID, body.Status)
	if err != nil {
		return mapPharmacyError(c, err)
	}
	return ok(c, order, "Order status updated successfully")
}

func mapPharmacyError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, pharmacy.ErrMedicineNameRequired),
		errors.Is(err, pharmacy.ErrInvalidMedicineID),
		errors.Is(err, pharmacy.ErrInvalidOrderStatus),
		errors.Is(err, pharmacy.ErrInvalidOrderRef):
		return badRequest(c, err.Error())
	case errors.Is(err, pharmacy.ErrPharmacyNotFound),
		errors.Is(err, pharmacy.ErrMedicineNotFound),
		errors.Is(err, pharmacy.ErrOrderNotFound):
		return notFound(c, err.Error())
	default:
		return internalError(c)
	}
}
