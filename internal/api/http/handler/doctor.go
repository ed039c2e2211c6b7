package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/nabhcare/nabh-backend/internal/model"
	"github.com/nabhcare/nabh-backend/internal/service/doctor"
)

type DoctorHandler struct {
	svc doctor.Service
}

func NewDoctorHandler(svc doctor.Service) *DoctorHandler {
	return &DoctorHandler{svc: svc}
}

// GET /api/doctor/dashboard/stats
func (h *DoctorHandler) Dashboard(c fiber.Ctx) error {
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

// GET /api/doctor/appointments
func (h *DoctorHandler) Appointments(c fiber.Ctx) error {
	id, authed := callerID(c)
	if !authed {
		return unauthorized(c, "")
	}

	appts, err := h.svc.Appointments(c.Context(), id)
	if err != nil {
		return internalError(c)
	}
	return ok(c, appts, "Appointments fetched successfully")
}

// PUT /api/doctor/appointments/:id
func (h *DoctorHandler) UpdateAppointmentStatus(c fiber.Ctx) error {
	id, authed := callerID(c)
	if !authed {
		return unauthorized(c, "")
	}
	apptID, err := bson.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}

	var body struct {
		Status model.AppointmentStatus `json:"status"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	appt, err := h.svc.UpdateAppointmentStatus(c.Context(), id, apptID, body.Status)
	if err != nil {
		return mapDoctorError(c, err)
	}
	return ok(c, appt, "Appointment updated successfully")
}

// PUT /api/doctor/appointments/:id/consultation
func (h *DoctorHandler) UpdateConsultation(c fiber.Ctx) error {
	id, authed := callerID(c)
	if !authed {
		return unauthorized(c, "")
	}
	apptID, err := bson.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}

	var body model.ConsultationUpdate
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	appt, err := h.svc.UpdateConsultation(c.Context(), id, apptID, body)
	if err != nil {
		return mapDoctorError(c, err)
	}
	return ok(c, appt, "Appointment consultation updated successfully")
}

// GET /api/doctor/prescriptions
func (h *DoctorHandler) Prescriptions(c fiber.Ctx) error {
	id, authed := callerID(c)
	if !authed {
		return unauthorized(c, "")
	}

	prescs, err := h.svc.Prescriptions(c.Context(), id)
	if err != nil {
		return internalError(c)
	}
	return ok(c, prescs, "Prescriptions fetched successfully")
}

// POST /api/doctor/prescriptions
func (h *DoctorHandler) CreatePrescription(c fiber.Ctx) error {
	id, authed := callerID(c)
	if !authed {
		return unauthorized(c, "")
	}

	var body doctor.CreatePrescriptionRequest
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	p, err := h.svc.CreatePrescription(c.Context(), id, body)
	if err != nil {
		return mapDoctorError(c, err)
	}
	return created(c, p, "Prescription created successfully")
}

// GET /api/doctor/records/:patientid
func (h *DoctorHandler) PatientRecords(c fiber.Ctx) error {
	if _, authed := callerID(c); !authed {
		return unauthorized(c, "")
	}
	patientID, err := bson.ObjectIDFromHex(c.Params("patientid"))
	if err != nil {
		return badRequest(c, "invalid patient id")
	}

	recs, err := h.svc.PatientRecords(c.Context(), patientID)
	if err != nil {
		return internalError(c)
	}
	return ok(c, recs, "Patient records fetched successfully")
}

// PUT /api/doctor/availability
func (h *DoctorHandler) UpdateAvailability(c fiber.Ctx) error {
	id, authed := callerID(c)
	if !authed {
		return unauthorized(c, "")
	}

	var body struct {
		IsAvailable bool `json:"isAvailable"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	u, err := h.svc.SetAvailability(c.Context(), id, body.IsAvailable)
	if err != nil {
		return internalError(c)
	}
	return ok(c, fiber.Map{"doctor": u}, "Availability updated successfully")
}

func mapDoctorError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, doctor.ErrInvalidStatus),
		errors.Is(err, doctor.ErrMissingPrescriptionFields),
		errors.Is(err, doctor.ErrInvalidPatientID):
		return badRequest(c, err.Error())
	case errors.Is(err, doctor.ErrAppointmentNotFound):
		return notFound(c, err.Error())
	default:
		return internalError(c)
	}
}
