package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/nabhcare/nabh-backend/internal/service/patient"
	"github.com/nabhcare/nabh-backend/pkg/ai"
)

type PatientHandler struct {
	svc patient.Service
}

func NewPatientHandler(svc patient.Service) *PatientHandler {
	return &PatientHandler{svc: svc}
}

// GET /api/patient/dashboard/stats
func (h *PatientHandler) Dashboard(c fiber.Ctx) error {
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

// GET /api/patient/appointments
func (h *PatientHandler) Appointments(c fiber.Ctx) error {
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

// POST /api/patient/appointments
func (h *PatientHandler) BookAppointment(c fiber.Ctx) error {
	id, authed := callerID(c)
	if !authed {
		return unauthorized(c, "")
	}

	var body patient.BookAppointmentRequest
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	appt, err := h.svc.BookAppointment(c.Context(), id, body)
	if err != nil {
		return mapPatientError(c, err)
	}
	return created(c, appt, "Appointment booked successfully")
}

// PUT /api/patient/appointments/:id/cancel
func (h *PatientHandler) CancelAppointment(c fiber.Ctx) error {
	id, authed := callerID(c)
	if !authed {
		return unauthorized(c, "")
	}
	apptID, err := bson.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}

	appt, err := h.svc.CancelAppointment(c.Context(), id, apptID)
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, appt, "Appointment cancelled successfully")
}

// GET /api/patient/records
func (h *PatientHandler) Records(c fiber.Ctx) error {
	id, authed := callerID(c)
	if !authed {
		return unauthorized(c, "")
	}

	recs, err := h.svc.Records(c.Context(), id)
	if err != nil {
		return internalError(c)
	}
	return ok(c, recs, "Records fetched successfully")
}

// POST /api/patient/records
func (h *PatientHandler) UploadRecord(c fiber.Ctx) error {
	id, authed := callerID(c)
	if !authed {
		return unauthorized(c, "")
	}

	var body patient.UploadRecordRequest
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	rec, err := h.svc.UploadRecord(c.Context(), id, body)
	if err != nil {
		return mapPatientError(c, err)
	}
	return created(c, rec, "Record uploaded successfully")
}

// POST /api/patient/symptom-checker
//
// The symptoms field accepts either a string ("fever, cough") or an array
// of strings; the array form wins when both could apply.
func (h *PatientHandler) SymptomChecker(c fiber.Ctx) error {
	if _, authed := callerID(c); !authed {
		return unauthorized(c, "")
	}

	var body struct {
		Symptoms any `json:"symptoms"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	var list []string
	var raw string
	switch v := body.Symptoms.(type) {
	case string:
		raw = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				list = append(list, s)
			}
		}
	}

	result, err := h.svc.CheckSymptoms(c.Context(), list, raw)
	if err != nil {
		return mapPatientError(c, err)
	}
	return ok(c, result, "Symptom check completed")
}

// GET /api/patient/medicine/:name
func (h *PatientHandler) SearchMedicine(c fiber.Ctx) error {
	if _, authed := callerID(c); !authed {
		return unauthorized(c, "")
	}

	pharmacies, err := h.svc.SearchMedicine(c.Context(), c.Params("name"))
	if err != nil {
		return internalError(c)
	}
	return ok(c, pharmacies, "Medicine search completed")
}

func mapPatientError(c fiber.Ctx, err error) error {
	var upstream *ai.UpstreamError
	switch {
	case errors.Is(err, patient.ErrMissingBookingFields),
		errors.Is(err, patient.ErrNotADoctor),
		errors.Is(err, patient.ErrFileURLRequired),
		errors.Is(err, patient.ErrNoSymptoms),
		errors.Is(err, patient.ErrNotCancellable):
		return badRequest(c, err.Error())
	case errors.Is(err, patient.ErrDoctorNotFound),
		errors.Is(err, patient.ErrAppointmentNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, ai.ErrNotConfigured):
		return fail(c, fiber.StatusInternalServerError, err.Error())
	case errors.As(err, &upstream):
		return upstreamError(c, upstream.StatusCode, upstream.Payload)
	default:
		return internalError(c)
	}
}
