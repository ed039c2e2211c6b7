package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/nabhcare/nabh-backend/internal/api/http/handler"
	"github.com/nabhcare/nabh-backend/internal/api/http/middleware"
	"github.com/nabhcare/nabh-backend/internal/model"
	"github.com/nabhcare/nabh-backend/pkg/authorize"
)

func (r *Router) registerDoctorRoutes(
	api fiber.Router,
	dh *handler.DoctorHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	group := api.Group("/doctor", authRequired, middleware.RequireRole(string(model.RoleDoctor)))

	group.Get("/dashboard/stats", requirePerm(authorize.ResourceDashboard, authorize.ActionRead), dh.Dashboard)

	group.Get("/appointments", requirePerm(authorize.ResourceAppointment, authorize.ActionList), dh.Appointments)
	group.Put("/appointments/:id", requirePerm(authorize.ResourceAppointment, authorize.ActionUpdate), dh.UpdateAppointmentStatus)
	group.Put("/appointments/:id/consultation", requirePerm(authorize.ResourceAppointment, authorize.ActionUpdate), dh.UpdateConsultation)

	group.Get("/prescriptions", requirePerm(authorize.ResourcePrescription, authorize.ActionList), dh.Prescriptions)
	group.Post("/prescriptions", requirePerm(authorize.ResourcePrescription, authorize.ActionCreate), dh.CreatePrescription)

	group.Get("/records/:patientid", requirePerm(authorize.ResourceMedicalRecord, authorize.ActionRead), dh.PatientRecords)

	group.Put("/availability", requirePerm(authorize.ResourceProfile, authorize.ActionUpdate), dh.UpdateAvailability)
}
