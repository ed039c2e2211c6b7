package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/nabhcare/nabh-backend/internal/api/http/handler"
	"github.com/nabhcare/nabh-backend/internal/api/http/middleware"
	"github.com/nabhcare/nabh-backend/internal/model"
	"github.com/nabhcare/nabh-backend/pkg/authorize"
)

func (r *Router) registerPatientRoutes(
	api fiber.Router,
	ph *handler.PatientHandler,
	nh *handler.NotificationHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	group := api.Group("/patient", authRequired, middleware.RequireRole(string(model.RolePatient)))

	group.Get("/dashboard/stats", requirePerm(authorize.ResourceDashboard, authorize.ActionRead), ph.Dashboard)

	group.Get("/appointments", requirePerm(authorize.ResourceAppointment, authorize.ActionList), ph.Appointments)
	group.Post("/appointments", requirePerm(authorize.ResourceAppointment, authorize.ActionCreate), ph.BookAppointment)
	group.Put("/appointments/:id/cancel", requirePerm(authorize.ResourceAppointment, authorize.ActionUpdate), ph.CancelAppointment)

	group.Get("/records", requirePerm(authorize.ResourceMedicalRecord, authorize.ActionList), ph.Records)
	group.Post("/records", requirePerm(authorize.ResourceMedicalRecord, authorize.ActionCreate), ph.UploadRecord)

	group.Post("/symptom-checker", requirePerm(authorize.ResourceSymptomCheck, authorize.ActionCreate), ph.SymptomChecker)
	group.Get("/medicine/:name", requirePerm(authorize.ResourceMedicine, authorize.ActionList), ph.SearchMedicine)

	group.Get("/notifications", requirePerm(authorize.ResourceNotification, authorize.ActionList), nh.List)
	group.Put("/notifications/:id/read", requirePerm(authorize.ResourceNotification, authorize.ActionUpdate), nh.MarkRead)
}
