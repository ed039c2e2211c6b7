package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/nabhcare/nabh-backend/internal/api/http/handler"
	"github.com/nabhcare/nabh-backend/internal/api/http/middleware"
	"github.com/nabhcare/nabh-backend/internal/model"
	"github.com/nabhcare/nabh-backend/pkg/authorize"
)

func (r *Router) registerPharmacyRoutes(
	api fiber.Router,
	ph *handler.PharmacyHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	group := api.Group("/pharmacy", authRequired, middleware.RequireRole(string(model.RolePharmacy)))

	group.Get("/dashboard/stats", requirePerm(authorize.ResourceDashboard, authorize.ActionRead), ph.Dashboard)

	group.Get("/medicines", requirePerm(authorize.ResourceMedicine, authorize.ActionList), ph.Medicines)
	group.Post("/medicines", requirePerm(authorize.ResourceMedicine, authorize.ActionCreate), ph.AddMedicine)
	// Registered before /medicines/:id so "low-stock" is not taken for an id.
	group.Get("/medicines/low-stock", requirePerm(authorize.ResourceMedicine, authorize.ActionList), ph.LowStock)
	group.Put("/medicines/:id", requirePerm(authorize.ResourceMedicine, authorize.ActionUpdate), ph.UpdateMedicine)
	group.Delete("/medicines/:id", requirePerm(authorize.ResourceMedicine, authorize.ActionDelete), ph.RemoveMedicine)

	group.Get("/orders", requirePerm(authorize.ResourceOrder, authorize.ActionList), ph.Orders)
	group.Post("/orders", requirePerm(authorize.ResourceOrder, authorize.ActionCreate), ph.CreateOrder)
	group.Put("/orders/:id/status", requirePerm(authorize.ResourceOrder, authorize.ActionUpdate), ph.UpdateOrderStatus)
}
