package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/nabhcare/nabh-backend/internal/api/http/handler"
)

func (r *Router) registerUserRoutes(
	api fiber.Router,
	ah *handler.AuthHandler,
	uh *handler.UserHandler,
	authRequired fiber.Handler,
) {
	users := api.Group("/users")

	// Public
	users.Post("/register", ah.Register)
	users.Post("/login", ah.Login)
	users.Post("/logout", ah.Logout)
	users.Get("/doctors", uh.ListDoctors)

	// Authenticated
	users.Get("/profile", authRequired, uh.Profile)
	users.Put("/profile", authRequired, uh.UpdateProfile)
}
