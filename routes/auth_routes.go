package routes

import (
	"github.com/gofiber/fiber/v2"

	"messenger-be/handlers"
	"messenger-be/middleware"
)

func AuthRoutes(app *fiber.App, h *handlers.AuthHandler) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Put("/password", middleware.Protected(), h.ChangePassword)
}
