package routes

import (
	"github.com/gofiber/fiber/v2"

	"messenger-be/handlers"
	"messenger-be/middleware"
)

func ProfileRoutes(app *fiber.App, h *handlers.ProfileHandler) {
	api := app.Group("/api/v1")

	profile := api.Group("/profile", middleware.Protected())
	profile.Get("", h.GetProfile)
	profile.Patch("", h.UpdateProfile)

	api.Get("/users/search/:username", middleware.Protected(), h.SearchUsers)
}
