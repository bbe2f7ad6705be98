package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"messenger-be/handlers"
	"messenger-be/middleware"
)

func MessagingRoutes(app *fiber.App, h *handlers.MessagingHandler) {
	api := app.Group("/api/v1")

	conversations := api.Group("/conversations", middleware.Protected())
	conversations.Get("", h.ListMyConversations)
	conversations.Post("", h.CreateConversation)
	conversations.Post("/direct", h.CreateDirectConversation)
	conversations.Post("/:conversationId/members", h.InviteMember)
	conversations.Get("/:conversationId/messages", h.ListNewMessages)
	conversations.Post("/:conversationId/messages", h.SendMessage)

	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws", websocket.New(h.ServeWs))
}
