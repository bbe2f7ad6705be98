package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"

	"messenger-be/database"
	"messenger-be/handlers"
	"messenger-be/jobs"
	"messenger-be/notifications"
	"messenger-be/routes"
	"messenger-be/services"
	"messenger-be/websocket"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	notifications.InitEmailService()

	hub := websocket.NewHub(database.DB)
	go hub.Run()

	userService := services.NewUserService(database.DB)
	messageStore := services.NewMessageStore(database.DB)
	summaryStore := services.NewSummaryStore(database.DB)
	membershipService := services.NewMembershipService(database.DB, summaryStore)
	conversationService := services.NewConversationService(database.DB, messageStore, summaryStore, membershipService, hub)

	c := cron.New()
	c.AddFunc("*/10 * * * *", jobs.ReconcileSummaries)
	go c.Start()
	log.Println("✅ Cron job for summary reconciliation scheduled successfully.")

	app := fiber.New(fiber.Config{
		AppName:       "Messenger",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.AuthRoutes(app, &handlers.AuthHandler{Users: userService})
	routes.ProfileRoutes(app, &handlers.ProfileHandler{Users: userService})
	routes.MessagingRoutes(app, &handlers.MessagingHandler{Conversations: conversationService, Hub: hub})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Println("✅ Server is running on port 8080")
	if err := app.Listen(":8080"); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
