package router

import (
	"country_chat_service/internal/api/handlers"
	"country_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes register the presence REST routes
func RegisterRoutes(app *fiber.App, presenceHandler *handlers.PresenceHandler) {
	app.Get("/", handlers.ConnectCheck)
	app.Post("/debug", handlers.DebugLogFlag)

	userRoutes := app.Group("/users")
	userRoutes.Use(middlewares.JWTMiddleware())
	userRoutes.Get("/online", presenceHandler.GetOnlineStatuses)
	userRoutes.Get("/:id/online", presenceHandler.GetOnlineStatus)
}
