package router

import (
	"context"

	"country_chat_service/internal/chat/app"
	"country_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes register the chat websocket route
func RegisterRoutes(r *fiber.App, chatWebsocket *app.ChatWebsocketHandler) {
	r.Use(middlewares.JWTMiddleware())

	r.Get("/ws", websocket.New(func(c *websocket.Conn) {
		chatWebsocket.HandleConnection(context.Background(), c)
	}))
}
