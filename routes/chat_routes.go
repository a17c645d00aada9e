package routes

import (
	"github.com/dlGuiri/Dental-Lens/handlers"
	"github.com/dlGuiri/Dental-Lens/middleware"
	ws "github.com/dlGuiri/Dental-Lens/websocket"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func ChatRoutes(app *fiber.App, hub *ws.Hub) {
	api := app.Group("/api/v1")
	chat := handlers.NewChatHandler(hub)

	conversations := api.Group("/conversations", middleware.Protected())
	conversations.Get("", chat.GetUserConversations)
	conversations.Post("", chat.CreateConversation)
	conversations.Get("/:conversationId/messages", chat.GetConversationMessages)
	conversations.Post("/:conversationId/read", chat.MarkConversationRead)

	api.Post("/messages", middleware.Protected(), chat.SendMessage)

	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws", websocket.New(hub.ServeWs))
}
