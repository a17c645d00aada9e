package handlers

import (
	"github.com/dlGuiri/Dental-Lens/database"
	"github.com/dlGuiri/Dental-Lens/services"
	"github.com/dlGuiri/Dental-Lens/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ChatHandler carries the hub so the REST sendMessage mutation and the
// websocket path broadcast through the same place.
type ChatHandler struct {
	Hub *websocket.Hub
}

func NewChatHandler(hub *websocket.Hub) *ChatHandler {
	return &ChatHandler{Hub: hub}
}

func (h *ChatHandler) GetUserConversations(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	conversations, err := services.GetUserConversations(database.DB, userID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch conversations")
	}
	return c.JSON(conversations)
}

func (h *ChatHandler) CreateConversation(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	type Request struct {
		ParticipantIDs []string `json:"participant_ids" validate:"required,min=1,dive,uuid"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	participantIDs := []uuid.UUID{userID}
	for _, raw := range req.ParticipantIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid participant ID"})
		}
		participantIDs = append(participantIDs, id)
	}

	conversation, created, err := services.CreateConversation(database.DB, participantIDs)
	if err != nil {
		return serviceError(c, err, "Failed to create conversation")
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(conversation)
}

func (h *ChatHandler) GetConversationMessages(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	conversationID, err := uuid.Parse(c.Params("conversationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid conversation ID"})
	}

	if _, err := services.GetConversationForUser(database.DB, conversationID, userID); err != nil {
		return serviceError(c, err, "Failed to fetch conversation")
	}

	messages, err := services.GetMessages(database.DB, conversationID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch messages")
	}
	return c.JSON(messages)
}

func (h *ChatHandler) MarkConversationRead(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	conversationID, err := uuid.Parse(c.Params("conversationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid conversation ID"})
	}

	if _, err := services.GetConversationForUser(database.DB, conversationID, userID); err != nil {
		return serviceError(c, err, "Failed to fetch conversation")
	}

	if err := services.MarkMessagesAsRead(database.DB, conversationID, userID); err != nil {
		return serviceError(c, err, "Failed to mark messages as read")
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// SendMessage is the mutation form of the websocket sendMessage event.
// Both persist first and broadcast the stored row, so clients converge
// on one history whichever path the message took.
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	type Request struct {
		ConversationID string `json:"conversation_id" validate:"required,uuid"`
		Content        string `json:"content" validate:"required"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	conversationID, _ := uuid.Parse(req.ConversationID)

	message, err := services.CreateMessage(database.DB, conversationID, userID, req.Content)
	if err != nil {
		return serviceError(c, err, "Failed to send message")
	}

	h.Hub.BroadcastMessage(message)

	return c.Status(fiber.StatusCreated).JSON(message)
}
