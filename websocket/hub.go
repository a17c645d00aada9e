package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	config "github.com/dlGuiri/Dental-Lens/configs"
	"github.com/dlGuiri/Dental-Lens/models"
	"github.com/dlGuiri/Dental-Lens/services"
	"github.com/gofiber/contrib/websocket"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Client struct {
	UserID uuid.UUID
	conn   *websocket.Conn
	send   chan []byte
	closed bool
}

type joinRequest struct {
	client         *Client
	conversationID uuid.UUID
}

// Hub groups connections by conversation and fans stored messages out
// to every member. All room state is owned by the Run goroutine; the
// channels serialize access. A message only reaches the hub after the
// database write succeeded, so every broadcast carries the durable id
// and timestamp, and a failed delivery never affects persistence.
type Hub struct {
	db         *gorm.DB
	rooms      map[uuid.UUID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	join       chan joinRequest
	broadcast  chan *models.Message
}

func NewHub(db *gorm.DB) *Hub {
	return &Hub{
		db:         db,
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan joinRequest),
		broadcast:  make(chan *models.Message, 64),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			log.Printf("Client registered: %s", client.UserID)

		case client := <-h.unregister:
			for conversationID, members := range h.rooms {
				if members[client] {
					delete(members, client)
					if len(members) == 0 {
						delete(h.rooms, conversationID)
					}
				}
			}
			if !client.closed {
				client.closed = true
				close(client.send)
			}
			log.Printf("Client unregistered: %s", client.UserID)

		case req := <-h.join:
			members, ok := h.rooms[req.conversationID]
			if !ok {
				members = make(map[*Client]bool)
				h.rooms[req.conversationID] = members
			}
			if members[req.client] {
				continue // already joined
			}
			members[req.client] = true
			log.Printf("Client %s joined conversation %s", req.client.UserID, req.conversationID)

		case message := <-h.broadcast:
			data, err := json.Marshal(serverEvent{Type: "newMessage", Message: message})
			if err != nil {
				log.Printf("Error marshaling message %s for broadcast: %v", message.ID, err)
				continue
			}
			for client := range h.rooms[message.ConversationID] {
				select {
				case client.send <- data:
				default:
					// Slow client: drop this delivery, it will catch
					// up from the message history on its next fetch.
					log.Printf("Dropping broadcast to slow client %s", client.UserID)
				}
			}
		}
	}
}

// BroadcastMessage enqueues an already-persisted message for delivery
// to everyone joined to its conversation, the sender included.
func (h *Hub) BroadcastMessage(message *models.Message) {
	h.broadcast <- message
}

func (h *Hub) joinConversation(client *Client, conversationID uuid.UUID) {
	h.join <- joinRequest{client: client, conversationID: conversationID}
}

type authMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

type clientEvent struct {
	Type           string   `json:"type"`
	ConversationID string   `json:"conversation_id,omitempty"`
	Content        string   `json:"content,omitempty"`
	ParticipantIDs []string `json:"participant_ids,omitempty"`
}

type serverEvent struct {
	Type         string               `json:"type"`
	Message      *models.Message      `json:"message,omitempty"`
	Conversation *models.Conversation `json:"conversation,omitempty"`
	Error        string               `json:"error,omitempty"`
}

// ServeWs authenticates the connection, registers it with the hub and
// pumps client events until the connection drops. Joined rooms are not
// remembered across reconnects: a reconnecting client must issue
// joinConversation again.
func (h *Hub) ServeWs(c *websocket.Conn) {
	var authMsg authMessage
	if err := c.ReadJSON(&authMsg); err != nil || authMsg.Type != "auth" {
		log.Printf("WebSocket auth failed: invalid or missing auth message, error: %v", err)
		_ = c.WriteJSON(serverEvent{Type: "error", Error: "Invalid or missing auth message"})
		c.Close()
		return
	}

	claims, err := parseToken(authMsg.Token)
	if err != nil {
		log.Printf("WebSocket auth failed: invalid token, error: %v", err)
		_ = c.WriteJSON(serverEvent{Type: "error", Error: "Invalid token"})
		c.Close()
		return
	}

	rawUserID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		log.Printf("WebSocket auth failed: invalid user_id: %v", err)
		_ = c.WriteJSON(serverEvent{Type: "error", Error: "Invalid user ID"})
		c.Close()
		return
	}

	client := &Client{UserID: userID, conn: c, send: make(chan []byte, 64)}
	h.register <- client
	defer func() {
		h.unregister <- client
		c.Close()
	}()

	go client.writePump()

	for {
		var event clientEvent
		if err := c.ReadJSON(&event); err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket closed for client %s: %v", userID, err)
			} else {
				log.Printf("WebSocket read error for client %s: %v", userID, err)
			}
			break
		}
		h.handleEvent(client, event)
	}
}

func (h *Hub) handleEvent(client *Client, event clientEvent) {
	switch event.Type {
	case "joinConversation":
		conversationID, err := uuid.Parse(event.ConversationID)
		if err != nil {
			client.sendEvent(serverEvent{Type: "error", Error: "Invalid conversation ID"})
			return
		}
		if _, err := services.GetConversationForUser(h.db, conversationID, client.UserID); err != nil {
			if errors.Is(err, services.ErrNotParticipant) {
				client.sendEvent(serverEvent{Type: "error", Error: "Not a participant of this conversation"})
			} else {
				client.sendEvent(serverEvent{Type: "error", Error: "Conversation not found"})
			}
			return
		}
		h.joinConversation(client, conversationID)

	case "sendMessage":
		conversationID, err := uuid.Parse(event.ConversationID)
		if err != nil {
			client.sendEvent(serverEvent{Type: "error", Error: "Invalid conversation ID"})
			return
		}
		message, err := services.CreateMessage(h.db, conversationID, client.UserID, event.Content)
		if err != nil {
			log.Printf("Failed to save message for client %s: %v", client.UserID, err)
			client.sendEvent(serverEvent{Type: "error", Error: "Message failed to send."})
			return
		}
		h.BroadcastMessage(message)

	case "startConversation":
		participantIDs := make([]uuid.UUID, 0, len(event.ParticipantIDs)+1)
		for _, raw := range event.ParticipantIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				client.sendEvent(serverEvent{Type: "error", Error: "Invalid participant ID"})
				return
			}
			participantIDs = append(participantIDs, id)
		}
		participantIDs = append(participantIDs, client.UserID)

		conversation, _, err := services.CreateConversation(h.db, participantIDs)
		if err != nil {
			log.Printf("Failed to start conversation for client %s: %v", client.UserID, err)
			client.sendEvent(serverEvent{Type: "error", Error: "Failed to start conversation"})
			return
		}
		h.joinConversation(client, conversation.ID)
		client.sendEvent(serverEvent{Type: "conversationStarted", Conversation: conversation})

	default:
		client.sendEvent(serverEvent{Type: "error", Error: "Unknown event type: " + event.Type})
	}
}

func (c *Client) sendEvent(event serverEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error writing to client %s: %v", c.UserID, err)
			return
		}
	}
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
