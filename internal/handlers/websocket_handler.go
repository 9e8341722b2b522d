package handlers

import (
	"log"

	"github.com/SathwikUK/Virtual-Study-Mugen/internal/handlers/ws"
	"github.com/SathwikUK/Virtual-Study-Mugen/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type WebSocketHandler struct {
	hub          *ws.Hub
	groupService *service.GroupService
	readReceipts *service.ReadReceiptService
}

func NewWebSocketHandler(hub *ws.Hub, groupService *service.GroupService, readReceipts *service.ReadReceiptService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:          hub,
		groupService: groupService,
		readReceipts: readReceipts,
	}
}

// Presence reports who is currently connected to the real-time hub.
func (h *WebSocketHandler) Presence(c *fiber.Ctx) error {
	online := h.hub.OnlineUsers()
	if online == nil {
		online = []uint{}
	}
	return c.JSON(fiber.Map{
		"online_users": online,
		"connections":  h.hub.Count(),
	})
}

func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	userID := c.Locals("userID").(uint)

	// Check if client supports gzip compression (via query param or header)
	supportsGzip := c.Query("gzip") == "1" || c.Headers("X-Supports-Gzip") == "1"

	h.hub.Register(userID, c, supportsGzip)
	defer h.hub.Unregister(c)

	log.Printf("User %d connected via WebSocket", userID)

	ctx := &ws.MessageContext{
		UserID:       userID,
		Conn:         c,
		Hub:          h.hub,
		GroupService: h.groupService,
		ReadReceipts: h.readReceipts,
	}

	for {
		messageType, messageBytes, err := c.ReadMessage()
		if err != nil {
			break
		}

		// Decompress if binary message (gzip compressed)
		if messageType == websocket.BinaryMessage {
			decompressed, err := ws.DecompressMessage(messageBytes)
			if err != nil {
				log.Printf("Error decompressing message from user %d: %v", userID, err)
				h.hub.SendError(c, "decompression_failed", "Failed to decompress message", err.Error())
				continue
			}
			messageBytes = decompressed
		}

		msg, err := ws.Deserialize(messageBytes)
		if err != nil {
			log.Printf("Error deserializing message from user %d: %v", userID, err)
			h.hub.SendError(c, "invalid_message", "Invalid message format", err.Error())
			continue
		}

		if err := msg.Process(ctx); err != nil {
			log.Printf("Error processing message %s from user %d: %v", msg.GetType(), userID, err)
			h.hub.SendError(c, "processing_failed", "Failed to process message", err.Error())
		}
	}

	log.Printf("User %d disconnected from WebSocket", userID)
}
