package ws

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/SathwikUK/Virtual-Study-Mugen/internal/service"
	"github.com/gofiber/websocket/v2"
)

// MessageContext provides all dependencies needed for message processing
type MessageContext struct {
	UserID       uint
	Conn         *websocket.Conn
	Hub          *Hub
	GroupService *service.GroupService
	ReadReceipts *service.ReadReceiptService
}

// Message interface for all client-to-server WebSocket message types
type Message interface {
	GetType() string
	Process(ctx *MessageContext) error
}

// Envelope is the wire format wrapper for server-to-client events
type Envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// SerializedMessage is the wire format wrapper for client-to-server events
type SerializedMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ErrorResponse is sent when message processing fails
type ErrorResponse struct {
	Type    string `json:"type"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

func ToJson(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

func FromJson(jsonBytes []byte, msg Message) error {
	return json.Unmarshal(jsonBytes, msg)
}

func CreateMessage(msgType string, typeRegistry map[string]reflect.Type) (Message, error) {
	msgTypeReflect, ok := typeRegistry[msgType]
	if !ok {
		return nil, fmt.Errorf("unknown message type: %s", msgType)
	}

	instance := reflect.New(msgTypeReflect).Interface()
	return instance.(Message), nil
}
