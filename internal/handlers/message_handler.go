package handlers

import (
	"errors"
	"strconv"

	"github.com/SathwikUK/Virtual-Study-Mugen/internal/httpx"
	"github.com/SathwikUK/Virtual-Study-Mugen/internal/service"
	"github.com/gofiber/fiber/v2"
)

type MessageHandler struct {
	messageService *service.MessageService
	readReceipts   *service.ReadReceiptService
}

func NewMessageHandler(messageService *service.MessageService, readReceipts *service.ReadReceiptService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		readReceipts:   readReceipts,
	}
}

// mapServiceError translates the service failure taxonomy to HTTP statuses.
func mapServiceError(c *fiber.Ctx, err error, fallbackCode string) error {
	switch {
	case errors.Is(err, service.ErrSenderNotFound):
		return httpx.NotFound(c, "sender_not_found", "Sender not found")
	case errors.Is(err, service.ErrGroupNotFound):
		return httpx.NotFound(c, "group_not_found", "Group not found")
	case errors.Is(err, service.ErrMessageNotFound):
		return httpx.NotFound(c, "message_not_found", "Message not found")
	case errors.Is(err, service.ErrNotMember):
		return httpx.Forbidden(c, "not_a_member", "User is not a member of this group")
	case errors.Is(err, service.ErrNotSender):
		return httpx.Forbidden(c, "not_the_sender", "Only the sender can modify this message")
	case errors.Is(err, service.ErrEmptyMessage):
		return httpx.BadRequest(c, "empty_message", "Message must contain text or a file")
	default:
		return httpx.Internal(c, fallbackCode)
	}
}

func (h *MessageHandler) SendMessage(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input service.SendMessageInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}
	if input.GroupID == 0 {
		return httpx.BadRequest(c, "missing_group", "group_id is required")
	}

	message, err := h.messageService.SendMessage(userID, input)
	if err != nil {
		return mapServiceError(c, err, "send_message_failed")
	}

	return c.Status(fiber.StatusCreated).JSON(message.ToResponse())
}

func (h *MessageHandler) GetGroupMessages(c *fiber.Ctx) error {
	if _, err := httpx.LocalUint(c, "userID"); err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	groupID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return httpx.BadRequest(c, "invalid_group", "Invalid group ID")
	}

	page := 1
	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	pageSize := 50
	if sizeStr := c.Query("page_size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
			pageSize = s
		}
	}

	messages, err := h.messageService.GroupMessages(uint(groupID), page, pageSize)
	if err != nil {
		return mapServiceError(c, err, "fetch_messages_failed")
	}

	return c.JSON(fiber.Map{
		"messages":  messages,
		"count":     len(messages),
		"page":      page,
		"page_size": pageSize,
	})
}

type EditMessageRequest struct {
	Body string `json:"body"`
}

func (h *MessageHandler) EditMessage(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	messageID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return httpx.BadRequest(c, "invalid_message", "Invalid message ID")
	}

	var req EditMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	message, err := h.messageService.EditMessage(uint(messageID), userID, req.Body)
	if err != nil {
		return mapServiceError(c, err, "edit_message_failed")
	}

	return c.JSON(message.ToResponse())
}

func (h *MessageHandler) DeleteMessage(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	messageID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return httpx.BadRequest(c, "invalid_message", "Invalid message ID")
	}

	if err := h.messageService.DeleteMessage(uint(messageID), userID); err != nil {
		return mapServiceError(c, err, "delete_message_failed")
	}

	return c.JSON(fiber.Map{"message": "Message deleted successfully"})
}

func (h *MessageHandler) GetUnreadCounts(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	counts, err := h.readReceipts.UnreadCounts(userID)
	if err != nil {
		return httpx.Internal(c, "fetch_unread_failed")
	}

	return c.JSON(counts)
}

func (h *MessageHandler) GetMessageReaders(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	messageID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return httpx.BadRequest(c, "invalid_message", "Invalid message ID")
	}

	readers, err := h.readReceipts.MessageReaders(uint(messageID), userID)
	if err != nil {
		return mapServiceError(c, err, "fetch_readers_failed")
	}
	if readers == nil {
		readers = []uint{}
	}

	return c.JSON(fiber.Map{
		"message_id": uint(messageID),
		"read_by":    readers,
	})
}

func (h *MessageHandler) MarkGroupRead(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	groupID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return httpx.BadRequest(c, "invalid_group", "Invalid group ID")
	}

	if err := h.readReceipts.MarkGroupRead(uint(groupID), userID); err != nil {
		return mapServiceError(c, err, "mark_read_failed")
	}

	return c.JSON(fiber.Map{"message": "Messages marked as read"})
}
