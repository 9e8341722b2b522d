package handlers

import (
	"errors"
	"strconv"

	"github.com/SathwikUK/Virtual-Study-Mugen/internal/httpx"
	"github.com/SathwikUK/Virtual-Study-Mugen/internal/service"
	"github.com/SathwikUK/Virtual-Study-Mugen/internal/storage"
	"github.com/gofiber/fiber/v2"
)

type GroupHandler struct {
	groupService *service.GroupService
}

func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *GroupHandler) CreateGroup(c *fiber.Ctx) error {
	var req CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	if req.Name == "" {
		return httpx.BadRequest(c, "missing_name", "Group name is required")
	}

	userID := c.Locals("userID").(uint)
	group, err := h.groupService.CreateGroup(req.Name, req.Description, userID)
	if err != nil {
		return httpx.Internal(c, "create_group_failed")
	}

	return c.Status(fiber.StatusCreated).JSON(group)
}

func (h *GroupHandler) GetMyGroups(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	groups, err := h.groupService.GetUserGroups(userID)
	if err != nil {
		return httpx.Internal(c, "fetch_groups_failed")
	}

	return c.JSON(fiber.Map{"groups": groups})
}

func (h *GroupHandler) JoinGroup(c *fiber.Ctx) error {
	groupID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return httpx.BadRequest(c, "invalid_group", "Invalid group ID")
	}

	userID := c.Locals("userID").(uint)
	if err := h.groupService.JoinGroup(uint(groupID), userID); err != nil {
		switch {
		case errors.Is(err, service.ErrGroupNotFound):
			return httpx.NotFound(c, "group_not_found", "Group not found")
		case errors.Is(err, service.ErrAlreadyMember):
			return httpx.BadRequest(c, "already_member", "User is already a member of this group")
		default:
			return httpx.Internal(c, "join_group_failed")
		}
	}

	return c.JSON(fiber.Map{"message": "Joined group successfully"})
}

func (h *GroupHandler) LeaveGroup(c *fiber.Ctx) error {
	groupID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return httpx.BadRequest(c, "invalid_group", "Invalid group ID")
	}

	userID := c.Locals("userID").(uint)
	if err := h.groupService.LeaveGroup(uint(groupID), userID); err != nil {
		return httpx.Internal(c, "leave_group_failed")
	}

	return c.JSON(fiber.Map{"message": "Left group successfully"})
}

func (h *GroupHandler) GetGroupMembers(c *fiber.Ctx) error {
	groupID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return httpx.BadRequest(c, "invalid_group", "Invalid group ID")
	}

	members, err := h.groupService.GetGroupMembers(uint(groupID))
	if err != nil {
		return httpx.Internal(c, "fetch_members_failed")
	}

	responses := make([]interface{}, len(members))
	for i, m := range members {
		responses[i] = m.ToResponse()
	}
	return c.JSON(responses)
}

func (h *GroupHandler) UploadGroupImage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	groupID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return httpx.BadRequest(c, "invalid_group", "Invalid group ID")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return httpx.BadRequest(c, "missing_file", "Image file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return httpx.Internal(c, "read_file_failed")
	}
	defer file.Close()

	group, err := h.groupService.UploadGroupImage(c.Context(), uint(groupID), userID, file, c.BaseURL())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStorageNotConfigured):
			return httpx.Error(c, fiber.StatusServiceUnavailable, "storage_not_configured", "Storage not configured")
		case errors.Is(err, service.ErrGroupNotFound):
			return httpx.NotFound(c, "group_not_found", "Group not found")
		case errors.Is(err, service.ErrNotMember):
			return httpx.Forbidden(c, "not_a_member", "User is not a member of this group")
		case errors.Is(err, storage.ErrTooLarge), errors.Is(err, storage.ErrInvalidImage), errors.Is(err, storage.ErrUnsupported):
			return httpx.BadRequest(c, "invalid_image", err.Error())
		default:
			return httpx.Internal(c, "upload_image_failed")
		}
	}

	return c.JSON(group)
}
