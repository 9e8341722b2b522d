package ws

import (
	"errors"

	"github.com/SathwikUK/Virtual-Study-Mugen/internal/service"
)

// MessageJoinGroup subscribes the connection to a group's room. Only
// members may join; broadcasts for the group are scoped to its room.
type MessageJoinGroup struct {
	GroupID uint `json:"group_id"`
}

func (msg *MessageJoinGroup) GetType() string {
	return "joinGroup"
}

func (msg *MessageJoinGroup) Process(ctx *MessageContext) error {
	isMember, err := ctx.GroupService.IsMember(msg.GroupID, ctx.UserID)
	if err != nil {
		return err
	}
	if !isMember {
		return service.ErrNotMember
	}

	ctx.Hub.JoinRoom(msg.GroupID, ctx.Conn)
	return nil
}

// MessageLeaveGroup unsubscribes the connection from a group's room
type MessageLeaveGroup struct {
	GroupID uint `json:"group_id"`
}

func (msg *MessageLeaveGroup) GetType() string {
	return "leaveGroup"
}

func (msg *MessageLeaveGroup) Process(ctx *MessageContext) error {
	ctx.Hub.LeaveRoom(msg.GroupID, ctx.Conn)
	return nil
}

// MessageMarkRead acknowledges every unread message in the group for the
// connected user.
type MessageMarkRead struct {
	GroupID uint `json:"group_id"`
}

func (msg *MessageMarkRead) GetType() string {
	return "markMessagesAsRead"
}

func (msg *MessageMarkRead) Process(ctx *MessageContext) error {
	if msg.GroupID == 0 {
		return errors.New("group_id is required")
	}
	return ctx.ReadReceipts.MarkGroupRead(msg.GroupID, ctx.UserID)
}
