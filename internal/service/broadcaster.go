package service

// Real-time event names. The names are part of the client contract.
const (
	EventNewMessage           = "newMessage"
	EventMessageEdited        = "messageEdited"
	EventMessageDeleted       = "messageDeleted"
	EventMessageRead          = "messageRead"
	EventMessagesMarkedAsRead = "messagesMarkedAsRead"
)

// Broadcaster is the real-time fan-out handle. The WebSocket hub
// implements it; services receive it injected so tests can substitute a
// recording fake. Delivery is best-effort: a failed broadcast never rolls
// back the persistence write that preceded it.
type Broadcaster interface {
	// EmitToGroup sends an event to every connection currently joined to
	// the group's room.
	EmitToGroup(groupID uint, event string, payload interface{})
	// EmitToUser sends an event to all of one user's connections,
	// regardless of room membership.
	EmitToUser(userID uint, event string, payload interface{})
}
