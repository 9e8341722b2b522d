package service

// RecordedEvent captures a single fan-out call made by a service.
type RecordedEvent struct {
	GroupID uint
	UserID  uint
	Event   string
	Payload interface{}
}

// MockBroadcaster records every emit so tests can assert on the event
// stream instead of on connected sockets.
type MockBroadcaster struct {
	GroupEvents []RecordedEvent
	UserEvents  []RecordedEvent
}

func NewMockBroadcaster() *MockBroadcaster {
	return &MockBroadcaster{}
}

func (b *MockBroadcaster) EmitToGroup(groupID uint, event string, payload interface{}) {
	b.GroupEvents = append(b.GroupEvents, RecordedEvent{GroupID: groupID, Event: event, Payload: payload})
}

func (b *MockBroadcaster) EmitToUser(userID uint, event string, payload interface{}) {
	b.UserEvents = append(b.UserEvents, RecordedEvent{UserID: userID, Event: event, Payload: payload})
}

// groupEventNames returns the group event names in emit order.
func (b *MockBroadcaster) groupEventNames() []string {
	names := make([]string, 0, len(b.GroupEvents))
	for _, e := range b.GroupEvents {
		names = append(names, e.Event)
	}
	return names
}
