package service

import (
	"time"

	"github.com/SathwikUK/Virtual-Study-Mugen/internal/models"
)

// MockMessageReadRepository writes receipt rows straight onto the shared
// message store so derived statuses and unread queries observe them, the
// same way the SQL ledger table does.
type MockMessageReadRepository struct {
	messages *MockMessageRepository
}

func NewMockMessageReadRepository(messages *MockMessageRepository) *MockMessageReadRepository {
	return &MockMessageReadRepository{messages: messages}
}

func (m *MockMessageReadRepository) MarkRead(userID uint, messageIDs []uint) error {
	for _, id := range messageIDs {
		msg, ok := m.messages.messages[id]
		if !ok {
			continue
		}
		// ON CONFLICT DO NOTHING
		if m.messages.hasRead(msg, userID) {
			continue
		}
		msg.ReadBy = append(msg.ReadBy, models.MessageRead{
			MessageID: id,
			UserID:    userID,
			ReadAt:    time.Now(),
		})
	}
	return nil
}

func (m *MockMessageReadRepository) ListReaders(messageID uint) ([]uint, error) {
	var out []uint
	if msg, ok := m.messages.messages[messageID]; ok {
		for _, r := range msg.ReadBy {
			out = append(out, r.UserID)
		}
	}
	return out, nil
}
