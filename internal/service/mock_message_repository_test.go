package service

import (
	"sort"

	"github.com/SathwikUK/Virtual-Study-Mugen/internal/models"
	"github.com/SathwikUK/Virtual-Study-Mugen/internal/repository"
	"gorm.io/gorm"
)

// MockMessageRepository is an in-memory implementation of
// repository.MessageRepositoryInterface for tests. It shares the group
// repository so unread counters can be scoped to memberships the same
// way the SQL join does.
type MockMessageRepository struct {
	messages map[uint]*models.Message
	groups   *MockGroupRepository
	nextID   uint
}

func NewMockMessageRepository(groups *MockGroupRepository) *MockMessageRepository {
	return &MockMessageRepository{
		messages: make(map[uint]*models.Message),
		groups:   groups,
		nextID:   1,
	}
}

func (m *MockMessageRepository) Create(message *models.Message) error {
	if message.ID == 0 {
		message.ID = m.nextID
		m.nextID++
	}
	m.messages[message.ID] = message
	return nil
}

func (m *MockMessageRepository) FindByID(id uint) (*models.Message, error) {
	if msg, ok := m.messages[id]; ok {
		return msg, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockMessageRepository) FindByClientID(clientID string, senderID uint) (*models.Message, error) {
	for _, msg := range m.messages {
		if msg.ClientID == clientID && msg.SenderID == senderID {
			return msg, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockMessageRepository) FindGroupMessages(groupID uint, page, pageSize int) ([]models.Message, error) {
	var all []models.Message
	for _, msg := range m.messages {
		if msg.GroupID == groupID {
			all = append(all, *msg)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	offset := (page - 1) * pageSize
	if offset >= len(all) {
		return []models.Message{}, nil
	}
	end := offset + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *MockMessageRepository) UpdateBody(id uint, body string) error {
	msg, ok := m.messages[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	msg.Body = body
	msg.Edited = true
	return nil
}

func (m *MockMessageRepository) Delete(id uint) error {
	delete(m.messages, id)
	return nil
}

func (m *MockMessageRepository) FindUnreadIDs(groupID, userID uint) ([]uint, error) {
	var ids []uint
	for _, msg := range m.messages {
		if msg.GroupID != groupID || msg.SenderID == userID {
			continue
		}
		if !m.hasRead(msg, userID) {
			ids = append(ids, msg.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *MockMessageRepository) CountUnreadByGroup(userID uint) ([]repository.UnreadCountRow, error) {
	counts := make(map[uint]int64)
	for _, msg := range m.messages {
		member, _ := m.groups.IsMember(msg.GroupID, userID)
		if !member || msg.SenderID == userID {
			continue
		}
		if !m.hasRead(msg, userID) {
			counts[msg.GroupID]++
		}
	}

	rows := make([]repository.UnreadCountRow, 0, len(counts))
	for gid, count := range counts {
		rows = append(rows, repository.UnreadCountRow{GroupID: gid, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].GroupID < rows[j].GroupID })
	return rows, nil
}

func (m *MockMessageRepository) hasRead(msg *models.Message, userID uint) bool {
	for _, r := range msg.ReadBy {
		if r.UserID == userID {
			return true
		}
	}
	return false
}
