package repository

import (
	"github.com/SathwikUK/Virtual-Study-Mugen/internal/models"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *MessageRepository) FindByID(id uint) (*models.Message, error) {
	var message models.Message
	err := r.db.Preload("ReadBy").First(&message, id).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *MessageRepository) FindByClientID(clientID string, senderID uint) (*models.Message, error) {
	var message models.Message
	err := r.db.Preload("ReadBy").
		Where("client_id = ? AND sender_id = ?", clientID, senderID).
		First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// FindGroupMessages returns one page of a group's history in ascending
// timestamp order. Ties on created_at are broken by id so concurrent
// sends still page deterministically.
func (r *MessageRepository) FindGroupMessages(groupID uint, page, pageSize int) ([]models.Message, error) {
	if page < 1 {
		page = 1
	}
	var messages []models.Message
	err := r.db.Preload("ReadBy").
		Where("group_id = ?", groupID).
		Order("created_at ASC, id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&messages).Error
	return messages, err
}

// UpdateBody replaces the text body and latches the edited flag. The flag
// is never cleared again, even if the body is edited back to its original
// content.
func (r *MessageRepository) UpdateBody(id uint, body string) error {
	return r.db.Model(&models.Message{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"body":   body,
			"edited": true,
		}).Error
}

// Delete removes the row permanently. Read-receipt rows go with it via
// the ON DELETE CASCADE constraint.
func (r *MessageRepository) Delete(id uint) error {
	return r.db.Delete(&models.Message{}, id).Error
}

// FindUnreadIDs lists messages in the group the user has neither sent nor
// acknowledged, oldest first.
func (r *MessageRepository) FindUnreadIDs(groupID, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Message{}).
		Where("group_id = ? AND sender_id <> ?", groupID, userID).
		Where("NOT EXISTS (SELECT 1 FROM message_reads WHERE message_reads.message_id = messages.id AND message_reads.user_id = ?)", userID).
		Order("created_at ASC, id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// CountUnreadByGroup derives the per-group unread counters for a user
// across all groups they belong to. The counter is not stored anywhere;
// it is the count of ledger-less messages, so marking read and new
// arrivals update it implicitly.
func (r *MessageRepository) CountUnreadByGroup(userID uint) ([]UnreadCountRow, error) {
	var rows []UnreadCountRow
	err := r.db.Raw(`
		SELECT m.group_id AS group_id, COUNT(*) AS count
		FROM messages m
		JOIN group_members gm ON gm.group_id = m.group_id AND gm.user_id = ?
		WHERE m.sender_id <> ?
		  AND NOT EXISTS (
			SELECT 1 FROM message_reads mr
			WHERE mr.message_id = m.id AND mr.user_id = ?
		  )
		GROUP BY m.group_id
	`, userID, userID, userID).Scan(&rows).Error
	return rows, err
}
