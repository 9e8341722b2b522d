package repository

import (
	"github.com/SathwikUK/Virtual-Study-Mugen/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MessageReadRepository struct {
	db *gorm.DB
}

func NewMessageReadRepository(db *gorm.DB) *MessageReadRepository {
	return &MessageReadRepository{db: db}
}

// MarkRead inserts ledger rows for every listed message. Conflicts are
// ignored, so re-acknowledging an already-read message is a no-op and
// the whole call is idempotent.
func (r *MessageReadRepository) MarkRead(userID uint, messageIDs []uint) error {
	if len(messageIDs) == 0 {
		return nil
	}
	rows := make([]models.MessageRead, 0, len(messageIDs))
	for _, id := range messageIDs {
		rows = append(rows, models.MessageRead{MessageID: id, UserID: userID})
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *MessageReadRepository) ListReaders(messageID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.MessageRead{}).
		Where("message_id = ?", messageID).
		Pluck("user_id", &ids).Error
	return ids, err
}
