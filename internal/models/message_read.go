package models

import (
	"time"
)

// MessageRead is one read-receipt ledger row: member UserID has seen
// MessageID. Rows are insert-only; the unread counter for a (group, user)
// pair is derived by counting group messages with no matching row.
type MessageRead struct {
	MessageID uint      `gorm:"primaryKey" json:"message_id"`
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	ReadAt    time.Time `gorm:"autoCreateTime" json:"read_at"`
}
