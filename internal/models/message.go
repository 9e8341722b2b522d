package models

import (
	"encoding/base64"
	"time"
)

// ReadStatus is the derived per-message read state shown to the sender.
type ReadStatus string

const (
	StatusSent      ReadStatus = "sent"
	StatusDelivered ReadStatus = "delivered"
	StatusRead      ReadStatus = "read"
)

// DeriveReadStatus computes the display status from the number of members
// (excluding the sender) who have read the message. Transitions are
// monotonic: readerCount only grows, so the status never moves backwards.
func DeriveReadStatus(readerCount, otherMembers int) ReadStatus {
	if otherMembers > 0 && readerCount >= otherMembers {
		return StatusRead
	}
	if readerCount > 0 {
		return StatusDelivered
	}
	return StatusSent
}

// Message is a group chat message. The text body is editable and the row
// is hard-deletable; everything else is immutable after creation.
// There is deliberately no soft-delete column: a deleted message is gone.
type Message struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Client-supplied UUID so receivers can deduplicate their own echo.
	ClientID string `gorm:"type:varchar(36);uniqueIndex:idx_client_sender;not null" json:"client_id"`

	GroupID  uint  `gorm:"not null;index" json:"group_id"`
	Group    Group `gorm:"foreignKey:GroupID" json:"-"`
	SenderID uint  `gorm:"not null;uniqueIndex:idx_client_sender;index" json:"sender_id"`
	Sender   User  `gorm:"foreignKey:SenderID" json:"-"`

	// Captured at send time so history still renders a name after the
	// sender leaves or is renamed.
	SenderName string `gorm:"size:100;not null" json:"sender_name"`

	Body            string `gorm:"type:text" json:"body"`
	FileData        []byte `gorm:"type:bytea" json:"-"`
	FileName        string `json:"file_name,omitempty"`
	FileContentType string `json:"file_content_type,omitempty"`

	Edited bool `gorm:"not null;default:false" json:"edited"`

	ReadBy []MessageRead `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"read_by"`
}

// HasFile reports whether the message carries an attachment.
func (m *Message) HasFile() bool {
	return len(m.FileData) > 0
}

// FilePayload is the transport form of an attachment: raw bytes encoded
// as base64 so the same shape works over JSON REST and WebSocket frames.
type FilePayload struct {
	Data        string `json:"data"`
	ContentType string `json:"content_type"`
	FileName    string `json:"file_name"`
}

type MessageResponse struct {
	ID         uint         `json:"id"`
	ClientID   string       `json:"client_id"`
	GroupID    uint         `json:"group_id"`
	SenderID   uint         `json:"sender_id"`
	SenderName string       `json:"sender_name"`
	Body       string       `json:"body"`
	File       *FilePayload `json:"file,omitempty"`
	Edited     bool         `json:"edited"`
	CreatedAt  time.Time    `json:"created_at"`
	ReadBy     []uint       `json:"read_by"`
	Status     ReadStatus   `json:"status,omitempty"`
}

func (m *Message) ToResponse() MessageResponse {
	resp := MessageResponse{
		ID:         m.ID,
		ClientID:   m.ClientID,
		GroupID:    m.GroupID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Body:       m.Body,
		Edited:     m.Edited,
		CreatedAt:  m.CreatedAt,
		ReadBy:     make([]uint, 0, len(m.ReadBy)),
	}
	for _, r := range m.ReadBy {
		resp.ReadBy = append(resp.ReadBy, r.UserID)
	}
	if m.HasFile() {
		resp.File = &FilePayload{
			Data:        base64.StdEncoding.EncodeToString(m.FileData),
			ContentType: m.FileContentType,
			FileName:    m.FileName,
		}
	}
	return resp
}
