package repository

import (
	"github.com/SathwikUK/Virtual-Study-Mugen/internal/models"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	FindByEmail(email string) (*models.User, error)
	FindByID(id uint) (*models.User, error)
	Update(user *models.User) error
}

// GroupRepositoryInterface defines the contract for group repository operations
type GroupRepositoryInterface interface {
	Create(group *models.Group) error
	FindByID(id uint) (*models.Group, error)
	Update(group *models.Group) error
	AddMember(groupID, userID uint) error
	RemoveMember(groupID, userID uint) error
	GetMembers(groupID uint) ([]models.User, error)
	GetMemberIDs(groupID uint) ([]uint, error)
	IsMember(groupID, userID uint) (bool, error)
	GetUserGroups(userID uint) ([]models.Group, error)
}

// UnreadCountRow is one per-group unread counter for a user.
type UnreadCountRow struct {
	GroupID uint  `json:"group_id"`
	Count   int64 `json:"count"`
}

// MessageRepositoryInterface defines the contract for message repository operations
type MessageRepositoryInterface interface {
	Create(message *models.Message) error
	FindByID(id uint) (*models.Message, error)
	FindByClientID(clientID string, senderID uint) (*models.Message, error)
	FindGroupMessages(groupID uint, page, pageSize int) ([]models.Message, error)
	UpdateBody(id uint, body string) error
	Delete(id uint) error
	FindUnreadIDs(groupID, userID uint) ([]uint, error)
	CountUnreadByGroup(userID uint) ([]UnreadCountRow, error)
}

// MessageReadRepositoryInterface defines the contract for the read-receipt ledger
type MessageReadRepositoryInterface interface {
	MarkRead(userID uint, messageIDs []uint) error
	ListReaders(messageID uint) ([]uint, error)
}
