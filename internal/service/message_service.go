package service

import (
	"encoding/base64"
	"errors"
	"log"

	"github.com/SathwikUK/Virtual-Study-Mugen/internal/cache"
	"github.com/SathwikUK/Virtual-Study-Mugen/internal/models"
	"github.com/SathwikUK/Virtual-Study-Mugen/internal/repository"
	"github.com/SathwikUK/Virtual-Study-Mugen/internal/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageService owns the message lifecycle: send, edit, delete, history.
// Membership is re-checked against the repository on every send; nothing
// about the group is cached here.
type MessageService struct {
	messageRepo  repository.MessageRepositoryInterface
	groupRepo    repository.GroupRepositoryInterface
	userRepo     repository.UserRepositoryInterface
	messageCache *cache.MessageCache
	broadcaster  Broadcaster
}

func NewMessageService(
	messageRepo repository.MessageRepositoryInterface,
	groupRepo repository.GroupRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	messageCache *cache.MessageCache,
	broadcaster Broadcaster,
) *MessageService {
	return &MessageService{
		messageRepo:  messageRepo,
		groupRepo:    groupRepo,
		userRepo:     userRepo,
		messageCache: messageCache,
		broadcaster:  broadcaster,
	}
}

type FileInput struct {
	Data        string `json:"data"` // base64
	ContentType string `json:"content_type"`
	FileName    string `json:"file_name"`
}

type SendMessageInput struct {
	GroupID  uint       `json:"group_id"`
	ClientID string     `json:"client_id"`
	Body     string     `json:"body"`
	File     *FileInput `json:"file"`
}

// SendMessage validates, persists, and fans out a new message. The
// persisted message is returned synchronously; the sender also receives
// the room broadcast and reconciles by client_id.
func (s *MessageService) SendMessage(senderID uint, input SendMessageInput) (*models.Message, error) {
	sender, err := s.userRepo.FindByID(senderID)
	if err != nil {
		return nil, ErrSenderNotFound
	}

	if _, err := s.groupRepo.FindByID(input.GroupID); err != nil {
		return nil, ErrGroupNotFound
	}

	isMember, err := s.groupRepo.IsMember(input.GroupID, senderID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotMember
	}

	body := validation.TrimAndLimit(input.Body, validation.MaxMessageLength())
	if body == "" && input.File == nil {
		return nil, ErrEmptyMessage
	}

	var fileData []byte
	var fileName, fileContentType string
	if input.File != nil {
		fileData, err = base64.StdEncoding.DecodeString(input.File.Data)
		if err != nil || len(fileData) == 0 {
			return nil, ErrEmptyMessage
		}
		fileName = input.File.FileName
		fileContentType = input.File.ContentType
	}

	clientID := input.ClientID
	if clientID == "" {
		clientID = uuid.NewString()
	} else if existing, err := s.messageRepo.FindByClientID(clientID, senderID); err == nil {
		// Duplicate delivery of the same send request; return the
		// original without persisting or broadcasting again.
		return existing, nil
	}

	message := &models.Message{
		ClientID:        clientID,
		GroupID:         input.GroupID,
		SenderID:        senderID,
		SenderName:      sender.Name,
		Body:            body,
		FileData:        fileData,
		FileName:        fileName,
		FileContentType: fileContentType,
	}

	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}

	if err := s.messageCache.InvalidateGroupHistory(input.GroupID); err != nil {
		log.Printf("Failed to invalidate history cache for group %d: %v", input.GroupID, err)
	}
	s.invalidateMemberUnreadCounts(input.GroupID, senderID)

	s.broadcaster.EmitToGroup(input.GroupID, EventNewMessage, message.ToResponse())

	return message, nil
}

// EditMessage replaces the text body. Only the original sender may edit;
// the file payload, sender, and timestamp are immutable.
func (s *MessageService) EditMessage(messageID, editorID uint, newBody string) (*models.Message, error) {
	message, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	if message.SenderID != editorID {
		return nil, ErrNotSender
	}

	newBody = validation.TrimAndLimit(newBody, validation.MaxMessageLength())
	if newBody == "" {
		return nil, ErrEmptyMessage
	}

	if err := s.messageRepo.UpdateBody(messageID, newBody); err != nil {
		return nil, err
	}

	updated, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		return nil, err
	}

	if err := s.messageCache.InvalidateGroupHistory(updated.GroupID); err != nil {
		log.Printf("Failed to invalidate history cache for group %d: %v", updated.GroupID, err)
	}

	s.broadcaster.EmitToGroup(updated.GroupID, EventMessageEdited, updated.ToResponse())

	return updated, nil
}

// DeleteMessage removes the message permanently and tells connected
// clients to evict it. Only the original sender may delete.
func (s *MessageService) DeleteMessage(messageID, requesterID uint) error {
	message, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		return err
	}
	if message.SenderID != requesterID {
		return ErrNotSender
	}

	if err := s.messageRepo.Delete(messageID); err != nil {
		return err
	}

	if err := s.messageCache.InvalidateGroupHistory(message.GroupID); err != nil {
		log.Printf("Failed to invalidate history cache for group %d: %v", message.GroupID, err)
	}
	s.invalidateMemberUnreadCounts(message.GroupID, 0)

	s.broadcaster.EmitToGroup(message.GroupID, EventMessageDeleted, map[string]interface{}{
		"message_id": messageID,
		"group_id":   message.GroupID,
	})

	return nil
}

// GroupMessages returns one page of history, ascending by timestamp, with
// the derived read status filled in for each message. The first page is
// served from cache when possible.
func (s *MessageService) GroupMessages(groupID uint, page, pageSize int) ([]models.MessageResponse, error) {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 50
	}
	if page < 1 {
		page = 1
	}

	if _, err := s.groupRepo.FindByID(groupID); err != nil {
		return nil, ErrGroupNotFound
	}

	var messages []models.Message
	var err error
	if page == 1 {
		if cached, ok := s.messageCache.GetGroupHistory(groupID); ok {
			messages = cachedHistoryPage(cached, pageSize)
		}
	}
	if messages == nil {
		messages, err = s.messageRepo.FindGroupMessages(groupID, page, pageSize)
		if err != nil {
			return nil, err
		}
		if page == 1 && len(messages) > 0 {
			_ = s.messageCache.SetGroupHistory(groupID, messages)
		}
	}

	memberIDs, err := s.groupRepo.GetMemberIDs(groupID)
	if err != nil {
		return nil, err
	}

	responses := make([]models.MessageResponse, 0, len(messages))
	for _, msg := range messages {
		resp := msg.ToResponse()
		resp.Status = models.DeriveReadStatus(len(resp.ReadBy), len(memberIDs)-1)
		responses = append(responses, resp)
	}
	return responses, nil
}

// cachedHistoryPage serves a first page from the cached slice only when
// the cache can fully satisfy the requested size. A shorter cached slice
// is a miss, not the end of history: it may have been stored by a caller
// with a smaller page size, and returning it short would read as
// end-of-history to a caller asking for more.
func cachedHistoryPage(cached []models.Message, pageSize int) []models.Message {
	if len(cached) < pageSize {
		return nil
	}
	return cached[:pageSize]
}

// invalidateMemberUnreadCounts drops the cached unread counters for every
// member except skipID, since the derived counters just changed.
func (s *MessageService) invalidateMemberUnreadCounts(groupID, skipID uint) {
	memberIDs, err := s.groupRepo.GetMemberIDs(groupID)
	if err != nil {
		log.Printf("Failed to list members of group %d: %v", groupID, err)
		return
	}
	for _, id := range memberIDs {
		if id == skipID {
			continue
		}
		_ = s.messageCache.InvalidateUnreadCounts(id)
	}
}
