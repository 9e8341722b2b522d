package service

import (
	"errors"
	"log"

	"github.com/SathwikUK/Virtual-Study-Mugen/internal/cache"
	"github.com/SathwikUK/Virtual-Study-Mugen/internal/repository"
	"gorm.io/gorm"
)

// ReadReceiptService tracks which members have seen which messages and
// derives the per-(group, user) unread counters from the ledger. The
// counter is never stored, so a repeated mark-read is structurally a
// no-op and a new message raises every other member's counter implicitly.
type ReadReceiptService struct {
	messageRepo     repository.MessageRepositoryInterface
	messageReadRepo repository.MessageReadRepositoryInterface
	groupRepo       repository.GroupRepositoryInterface
	messageCache    *cache.MessageCache
	broadcaster     Broadcaster
}

func NewReadReceiptService(
	messageRepo repository.MessageRepositoryInterface,
	messageReadRepo repository.MessageReadRepositoryInterface,
	groupRepo repository.GroupRepositoryInterface,
	messageCache *cache.MessageCache,
	broadcaster Broadcaster,
) *ReadReceiptService {
	return &ReadReceiptService{
		messageRepo:     messageRepo,
		messageReadRepo: messageReadRepo,
		groupRepo:       groupRepo,
		messageCache:    messageCache,
		broadcaster:     broadcaster,
	}
}

// MarkGroupRead acknowledges every unread message in the group for the
// user. One messageRead event per newly-read message goes to the room so
// senders' status icons advance, and a single messagesMarkedAsRead event
// goes to the reader's own connections so other devices reset their
// counter. Calling again with nothing new to read only repeats the
// user-scoped broadcast.
func (s *ReadReceiptService) MarkGroupRead(groupID, userID uint) error {
	isMember, err := s.groupRepo.IsMember(groupID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrNotMember
	}

	unreadIDs, err := s.messageRepo.FindUnreadIDs(groupID, userID)
	if err != nil {
		return err
	}

	if len(unreadIDs) > 0 {
		if err := s.messageReadRepo.MarkRead(userID, unreadIDs); err != nil {
			return err
		}

		if err := s.messageCache.InvalidateGroupHistory(groupID); err != nil {
			log.Printf("Failed to invalidate history cache for group %d: %v", groupID, err)
		}

		for _, messageID := range unreadIDs {
			s.broadcaster.EmitToGroup(groupID, EventMessageRead, map[string]interface{}{
				"message_id": messageID,
				"read_by":    userID,
			})
		}
	}

	_ = s.messageCache.InvalidateUnreadCounts(userID)

	s.broadcaster.EmitToUser(userID, EventMessagesMarkedAsRead, map[string]interface{}{
		"group_id": groupID,
		"user_id":  userID,
	})

	return nil
}

// MessageReaders lists the user IDs that have acknowledged a message.
// Only members of the message's group may ask.
func (s *ReadReceiptService) MessageReaders(messageID, requesterID uint) ([]uint, error) {
	message, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}

	isMember, err := s.groupRepo.IsMember(message.GroupID, requesterID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotMember
	}

	return s.messageReadRepo.ListReaders(messageID)
}

// UnreadCounts returns the user's per-group unread counters, one row per
// group with at least one unread message.
func (s *ReadReceiptService) UnreadCounts(userID uint) ([]repository.UnreadCountRow, error) {
	if cached, ok := s.messageCache.GetUnreadCounts(userID); ok {
		rows := make([]repository.UnreadCountRow, 0, len(cached))
		for groupID, count := range cached {
			rows = append(rows, repository.UnreadCountRow{GroupID: groupID, Count: count})
		}
		return rows, nil
	}

	rows, err := s.messageRepo.CountUnreadByGroup(userID)
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.GroupID] = row.Count
	}
	_ = s.messageCache.SetUnreadCounts(userID, counts)

	return rows, nil
}
