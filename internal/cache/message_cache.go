package cache

import (
	"fmt"
	"time"

	"github.com/SathwikUK/Virtual-Study-Mugen/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

// TTL constants for different cache types
const (
	HistoryTTL     = 5 * time.Minute
	UnreadCountTTL = 1 * time.Minute
)

// MessageCache handles chat history and unread-counter caching. All
// methods are nil-receiver safe so the app keeps working when Redis is
// down or not configured.
type MessageCache struct {
	redis *RedisCache
}

// NewMessageCache creates a new message cache
func NewMessageCache(redis *RedisCache) *MessageCache {
	return &MessageCache{redis: redis}
}

func historyKey(groupID uint) string {
	return fmt.Sprintf("group:%d:history", groupID)
}

func unreadKey(userID uint) string {
	return fmt.Sprintf("unread:%d", userID)
}

// GetGroupHistory retrieves the cached first history page for a group
func (mc *MessageCache) GetGroupHistory(groupID uint) ([]models.Message, bool) {
	if mc == nil || mc.redis == nil {
		return nil, false
	}
	data, err := mc.redis.Get(historyKey(groupID))
	if err != nil || data == nil {
		return nil, false
	}

	var messages []models.Message
	if err := msgpack.Unmarshal(data, &messages); err != nil {
		return nil, false
	}

	return messages, true
}

// SetGroupHistory caches the first history page for a group
func (mc *MessageCache) SetGroupHistory(groupID uint, messages []models.Message) error {
	if mc == nil || mc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(messages)
	if err != nil {
		return err
	}

	return mc.redis.Set(historyKey(groupID), data, HistoryTTL)
}

// InvalidateGroupHistory removes a group's cached history page
func (mc *MessageCache) InvalidateGroupHistory(groupID uint) error {
	if mc == nil || mc.redis == nil {
		return nil
	}
	return mc.redis.Delete(historyKey(groupID))
}

// GetUnreadCounts retrieves cached per-group unread counters for a user
func (mc *MessageCache) GetUnreadCounts(userID uint) (map[uint]int64, bool) {
	if mc == nil || mc.redis == nil {
		return nil, false
	}
	data, err := mc.redis.Get(unreadKey(userID))
	if err != nil || data == nil {
		return nil, false
	}

	var counts map[uint]int64
	if err := msgpack.Unmarshal(data, &counts); err != nil {
		return nil, false
	}

	return counts, true
}

// SetUnreadCounts caches per-group unread counters for a user
func (mc *MessageCache) SetUnreadCounts(userID uint, counts map[uint]int64) error {
	if mc == nil || mc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(counts)
	if err != nil {
		return err
	}

	return mc.redis.Set(unreadKey(userID), data, UnreadCountTTL)
}

// InvalidateUnreadCounts removes a user's cached unread counters
func (mc *MessageCache) InvalidateUnreadCounts(userID uint) error {
	if mc == nil || mc.redis == nil {
		return nil
	}
	return mc.redis.Delete(unreadKey(userID))
}
