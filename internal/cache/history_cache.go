package cache

import (
	"fmt"
	"time"

	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

// HistoryTTL keeps cached channel pages short-lived: appends happen in the
// worker process, so staleness is bounded by the TTL rather than by
// cross-process invalidation.
const HistoryTTL = 30 * time.Second

// HistoryCache caches channel log pages keyed by query shape.
type HistoryCache struct {
	redis *RedisCache
}

func NewHistoryCache(redis *RedisCache) *HistoryCache {
	return &HistoryCache{redis: redis}
}

func historyKey(channelID uint, afterOffset *int64, limit int) string {
	after := int64(-1)
	if afterOffset != nil {
		after = *afterOffset
	}
	return fmt.Sprintf("chanlog:%d:%d:%d", channelID, after, limit)
}

// Get retrieves a cached page of channel messages
func (hc *HistoryCache) Get(channelID uint, afterOffset *int64, limit int) ([]models.Message, bool) {
	if hc == nil || hc.redis == nil {
		return nil, false
	}
	data, err := hc.redis.Get(historyKey(channelID, afterOffset, limit))
	if err != nil || data == nil {
		return nil, false
	}

	var messages []models.Message
	if err := msgpack.Unmarshal(data, &messages); err != nil {
		return nil, false
	}
	return messages, true
}

// Set caches a page of channel messages
func (hc *HistoryCache) Set(channelID uint, afterOffset *int64, limit int, messages []models.Message) error {
	if hc == nil || hc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(messages)
	if err != nil {
		return err
	}
	return hc.redis.Set(historyKey(channelID, afterOffset, limit), data, HistoryTTL)
}

// Invalidate removes every cached page for a channel
func (hc *HistoryCache) Invalidate(channelID uint) error {
	if hc == nil || hc.redis == nil {
		return nil
	}
	return hc.redis.DeletePattern(fmt.Sprintf("chanlog:%d:*", channelID))
}
