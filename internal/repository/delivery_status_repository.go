package repository

import (
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/models"
	"gorm.io/gorm"
)

type DeliveryStatusRepository struct {
	db *gorm.DB
}

func NewDeliveryStatusRepository(db *gorm.DB) *DeliveryStatusRepository {
	return &DeliveryStatusRepository{db: db}
}

// MarkDelivered sets delivered_at only if it is still unset.
func (r *DeliveryStatusRepository) MarkDelivered(userID uint, messageID string) error {
	return r.db.Exec(`
		INSERT INTO delivery_statuses (user_id, message_id, delivered_at)
		VALUES (?, ?, NOW())
		ON CONFLICT (user_id, message_id) DO UPDATE
		SET delivered_at = COALESCE(delivery_statuses.delivered_at, EXCLUDED.delivered_at)
	`, userID, messageID).Error
}

// MarkSeen sets seen_at only if unset and backfills delivered_at: a seen
// message is always delivered.
func (r *DeliveryStatusRepository) MarkSeen(userID uint, messageID string) error {
	return r.db.Exec(`
		INSERT INTO delivery_statuses (user_id, message_id, delivered_at, seen_at)
		VALUES (?, ?, NOW(), NOW())
		ON CONFLICT (user_id, message_id) DO UPDATE
		SET delivered_at = COALESCE(delivery_statuses.delivered_at, EXCLUDED.delivered_at),
			seen_at = COALESCE(delivery_statuses.seen_at, EXCLUDED.seen_at)
	`, userID, messageID).Error
}

// MarkSeenUpTo marks every message in the channel with offset <= the
// watermark as seen for the user, in one set-based statement. Soft-deleted
// messages still count toward the watermark. Re-running with an equal or
// lower offset is a no-op: COALESCE keeps existing timestamps.
func (r *DeliveryStatusRepository) MarkSeenUpTo(userID, channelID uint, offset int64) error {
	return r.db.Exec(`
		INSERT INTO delivery_statuses (user_id, message_id, delivered_at, seen_at)
		SELECT ?, m.id, NOW(), NOW()
		FROM messages m
		WHERE m.channel_id = ? AND m."offset" <= ?
		ON CONFLICT (user_id, message_id) DO UPDATE
		SET delivered_at = COALESCE(delivery_statuses.delivered_at, EXCLUDED.delivered_at),
			seen_at = COALESCE(delivery_statuses.seen_at, EXCLUDED.seen_at)
	`, userID, channelID, offset).Error
}

// LastSeenOffset returns the highest offset among the user's seen messages
// in the channel, or nil when nothing has been seen.
func (r *DeliveryStatusRepository) LastSeenOffset(userID, channelID uint) (*int64, error) {
	var result struct {
		MaxOffset *int64
	}
	err := r.db.Raw(`
		SELECT MAX(m."offset") AS max_offset
		FROM delivery_statuses ds
		JOIN messages m ON m.id = ds.message_id
		WHERE ds.user_id = ? AND m.channel_id = ? AND ds.seen_at IS NOT NULL
	`, userID, channelID).Scan(&result).Error
	if err != nil {
		return nil, err
	}
	return result.MaxOffset, nil
}

func (r *DeliveryStatusRepository) ListForMessage(messageID string) ([]models.DeliveryStatus, error) {
	var statuses []models.DeliveryStatus
	err := r.db.Where("message_id = ?", messageID).Find(&statuses).Error
	return statuses, err
}
