package repository

import (
	"time"

	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Append assigns the next offset for the channel and persists the message.
// The offset comes from an atomic UPDATE ... RETURNING on the channel row,
// so no two appends can observe the same offset even with multiple worker
// processes; the row lock serializes appends within a channel. Running the
// increment and the insert in one transaction means a failed insert rolls
// the counter back instead of burning the offset.
func (r *MessageRepository) Append(channelID uint, draft MessageDraft) (*models.Message, error) {
	message := &models.Message{
		ID:        uuid.NewString(),
		ChannelID: channelID,
		SenderID:  draft.SenderID,
		Content:   draft.Content,
		CreatedAt: time.Now().UTC(),
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var next int64
		res := tx.Raw(
			`UPDATE channels SET last_offset = last_offset + 1, updated_at = NOW() WHERE id = ? RETURNING last_offset`,
			channelID,
		).Scan(&next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		message.Offset = next
		return tx.Create(message).Error
	})
	if err != nil {
		return nil, err
	}
	return message, nil
}

func (r *MessageRepository) FindByID(id string) (*models.Message, error) {
	var message models.Message
	err := r.db.Preload("Sender").Where("id = ?", id).First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// Query returns messages with offset > afterOffset (or all when nil),
// ascending by offset. Soft-deleted messages are excluded from results but
// their offsets are never reused or renumbered.
func (r *MessageRepository) Query(channelID uint, afterOffset *int64, limit int) ([]models.Message, error) {
	var messages []models.Message
	q := r.db.Preload("Sender").
		Where("channel_id = ? AND is_deleted = ?", channelID, false)
	if afterOffset != nil {
		q = q.Where(`"offset" > ?`, *afterOffset)
	}
	err := q.Order(`"offset" ASC`).Limit(limit).Find(&messages).Error
	return messages, err
}

// SoftDelete flips the delete flag. Offset and channel position are
// preserved so offset-based watermarks stay valid.
func (r *MessageRepository) SoftDelete(id string) error {
	return r.db.Model(&models.Message{}).Where("id = ?", id).
		Update("is_deleted", true).Error
}

// LatestOffset reports the channel's offset watermark (0 when empty).
func (r *MessageRepository) LatestOffset(channelID uint) (int64, error) {
	var channel models.Channel
	if err := r.db.Select("last_offset").First(&channel, channelID).Error; err != nil {
		return 0, err
	}
	return channel.LastOffset, nil
}
