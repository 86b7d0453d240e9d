package repository

import (
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/models"
)

// MessageDraft carries the submitter-controlled fields of a message.
// Identity, offset and timestamp are assigned by the log store on append.
type MessageDraft struct {
	SenderID uint
	Content  string
}

// MessageRepositoryInterface is the channel log store: a durable,
// append-only per-channel message sequence with monotonic offsets.
type MessageRepositoryInterface interface {
	Append(channelID uint, draft MessageDraft) (*models.Message, error)
	FindByID(id string) (*models.Message, error)
	Query(channelID uint, afterOffset *int64, limit int) ([]models.Message, error)
	SoftDelete(id string) error
	LatestOffset(channelID uint) (int64, error)
}

// DeliveryStatusRepositoryInterface is the delivery tracker. All mark
// operations are idempotent: timestamps are set at most once and replays
// never regress state.
type DeliveryStatusRepositoryInterface interface {
	MarkDelivered(userID uint, messageID string) error
	MarkSeen(userID uint, messageID string) error
	MarkSeenUpTo(userID, channelID uint, offset int64) error
	LastSeenOffset(userID, channelID uint) (*int64, error)
	ListForMessage(messageID string) ([]models.DeliveryStatus, error)
}

// ChannelRepositoryInterface covers channel CRUD and doubles as the
// membership oracle consulted before commands are admitted to the queue.
type ChannelRepositoryInterface interface {
	Create(channel *models.Channel) error
	FindByID(id uint) (*models.Channel, error)
	ListActive() ([]models.Channel, error)
	AddMember(channelID, userID uint, role models.ChannelRole) error
	RemoveMember(channelID, userID uint) error
	GetMembers(channelID uint) ([]models.User, error)
	IsMember(channelID, userID uint) (bool, error)
	GetUserChannels(userID uint) ([]models.Channel, error)
}

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	FindByID(id uint) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	List(limit int) ([]models.User, error)
	UpdateOnlineStatus(userID uint, isOnline bool) error
}
