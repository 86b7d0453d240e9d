package service

import (
	"context"
	"strings"
	"time"

	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/cache"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/models"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/queue"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/repository"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/validation"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// MessageService validates chat commands before they enter the queue and
// serves reads directly from the channel log. Writes never touch the log
// here: they are enqueued and applied by the ingestion worker.
type MessageService struct {
	messageRepo  repository.MessageRepositoryInterface
	deliveryRepo repository.DeliveryStatusRepositoryInterface
	channelRepo  repository.ChannelRepositoryInterface
	commandQueue queue.Queue
	historyCache *cache.HistoryCache
}

func NewMessageService(
	messageRepo repository.MessageRepositoryInterface,
	deliveryRepo repository.DeliveryStatusRepositoryInterface,
	channelRepo repository.ChannelRepositoryInterface,
	commandQueue queue.Queue,
	historyCache *cache.HistoryCache,
) *MessageService {
	return &MessageService{
		messageRepo:  messageRepo,
		deliveryRepo: deliveryRepo,
		channelRepo:  channelRepo,
		commandQueue: commandQueue,
		historyCache: historyCache,
	}
}

// SubmitMessage validates a send command and enqueues it. The returned
// client ID lets the caller correlate the eventual MessageReceived event.
func (s *MessageService) SubmitMessage(ctx context.Context, senderID, channelID uint, content, clientID string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrEmptyContent
	}
	if len(content) > validation.MaxMessageLength() {
		return "", ErrContentTooLong
	}

	isMember, err := s.channelRepo.IsMember(channelID, senderID)
	if err != nil {
		return "", err
	}
	if !isMember {
		return "", ErrNotChannelMember
	}

	if clientID == "" {
		clientID = uuid.NewString()
	}
	cmd := &queue.SendMessage{
		ChannelID:  channelID,
		SenderID:   senderID,
		Content:    content,
		ClientID:   clientID,
		EnqueuedAt: time.Now().UTC(),
	}
	if err := s.commandQueue.Enqueue(ctx, cmd); err != nil {
		return "", err
	}
	return clientID, nil
}

// SubmitMarkSeen validates a read receipt and enqueues it.
func (s *MessageService) SubmitMarkSeen(ctx context.Context, userID, channelID uint, lastSeenOffset int64) error {
	if lastSeenOffset < 0 {
		return ErrInvalidOffset
	}

	isMember, err := s.channelRepo.IsMember(channelID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrNotChannelMember
	}

	return s.commandQueue.Enqueue(ctx, &queue.MarkSeen{
		ChannelID:      channelID,
		UserID:         userID,
		LastSeenOffset: lastSeenOffset,
		EnqueuedAt:     time.Now().UTC(),
	})
}

// GetChannelMessages returns a page of the channel log in offset order.
func (s *MessageService) GetChannelMessages(channelID uint, afterOffset *int64, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	if cached, ok := s.historyCache.Get(channelID, afterOffset, limit); ok {
		return cached, nil
	}

	messages, err := s.messageRepo.Query(channelID, afterOffset, limit)
	if err != nil {
		return nil, err
	}
	// Cache failures never fail a read
	_ = s.historyCache.Set(channelID, afterOffset, limit, messages)
	return messages, nil
}

func (s *MessageService) GetMessage(messageID string) (*models.Message, error) {
	return s.messageRepo.FindByID(messageID)
}

// DeleteMessage soft-deletes a message. The row keeps its offset so that
// seen watermarks over the channel stay correct.
func (s *MessageService) DeleteMessage(messageID string) error {
	message, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		return err
	}
	if err := s.messageRepo.SoftDelete(messageID); err != nil {
		return err
	}
	return s.historyCache.Invalidate(message.ChannelID)
}

// MarkDelivered records a device-level delivery acknowledgment directly,
// bypassing the queue: acks are idempotent and carry no ordering needs.
func (s *MessageService) MarkDelivered(userID uint, messageID string) error {
	return s.deliveryRepo.MarkDelivered(userID, messageID)
}

func (s *MessageService) DeliveryStatuses(messageID string) ([]models.DeliveryStatus, error) {
	return s.deliveryRepo.ListForMessage(messageID)
}

func (s *MessageService) LastSeenOffset(userID, channelID uint) (*int64, error) {
	return s.deliveryRepo.LastSeenOffset(userID, channelID)
}

func (s *MessageService) LatestOffset(channelID uint) (int64, error) {
	return s.messageRepo.LatestOffset(channelID)
}

// QueueDepth reports how many commands are waiting for the worker.
func (s *MessageService) QueueDepth(ctx context.Context) (int64, error) {
	return s.commandQueue.Length(ctx)
}
