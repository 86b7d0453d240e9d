package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/models"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/queue"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/repository"
)

// MockChannelRepository is the membership oracle for service tests.
type MockChannelRepository struct {
	channels map[uint]*models.Channel
	members  map[string]models.ChannelRole
	nextID   uint
}

func NewMockChannelRepository() *MockChannelRepository {
	return &MockChannelRepository{
		channels: make(map[uint]*models.Channel),
		members:  make(map[string]models.ChannelRole),
		nextID:   1,
	}
}

func memberKey(channelID, userID uint) string {
	return fmt.Sprintf("%d:%d", channelID, userID)
}

func (m *MockChannelRepository) Create(channel *models.Channel) error {
	if channel.ID == 0 {
		channel.ID = m.nextID
		m.nextID++
	}
	m.channels[channel.ID] = channel
	return nil
}

func (m *MockChannelRepository) FindByID(id uint) (*models.Channel, error) {
	if ch, ok := m.channels[id]; ok {
		return ch, nil
	}
	return nil, errors.New("record not found")
}

func (m *MockChannelRepository) ListActive() ([]models.Channel, error) {
	var result []models.Channel
	for _, ch := range m.channels {
		if ch.IsActive {
			result = append(result, *ch)
		}
	}
	return result, nil
}

func (m *MockChannelRepository) AddMember(channelID, userID uint, role models.ChannelRole) error {
	m.members[memberKey(channelID, userID)] = role
	return nil
}

func (m *MockChannelRepository) RemoveMember(channelID, userID uint) error {
	delete(m.members, memberKey(channelID, userID))
	return nil
}

func (m *MockChannelRepository) GetMembers(channelID uint) ([]models.User, error) {
	return nil, nil
}

func (m *MockChannelRepository) IsMember(channelID, userID uint) (bool, error) {
	_, ok := m.members[memberKey(channelID, userID)]
	return ok, nil
}

func (m *MockChannelRepository) GetUserChannels(userID uint) ([]models.Channel, error) {
	var result []models.Channel
	for _, ch := range m.channels {
		if _, ok := m.members[memberKey(ch.ID, userID)]; ok {
			result = append(result, *ch)
		}
	}
	return result, nil
}

// MockLogRepository is a minimal channel log for read-path tests.
type MockLogRepository struct {
	messages []models.Message
}

func (m *MockLogRepository) Append(channelID uint, draft repository.MessageDraft) (*models.Message, error) {
	return nil, errors.New("not supported in service tests")
}

func (m *MockLogRepository) FindByID(id string) (*models.Message, error) {
	for i := range m.messages {
		if m.messages[i].ID == id {
			return &m.messages[i], nil
		}
	}
	return nil, errors.New("record not found")
}

func (m *MockLogRepository) Query(channelID uint, afterOffset *int64, limit int) ([]models.Message, error) {
	var result []models.Message
	for _, msg := range m.messages {
		if msg.ChannelID != channelID || msg.IsDeleted {
			continue
		}
		if afterOffset != nil && msg.Offset <= *afterOffset {
			continue
		}
		result = append(result, msg)
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (m *MockLogRepository) SoftDelete(id string) error {
	for i := range m.messages {
		if m.messages[i].ID == id {
			m.messages[i].IsDeleted = true
			return nil
		}
	}
	return errors.New("record not found")
}

func (m *MockLogRepository) LatestOffset(channelID uint) (int64, error) {
	var max int64
	for _, msg := range m.messages {
		if msg.ChannelID == channelID && msg.Offset > max {
			max = msg.Offset
		}
	}
	return max, nil
}

type MockDeliveryRepository struct{}

func (m *MockDeliveryRepository) MarkDelivered(userID uint, messageID string) error { return nil }
func (m *MockDeliveryRepository) MarkSeen(userID uint, messageID string) error      { return nil }
func (m *MockDeliveryRepository) MarkSeenUpTo(userID, channelID uint, offset int64) error {
	return nil
}
func (m *MockDeliveryRepository) LastSeenOffset(userID, channelID uint) (*int64, error) {
	return nil, nil
}
func (m *MockDeliveryRepository) ListForMessage(messageID string) ([]models.DeliveryStatus, error) {
	return nil, nil
}

func newTestMessageService() (*MessageService, *MockChannelRepository, *MockLogRepository, *queue.MemoryQueue) {
	channelRepo := NewMockChannelRepository()
	logRepo := &MockLogRepository{}
	q := queue.NewMemoryQueue()
	svc := NewMessageService(logRepo, &MockDeliveryRepository{}, channelRepo, q, nil)
	return svc, channelRepo, logRepo, q
}

func TestSubmitMessage(t *testing.T) {
	tests := []struct {
		name     string
		senderID uint
		member   bool
		content  string
		wantErr  error
	}{
		{"member sends message", 1, true, "hello", nil},
		{"non-member is rejected", 2, false, "hello", ErrNotChannelMember},
		{"empty content", 1, true, "", ErrEmptyContent},
		{"whitespace only content", 1, true, "   \n\t ", ErrEmptyContent},
		{"content too long", 1, true, strings.Repeat("x", 4001), ErrContentTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, channelRepo, _, q := newTestMessageService()
			if tt.member {
				channelRepo.AddMember(1, tt.senderID, models.RoleMember)
			}

			clientID, err := svc.SubmitMessage(context.Background(), tt.senderID, 1, tt.content, "")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SubmitMessage error = %v, want %v", err, tt.wantErr)
			}

			length, _ := q.Length(context.Background())
			if tt.wantErr != nil {
				// A rejected command must never reach the queue
				if length != 0 {
					t.Errorf("queue length = %d, want 0", length)
				}
				return
			}

			if clientID == "" {
				t.Error("expected a generated client ID")
			}
			if length != 1 {
				t.Fatalf("queue length = %d, want 1", length)
			}
			cmd, _ := q.Dequeue(context.Background(), queue.KindSendMessage)
			send := cmd.(queue.SendMessage)
			if send.Content != strings.TrimSpace(tt.content) || send.SenderID != tt.senderID || send.ChannelID != 1 {
				t.Errorf("enqueued = %+v", send)
			}
		})
	}
}

func TestSubmitMessageKeepsClientID(t *testing.T) {
	svc, channelRepo, _, q := newTestMessageService()
	channelRepo.AddMember(1, 1, models.RoleMember)

	clientID, err := svc.SubmitMessage(context.Background(), 1, 1, "hi", "client-77")
	if err != nil {
		t.Fatalf("SubmitMessage error: %v", err)
	}
	if clientID != "client-77" {
		t.Errorf("clientID = %q, want %q", clientID, "client-77")
	}

	cmd, _ := q.Dequeue(context.Background(), queue.KindSendMessage)
	if cmd.(queue.SendMessage).ClientID != "client-77" {
		t.Errorf("enqueued ClientID = %q", cmd.(queue.SendMessage).ClientID)
	}
}

func TestSubmitMarkSeen(t *testing.T) {
	tests := []struct {
		name    string
		userID  uint
		member  bool
		offset  int64
		wantErr error
	}{
		{"member marks seen", 1, true, 10, nil},
		{"zero offset is valid", 1, true, 0, nil},
		{"negative offset", 1, true, -1, ErrInvalidOffset},
		{"non-member is rejected", 2, false, 10, ErrNotChannelMember},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, channelRepo, _, q := newTestMessageService()
			if tt.member {
				channelRepo.AddMember(1, tt.userID, models.RoleMember)
			}

			err := svc.SubmitMarkSeen(context.Background(), tt.userID, 1, tt.offset)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SubmitMarkSeen error = %v, want %v", err, tt.wantErr)
			}

			length, _ := q.Length(context.Background())
			wantLength := int64(0)
			if tt.wantErr == nil {
				wantLength = 1
			}
			if length != wantLength {
				t.Errorf("queue length = %d, want %d", length, wantLength)
			}
		})
	}
}

func TestGetChannelMessagesPaging(t *testing.T) {
	svc, _, logRepo, _ := newTestMessageService()
	for i := int64(1); i <= 120; i++ {
		logRepo.messages = append(logRepo.messages, models.Message{
			ID:        fmt.Sprintf("msg-%d", i),
			ChannelID: 1,
			Offset:    i,
			Content:   "m",
		})
	}

	tests := []struct {
		name        string
		afterOffset *int64
		limit       int
		wantCount   int
		wantFirst   int64
	}{
		{"default limit", nil, 0, 50, 1},
		{"explicit limit", nil, 10, 10, 1},
		{"limit capped", nil, 500, 100, 1},
		{"after offset", int64Ptr(100), 0, 20, 101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages, err := svc.GetChannelMessages(1, tt.afterOffset, tt.limit)
			if err != nil {
				t.Fatalf("GetChannelMessages error: %v", err)
			}
			if len(messages) != tt.wantCount {
				t.Fatalf("got %d messages, want %d", len(messages), tt.wantCount)
			}
			if messages[0].Offset != tt.wantFirst {
				t.Errorf("first offset = %d, want %d", messages[0].Offset, tt.wantFirst)
			}
		})
	}
}

func TestDeleteMessageExcludesFromQuery(t *testing.T) {
	svc, _, logRepo, _ := newTestMessageService()
	logRepo.messages = []models.Message{
		{ID: "msg-1", ChannelID: 1, Offset: 1, Content: "keep"},
		{ID: "msg-2", ChannelID: 1, Offset: 2, Content: "remove"},
	}

	if err := svc.DeleteMessage("msg-2"); err != nil {
		t.Fatalf("DeleteMessage error: %v", err)
	}

	messages, _ := svc.GetChannelMessages(1, nil, 10)
	if len(messages) != 1 || messages[0].ID != "msg-1" {
		t.Errorf("messages after delete = %+v", messages)
	}

	// Offset stays assigned to the deleted row
	latest, _ := svc.LatestOffset(1)
	if latest != 2 {
		t.Errorf("LatestOffset = %d, want 2", latest)
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}
