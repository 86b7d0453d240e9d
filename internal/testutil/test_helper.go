package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/models"
	"github.com/google/uuid"
)

// TestHelper provides utility functions for tests
type TestHelper struct {
	t *testing.T
}

func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// CreateTestUser creates a test user with default values
func (h *TestHelper) CreateTestUser(id uint, username, displayName string) *models.User {
	if id == 0 {
		id = 1
	}
	if username == "" {
		username = "testuser"
	}
	if displayName == "" {
		displayName = "Test User"
	}

	return &models.User{
		ID:          id,
		Username:    username,
		DisplayName: displayName,
		IsOnline:    false,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// CreateTestChannel creates a test channel with default values
func (h *TestHelper) CreateTestChannel(id uint, name string) *models.Channel {
	if id == 0 {
		id = 1
	}
	if name == "" {
		name = "general"
	}

	return &models.Channel{
		ID:        id,
		Name:      name,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// CreateTestMessage creates a test message with default values
func (h *TestHelper) CreateTestMessage(channelID, senderID uint, offset int64, content string) *models.Message {
	if channelID == 0 {
		channelID = 1
	}
	if senderID == 0 {
		senderID = 1
	}
	if content == "" {
		content = "Test message"
	}

	return &models.Message{
		ID:        uuid.NewString(),
		ChannelID: channelID,
		SenderID:  senderID,
		Content:   content,
		Offset:    offset,
		CreatedAt: time.Now(),
		Sender: models.User{
			ID:       senderID,
			Username: "sender",
		},
	}
}

// SetupTestEnv sets up required environment variables for testing
func (h *TestHelper) SetupTestEnv() {
	os.Setenv("MAX_MESSAGE_LENGTH", "4000")
	os.Setenv("QUEUE_DRIVER", "memory")
}

// TeardownTestEnv cleans up environment variables after testing
func (h *TestHelper) TeardownTestEnv() {
	os.Unsetenv("MAX_MESSAGE_LENGTH")
	os.Unsetenv("QUEUE_DRIVER")
}

// AssertError checks if an error occurred when it should (or shouldn't)
func (h *TestHelper) AssertError(err error, shouldErr bool, testName string) {
	if (err != nil) != shouldErr {
		if shouldErr {
			h.t.Errorf("%s: expected error but got nil", testName)
		} else {
			h.t.Errorf("%s: unexpected error: %v", testName, err)
		}
	}
}

// AssertEqual checks if two values are equal
func (h *TestHelper) AssertEqual(got, want interface{}, testName string) {
	if got != want {
		h.t.Errorf("%s: got %v, want %v", testName, got, want)
	}
}
