package fanout

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// Event names published on channel topics.
const (
	EventMessageReceived = "MessageReceived"
	EventMessageSeen     = "MessageSeen"
)

// Event is the wire shape broadcast to every process serving a channel's
// live connections. JSON-encoded so any gateway process can decode it.
type Event struct {
	ChannelID uint            `json:"channel_id"`
	Event     string          `json:"event"`
	Payload   json.RawMessage `json:"payload"`
}

// MessageSeenPayload is the payload for MessageSeen events. MessageReceived
// events carry models.MessageResponse.
type MessageSeenPayload struct {
	UserID         uint      `json:"user_id"`
	ChannelID      uint      `json:"channel_id"`
	LastSeenOffset int64     `json:"last_seen_offset"`
	SeenAt         time.Time `json:"seen_at"`
}

// Publisher delivers confirmed events to the processes subscribed to a
// channel's topic. This is a notification path, not the durability path:
// delivery is best-effort and a failed publish must never fail the
// persistence step that preceded it.
type Publisher interface {
	Publish(ctx context.Context, channelID uint, event string, payload interface{}) error
}

// Subscriber receives events for all channel topics. The gateway filters
// by its own local subscriptions.
type Subscriber interface {
	Subscribe(ctx context.Context, handler func(Event)) error
}

// NewEvent builds the wire envelope for a channel-scoped event.
func NewEvent(channelID uint, event string, payload interface{}) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{ChannelID: channelID, Event: event, Payload: data}, nil
}

// NoopPublisher is used when no broker is configured: every publish
// degrades to a logged no-op so persistence never depends on a broker
// being reachable.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, channelID uint, event string, payload interface{}) error {
	log.Printf("fanout: no broker configured, dropping %s for channel %d", event, channelID)
	return nil
}
