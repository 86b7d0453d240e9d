package ws

import (
	"context"
	"encoding/json"

	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/fanout"
)

// StartBridge subscribes the hub to the fan-out backplane so that events
// published by any worker process reach the connections this server holds.
func StartBridge(ctx context.Context, sub fanout.Subscriber, hub *Hub) error {
	return sub.Subscribe(ctx, func(event fanout.Event) {
		hub.BroadcastToChannel(event.ChannelID, map[string]interface{}{
			"type":       event.Event,
			"channel_id": event.ChannelID,
			"payload":    json.RawMessage(event.Payload),
		})
	})
}
