package ws

import "context"

// MessageChat submits a chat message for a channel. The message is queued,
// not written: the client gets an accepted frame with its client_id and the
// real message arrives later as a MessageReceived broadcast.
type MessageChat struct {
	ChannelID uint   `json:"channel_id"`
	Content   string `json:"content"`
	ClientID  string `json:"client_id,omitempty"`
}

func (msg *MessageChat) GetType() string {
	return "chat"
}

func (msg *MessageChat) Process(ctx *MessageContext) error {
	clientID, err := ctx.MessageService.SubmitMessage(context.Background(), ctx.UserID, msg.ChannelID, msg.Content, msg.ClientID)
	if err != nil {
		return err
	}

	return ctx.Conn.WriteJSON(map[string]interface{}{
		"type":       "accepted",
		"client_id":  clientID,
		"channel_id": msg.ChannelID,
	})
}

// MessageRead advances the caller's seen watermark in a channel.
type MessageRead struct {
	ChannelID      uint  `json:"channel_id"`
	LastSeenOffset int64 `json:"last_seen_offset"`
}

func (msg *MessageRead) GetType() string {
	return "read"
}

func (msg *MessageRead) Process(ctx *MessageContext) error {
	return ctx.MessageService.SubmitMarkSeen(context.Background(), ctx.UserID, msg.ChannelID, msg.LastSeenOffset)
}

// MessageAck acknowledges device-level delivery of a single message.
type MessageAck struct {
	MessageID string `json:"message_id"`
}

func (msg *MessageAck) GetType() string {
	return "ack"
}

func (msg *MessageAck) Process(ctx *MessageContext) error {
	return ctx.MessageService.MarkDelivered(ctx.UserID, msg.MessageID)
}
