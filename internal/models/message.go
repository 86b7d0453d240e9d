package models

import (
	"time"
)

// Message is one entry in a channel's append-only log. The offset is
// assigned by the log store at persistence time, never by the submitter,
// and is strictly increasing per channel. Once written, ID, ChannelID and
// Offset are immutable; soft deletion only flips IsDeleted.
type Message struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ChannelID uint      `gorm:"not null;uniqueIndex:idx_channel_offset;index" json:"channel_id"`
	SenderID  uint      `gorm:"not null;index" json:"sender_id"`
	Sender    User      `gorm:"foreignKey:SenderID" json:"-"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Offset    int64     `gorm:"column:offset;not null;uniqueIndex:idx_channel_offset" json:"offset"`
	CreatedAt time.Time `json:"created_at"`
	IsDeleted bool      `gorm:"default:false" json:"is_deleted"`
}

// MessageResponse is the outgoing payload shape, shared by the HTTP API
// and the MessageReceived fan-out event.
type MessageResponse struct {
	ID         string    `json:"message_id"`
	ChannelID  uint      `json:"channel_id"`
	SenderID   uint      `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	Offset     int64     `json:"offset"`
	CreatedAt  time.Time `json:"created_at"`
}

// SenderName resolves the display name from a preloaded Sender, falling
// back to the username and then a placeholder for deleted accounts.
func (m *Message) SenderName() string {
	if m.Sender.DisplayName != "" {
		return m.Sender.DisplayName
	}
	if m.Sender.Username != "" {
		return m.Sender.Username
	}
	return "Unknown"
}

func (m *Message) ToResponse(senderName string) MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		ChannelID:  m.ChannelID,
		SenderID:   m.SenderID,
		SenderName: senderName,
		Content:    m.Content,
		Offset:     m.Offset,
		CreatedAt:  m.CreatedAt,
	}
}
