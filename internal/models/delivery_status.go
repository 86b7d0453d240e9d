package models

import (
	"time"
)

// DeliveryStatus tracks per-(user, message) acknowledgment state.
// Delivered means the message reached a client process; seen means the
// user observed it. Both timestamps are set at most once and never move
// backward: seen implies delivered.
type DeliveryStatus struct {
	UserID      uint       `gorm:"primaryKey" json:"user_id"`
	MessageID   string     `gorm:"type:varchar(36);primaryKey" json:"message_id"`
	DeliveredAt *time.Time `json:"delivered_at"`
	SeenAt      *time.Time `json:"seen_at"`
}
