package models

import (
	"time"
)

type ChannelRole string

const (
	RoleOwner  ChannelRole = "owner"
	RoleAdmin  ChannelRole = "admin"
	RoleMember ChannelRole = "member"
)

type Channel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	// LastOffset is the channel's offset watermark: the highest offset
	// assigned to a persisted message. Incremented atomically by the log
	// store; 0 means no messages yet.
	LastOffset int64 `gorm:"not null;default:0" json:"last_offset"`

	Members []ChannelMember `gorm:"foreignKey:ChannelID" json:"members,omitempty"`
}

type ChannelMember struct {
	ChannelID uint        `gorm:"primaryKey" json:"channel_id"`
	UserID    uint        `gorm:"primaryKey" json:"user_id"`
	Role      ChannelRole `gorm:"type:varchar(20);default:'member'" json:"role"`
	JoinedAt  time.Time   `gorm:"autoCreateTime" json:"joined_at"`

	User    User    `gorm:"foreignKey:UserID" json:"user"`
	Channel Channel `gorm:"foreignKey:ChannelID" json:"-"`
}

type ChannelResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	LastOffset  int64     `json:"last_offset"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c *Channel) ToResponse() ChannelResponse {
	return ChannelResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		LastOffset:  c.LastOffset,
		CreatedAt:   c.CreatedAt,
	}
}
