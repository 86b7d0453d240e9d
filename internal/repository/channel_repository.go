package repository

import (
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/models"
	"gorm.io/gorm"
)

type ChannelRepository struct {
	db *gorm.DB
}

func NewChannelRepository(db *gorm.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

func (r *ChannelRepository) Create(channel *models.Channel) error {
	return r.db.Create(channel).Error
}

func (r *ChannelRepository) FindByID(id uint) (*models.Channel, error) {
	var channel models.Channel
	if err := r.db.First(&channel, id).Error; err != nil {
		return nil, err
	}
	return &channel, nil
}

func (r *ChannelRepository) ListActive() ([]models.Channel, error) {
	var channels []models.Channel
	err := r.db.Where("is_active = ?", true).Find(&channels).Error
	return channels, err
}

func (r *ChannelRepository) AddMember(channelID, userID uint, role models.ChannelRole) error {
	member := models.ChannelMember{
		ChannelID: channelID,
		UserID:    userID,
		Role:      role,
	}
	return r.db.Create(&member).Error
}

func (r *ChannelRepository) RemoveMember(channelID, userID uint) error {
	return r.db.Where("channel_id = ? AND user_id = ?", channelID, userID).
		Delete(&models.ChannelMember{}).Error
}

func (r *ChannelRepository) GetMembers(channelID uint) ([]models.User, error) {
	var members []models.User
	err := r.db.Joins("JOIN channel_members ON channel_members.user_id = users.id").
		Where("channel_members.channel_id = ?", channelID).
		Find(&members).Error
	return members, err
}

func (r *ChannelRepository) IsMember(channelID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.ChannelMember{}).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *ChannelRepository) GetUserChannels(userID uint) ([]models.Channel, error) {
	var channels []models.Channel
	err := r.db.Joins("JOIN channel_members ON channel_members.channel_id = channels.id").
		Where("channel_members.user_id = ?", userID).
		Find(&channels).Error
	return channels, err
}
