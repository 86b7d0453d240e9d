package service

import (
	"strings"

	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/models"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/repository"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/validation"
)

type ChannelService struct {
	channelRepo repository.ChannelRepositoryInterface
}

func NewChannelService(channelRepo repository.ChannelRepositoryInterface) *ChannelService {
	return &ChannelService{channelRepo: channelRepo}
}

// CreateChannel creates a channel and makes the creator its owner.
func (s *ChannelService) CreateChannel(name, description string, creatorID uint) (*models.Channel, error) {
	name = strings.TrimSpace(name)
	if !validation.ValidateChannelName(name) {
		return nil, ErrInvalidChannel
	}

	channel := &models.Channel{
		Name:        name,
		Description: strings.TrimSpace(description),
		IsActive:    true,
	}
	if err := s.channelRepo.Create(channel); err != nil {
		return nil, err
	}
	if err := s.channelRepo.AddMember(channel.ID, creatorID, models.RoleOwner); err != nil {
		return nil, err
	}
	return channel, nil
}

func (s *ChannelService) GetChannel(channelID uint) (*models.Channel, error) {
	return s.channelRepo.FindByID(channelID)
}

func (s *ChannelService) ListChannels() ([]models.Channel, error) {
	return s.channelRepo.ListActive()
}

func (s *ChannelService) JoinChannel(channelID, userID uint) error {
	isMember, err := s.channelRepo.IsMember(channelID, userID)
	if err != nil {
		return err
	}
	if isMember {
		return nil
	}
	return s.channelRepo.AddMember(channelID, userID, models.RoleMember)
}

func (s *ChannelService) LeaveChannel(channelID, userID uint) error {
	return s.channelRepo.RemoveMember(channelID, userID)
}

func (s *ChannelService) GetMembers(channelID uint) ([]models.User, error) {
	return s.channelRepo.GetMembers(channelID)
}

func (s *ChannelService) IsMember(channelID, userID uint) (bool, error) {
	return s.channelRepo.IsMember(channelID, userID)
}

func (s *ChannelService) GetUserChannels(userID uint) ([]models.Channel, error) {
	return s.channelRepo.GetUserChannels(userID)
}

// UserChannelIDs lists the IDs of every channel the user belongs to, used
// to scope websocket subscriptions.
func (s *ChannelService) UserChannelIDs(userID uint) ([]uint, error) {
	channels, err := s.channelRepo.GetUserChannels(userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(channels))
	for _, ch := range channels {
		ids = append(ids, ch.ID)
	}
	return ids, nil
}
