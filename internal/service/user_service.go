package service

import (
	"strings"

	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/models"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/repository"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepositoryInterface
}

func NewUserService(userRepo repository.UserRepositoryInterface) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) CreateUser(username, displayName string) (*models.User, error) {
	username = validation.NormalizeUsername(username)
	if !validation.ValidateUsername(username) {
		return nil, ErrInvalidUsername
	}

	user := &models.User{
		Username:    username,
		DisplayName: strings.TrimSpace(displayName),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(userID uint) (*models.User, error) {
	return s.userRepo.FindByID(userID)
}

func (s *UserService) GetUserByUsername(username string) (*models.User, error) {
	return s.userRepo.FindByUsername(username)
}

func (s *UserService) ListUsers() ([]models.User, error) {
	return s.userRepo.List(100)
}
