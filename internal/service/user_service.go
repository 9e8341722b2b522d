package service

import (
	"errors"

	"github.com/SathwikUK/Virtual-Study-Mugen/internal/models"
	"github.com/SathwikUK/Virtual-Study-Mugen/internal/repository"
	"github.com/SathwikUK/Virtual-Study-Mugen/internal/validation"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo repository.UserRepositoryInterface
}

func NewUserService(userRepo repository.UserRepositoryInterface) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetProfile(userID uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateProfile(userID uint, name string) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	name = validation.TrimAndLimit(name, 100)
	if name == "" {
		return nil, errors.New("name is required")
	}
	user.Name = name

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
