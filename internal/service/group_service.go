package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SathwikUK/Virtual-Study-Mugen/internal/models"
	"github.com/SathwikUK/Virtual-Study-Mugen/internal/repository"
	"github.com/SathwikUK/Virtual-Study-Mugen/internal/storage"
	"github.com/SathwikUK/Virtual-Study-Mugen/internal/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrStorageNotConfigured = errors.New("storage not configured")

// GroupService resolves membership for the messaging workflow and owns
// the group CRUD surface around it.
type GroupService struct {
	groupRepo repository.GroupRepositoryInterface
	userRepo  repository.UserRepositoryInterface
	s3        *storage.S3Storage
}

func NewGroupService(
	groupRepo repository.GroupRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	s3 *storage.S3Storage,
) *GroupService {
	return &GroupService{
		groupRepo: groupRepo,
		userRepo:  userRepo,
		s3:        s3,
	}
}

// CreateGroup creates a group with the creator as its first member.
func (s *GroupService) CreateGroup(name, description string, creatorID uint) (*models.Group, error) {
	if !validation.ValidateGroupName(name) {
		return nil, errors.New("invalid group name")
	}
	if _, err := s.userRepo.FindByID(creatorID); err != nil {
		return nil, ErrUserNotFound
	}

	group := &models.Group{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		CreatorID:   creatorID,
	}

	if err := s.groupRepo.Create(group); err != nil {
		return nil, err
	}

	if err := s.groupRepo.AddMember(group.ID, creatorID); err != nil {
		return nil, err
	}

	return s.groupRepo.FindByID(group.ID)
}

func (s *GroupService) JoinGroup(groupID, userID uint) error {
	if _, err := s.groupRepo.FindByID(groupID); err != nil {
		return ErrGroupNotFound
	}
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return ErrUserNotFound
	}

	isMember, err := s.groupRepo.IsMember(groupID, userID)
	if err != nil {
		return err
	}
	if isMember {
		return ErrAlreadyMember
	}

	return s.groupRepo.AddMember(groupID, userID)
}

func (s *GroupService) LeaveGroup(groupID, userID uint) error {
	return s.groupRepo.RemoveMember(groupID, userID)
}

// IsMember is a pure lookup; the messaging core calls it on every send so
// membership is always current.
func (s *GroupService) IsMember(groupID, userID uint) (bool, error) {
	return s.groupRepo.IsMember(groupID, userID)
}

func (s *GroupService) GetGroup(groupID uint) (*models.Group, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return group, nil
}

func (s *GroupService) GetGroupMembers(groupID uint) ([]models.User, error) {
	return s.groupRepo.GetMembers(groupID)
}

func (s *GroupService) GetUserGroups(userID uint) ([]models.Group, error) {
	return s.groupRepo.GetUserGroups(userID)
}

// UploadGroupImage normalizes the uploaded image to a bounded JPEG and
// stores it in object storage, replacing any previous image object after
// the DB update succeeds.
func (s *GroupService) UploadGroupImage(ctx context.Context, groupID, uploaderID uint, fileReader io.Reader, publicAPIBaseURL string) (*models.Group, error) {
	if s.s3 == nil {
		return nil, ErrStorageNotConfigured
	}
	publicAPIBaseURL = strings.TrimRight(strings.TrimSpace(publicAPIBaseURL), "/")
	if publicAPIBaseURL == "" {
		return nil, errors.New("missing public api base url")
	}

	group, err := s.GetGroup(groupID)
	if err != nil {
		return nil, err
	}

	isMember, err := s.groupRepo.IsMember(groupID, uploaderID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrNotMember
	}

	jpegBytes, contentType, outSize, err := storage.ProcessGroupImage(fileReader, storage.DefaultGroupImageOptions())
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("groups/%d/%s.jpg", groupID, uuid.NewString())
	if _, err := s.s3.PutObject(ctx, key, bytes.NewReader(jpegBytes), outSize, contentType); err != nil {
		return nil, err
	}

	oldKey := strings.TrimSpace(group.ImageKey)

	group.Image = publicAPIBaseURL + "/api/media/" + key
	group.ImageKey = key

	if err := s.groupRepo.Update(group); err != nil {
		// Avoid an orphan object if the DB update failed.
		_ = s.s3.DeleteObject(ctx, key)
		return nil, err
	}

	if oldKey != "" && oldKey != key {
		_ = s.s3.DeleteObject(ctx, oldKey)
	}

	return group, nil
}
