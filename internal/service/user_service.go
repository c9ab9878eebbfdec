package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/arjunm/vidstream-backend/internal/domain"
	"github.com/arjunm/vidstream-backend/internal/media"
	"github.com/arjunm/vidstream-backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrCoverImageRequired = errors.New("cover image file is required")

type UserService struct {
	userRepo  repository.UserRepository
	mediaRepo repository.MediaAssetRepository
	uploader  media.Uploader
}

func NewUserService(userRepo repository.UserRepository, mediaRepo repository.MediaAssetRepository, uploader media.Uploader) *UserService {
	return &UserService{
		userRepo:  userRepo,
		mediaRepo: mediaRepo,
		uploader:  uploader,
	}
}

func (s *UserService) GetCurrent(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

type UpdateAccountInput struct {
	FullName string
	Email    string
}

func (s *UserService) UpdateAccount(ctx context.Context, userID uuid.UUID, input UpdateAccountInput) (*domain.User, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := domain.NormalizeIdentifier(input.Email)
	if fullName == "" || email == "" {
		return nil, ErrFieldsRequired
	}

	user, err := s.GetCurrent(ctx, userID)
	if err != nil {
		return nil, err
	}

	if email != user.Email {
		existing, err := s.userRepo.GetByUsernameOrEmail(ctx, "", email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != userID {
			return nil, ErrUserExists
		}
	}

	user.FullName = fullName
	user.Email = email
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID uuid.UUID, localPath string) (*domain.User, error) {
	if localPath == "" {
		return nil, ErrAvatarRequired
	}
	return s.replaceImage(ctx, userID, domain.MediaKindAvatar, localPath)
}

func (s *UserService) UpdateCoverImage(ctx context.Context, userID uuid.UUID, localPath string) (*domain.User, error) {
	if localPath == "" {
		return nil, ErrCoverImageRequired
	}
	return s.replaceImage(ctx, userID, domain.MediaKindCover, localPath)
}

func (s *UserService) replaceImage(ctx context.Context, userID uuid.UUID, kind domain.MediaKind, localPath string) (*domain.User, error) {
	user, err := s.GetCurrent(ctx, userID)
	if err != nil {
		return nil, err
	}

	asset, err := s.uploader.Upload(ctx, localPath)
	if err != nil {
		sentinel := ErrAvatarRequired
		if kind == domain.MediaKindCover {
			sentinel = ErrCoverImageRequired
		}
		return nil, fmt.Errorf("%w: %v", sentinel, err)
	}

	switch kind {
	case domain.MediaKindAvatar:
		user.Avatar = asset.URL
	case domain.MediaKindCover:
		user.CoverImage = asset.URL
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	record := &domain.MediaAsset{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      kind,
		URL:       asset.URL,
		Metadata:  datatypes.JSON(asset.Raw),
		CreatedAt: time.Now(),
	}
	if err := s.mediaRepo.Create(ctx, record); err != nil {
		log.Printf("WARN [UserService] failed to record %s asset for user %s: %v", kind, userID, err)
	}

	return user, nil
}
