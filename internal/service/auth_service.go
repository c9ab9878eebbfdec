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
	"github.com/arjunm/vidstream-backend/internal/token"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrFieldsRequired      = errors.New("all fields are required")
	ErrUserExists          = errors.New("user with username or email already exists")
	ErrUserNotFound        = errors.New("user does not exist")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAvatarRequired      = errors.New("avatar file is required")
	ErrInvalidRefreshToken = errors.New("refresh token is expired or used")
)

type AuthService struct {
	userRepo  repository.UserRepository
	mediaRepo repository.MediaAssetRepository
	tokens    *token.Manager
	uploader  media.Uploader
}

func NewAuthService(userRepo repository.UserRepository, mediaRepo repository.MediaAssetRepository, tokens *token.Manager, uploader media.Uploader) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		mediaRepo: mediaRepo,
		tokens:    tokens,
		uploader:  uploader,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string

	// Locally staged upload paths. AvatarPath is mandatory, CoverImagePath
	// may be empty.
	AvatarPath     string
	CoverImagePath string
}

type LoginInput struct {
	Username string
	Email    string
	Password string
}

type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	username := domain.NormalizeIdentifier(input.Username)
	email := domain.NormalizeIdentifier(input.Email)
	fullName := strings.TrimSpace(input.FullName)

	if username == "" || email == "" || fullName == "" || strings.TrimSpace(input.Password) == "" {
		return nil, ErrFieldsRequired
	}

	existing, err := s.userRepo.GetByUsernameOrEmail(ctx, username, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	if input.AvatarPath == "" {
		return nil, ErrAvatarRequired
	}
	avatar, err := s.uploader.Upload(ctx, input.AvatarPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAvatarRequired, err)
	}

	// Cover image is optional; a failed upload leaves it empty rather than
	// failing registration.
	var cover *media.Asset
	if input.CoverImagePath != "" {
		cover, err = s.uploader.Upload(ctx, input.CoverImagePath)
		if err != nil {
			log.Printf("WARN [AuthService.Register] cover image upload failed: %v", err)
			cover = nil
		}
	}

	user := &domain.User{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		FullName:  fullName,
		Avatar:    avatar.URL,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if cover != nil {
		user.CoverImage = cover.URL
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.recordAsset(ctx, user.ID, domain.MediaKindAvatar, avatar)
	if cover != nil {
		s.recordAsset(ctx, user.ID, domain.MediaKindCover, cover)
	}

	created, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("something went wrong while registering the user: %w", err)
	}
	return created, nil
}

// Login accepts either identifier: a username, an email, or both. Requiring
// both would contradict the OR lookup below, so the laxer policy is the
// deliberate one.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	username := domain.NormalizeIdentifier(input.Username)
	email := domain.NormalizeIdentifier(input.Email)

	if username == "" && email == "" {
		return nil, fmt.Errorf("%w: username or email", ErrFieldsRequired)
	}

	user, err := s.userRepo.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !user.CheckPassword(input.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokenPair(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.UpdateRefreshToken(ctx, userID, nil)
}

// Refresh rotates the token pair. The presented token must match the value
// stored on the user record exactly; once a later login or refresh has
// superseded it, the old token is rejected even while its signature and
// expiry are still valid.
func (s *AuthService) Refresh(ctx context.Context, presented string) (*AuthResult, error) {
	userID, err := s.tokens.VerifyRefreshToken(presented)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrInvalidRefreshToken)
	}

	if user.RefreshToken == nil || *user.RefreshToken != presented {
		return nil, ErrInvalidRefreshToken
	}

	return s.issueTokenPair(ctx, user)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return ErrFieldsRequired
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !user.CheckPassword(oldPassword) {
		return ErrInvalidCredentials
	}

	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, userID, user.PasswordHash)
}

func (s *AuthService) issueTokenPair(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		return nil, err
	}
	user.RefreshToken = &refreshToken

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) recordAsset(ctx context.Context, userID uuid.UUID, kind domain.MediaKind, asset *media.Asset) {
	record := &domain.MediaAsset{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      kind,
		URL:       asset.URL,
		Metadata:  datatypes.JSON(asset.Raw),
		CreatedAt: time.Now(),
	}
	if err := s.mediaRepo.Create(ctx, record); err != nil {
		log.Printf("WARN [AuthService] failed to record %s asset for user %s: %v", kind, userID, err)
	}
}
