package repository

import (
	"context"

	"github.com/arjunm/vidstream-backend/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// GetByUsernameOrEmail matches either identifier in a single query.
	// Callers pass normalized (lowercased, trimmed) values.
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error

	// Narrow single-column updates. These deliberately bypass the full user
	// record so a credential mutation never touches profile fields.
	UpdateRefreshToken(ctx context.Context, id uuid.UUID, refreshToken *string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type MediaAssetRepository interface {
	Create(ctx context.Context, asset *domain.MediaAsset) error
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.MediaAsset, error)
}

type Repositories struct {
	User       UserRepository
	MediaAsset MediaAssetRepository
}
