package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type MediaKind string

const (
	MediaKindAvatar MediaKind = "avatar"
	MediaKindCover  MediaKind = "cover"
)

// MediaAsset records each successful upload to the media host, keeping the
// provider's raw response for later auditing (public id, dimensions, format).
type MediaAsset struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID      `json:"userId" gorm:"type:uuid;not null;index"`
	Kind      MediaKind      `json:"kind" gorm:"not null"`
	URL       string         `json:"url" gorm:"not null"`
	Metadata  datatypes.JSON `json:"metadata" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"createdAt"`
}
