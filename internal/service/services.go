package service

import (
	"github.com/arjunm/vidstream-backend/internal/media"
	"github.com/arjunm/vidstream-backend/internal/repository"
	"github.com/arjunm/vidstream-backend/internal/token"
)

type Services struct {
	Auth *AuthService
	User *UserService
}

func NewServices(repos *repository.Repositories, tokens *token.Manager, uploader media.Uploader) *Services {
	return &Services{
		Auth: NewAuthService(repos.User, repos.MediaAsset, tokens, uploader),
		User: NewUserService(repos.User, repos.MediaAsset, uploader),
	}
}
