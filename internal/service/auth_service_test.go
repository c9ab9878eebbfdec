package service_test

import (
	"context"
	"os"
	"testing"

	"github.com/arjunm/vidstream-backend/internal/domain"
	"github.com/arjunm/vidstream-backend/internal/repository/postgres"
	"github.com/arjunm/vidstream-backend/internal/service"
	"github.com/arjunm/vidstream-backend/internal/testutil"
	"github.com/arjunm/vidstream-backend/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type authFixture struct {
	db       *testutil.TestDB
	auth     *service.AuthService
	uploader *testutil.FakeUploader
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	uploader := testutil.NewFakeUploader()
	tokens := token.NewManager(cfg)

	return &authFixture{
		db:       testDB,
		auth:     service.NewAuthService(repos.User, repos.MediaAsset, tokens, uploader),
		uploader: uploader,
	}
}

func stagedFile(t *testing.T) string {
	t.Helper()
	f, err := os.CreateTemp("", "upload-*.png")
	require.NoError(t, err)
	_, err = f.WriteString("fake image bytes")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	t.Cleanup(func() { os.Remove(f.Name()) })
	return f.Name()
}

func TestAuthService_Register(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   func() service.RegisterInput
		setup   func(t *testing.T)
		wantErr error
		check   func(t *testing.T, user *domain.User)
	}{
		{
			name: "successful registration lowercases identifiers",
			input: func() service.RegisterInput {
				return service.RegisterInput{
					Username:   "Alice",
					Email:      "Alice@X.com",
					FullName:   "Alice A",
					Password:   "pw123",
					AvatarPath: stagedFile(t),
				}
			},
			check: func(t *testing.T, user *domain.User) {
				assert.Equal(t, "alice", user.Username)
				assert.Equal(t, "alice@x.com", user.Email)
				assert.NotEmpty(t, user.Avatar)
				assert.Empty(t, user.CoverImage)
				assert.NotEqual(t, "pw123", user.PasswordHash)
				assert.True(t, user.CheckPassword("pw123"))
			},
		},
		{
			name: "blank field rejected",
			input: func() service.RegisterInput {
				return service.RegisterInput{
					Username:   "bob",
					Email:      "   ",
					FullName:   "Bob B",
					Password:   "pw123",
					AvatarPath: stagedFile(t),
				}
			},
			wantErr: service.ErrFieldsRequired,
		},
		{
			name: "duplicate username",
			input: func() service.RegisterInput {
				return service.RegisterInput{
					Username:   "existing",
					Email:      "new@example.com",
					FullName:   "New User",
					Password:   "pw123",
					AvatarPath: stagedFile(t),
				}
			},
			setup: func(t *testing.T) {
				testutil.NewUserBuilder().WithUsername("existing").Build(t, fx.db.DB)
			},
			wantErr: service.ErrUserExists,
		},
		{
			name: "duplicate email",
			input: func() service.RegisterInput {
				return service.RegisterInput{
					Username:   "brandnew",
					Email:      "taken@example.com",
					FullName:   "New User",
					Password:   "pw123",
					AvatarPath: stagedFile(t),
				}
			},
			setup: func(t *testing.T) {
				testutil.NewUserBuilder().WithEmail("taken@example.com").Build(t, fx.db.DB)
			},
			wantErr: service.ErrUserExists,
		},
		{
			name: "missing avatar",
			input: func() service.RegisterInput {
				return service.RegisterInput{
					Username: "noavatar",
					Email:    "noavatar@example.com",
					FullName: "No Avatar",
					Password: "pw123",
				}
			},
			wantErr: service.ErrAvatarRequired,
		},
		{
			name: "avatar upload failure",
			input: func() service.RegisterInput {
				return service.RegisterInput{
					Username:   "failavatar",
					Email:      "failavatar@example.com",
					FullName:   "Fail Avatar",
					Password:   "pw123",
					AvatarPath: stagedFile(t),
				}
			},
			setup: func(t *testing.T) {
				fx.uploader.FailNext()
			},
			wantErr: service.ErrAvatarRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx.db.Truncate(t)

			if tt.setup != nil {
				tt.setup(t)
			}

			user, err := fx.auth.Register(ctx, tt.input())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, user)
			if tt.check != nil {
				tt.check(t, user)
			}
		})
	}
}

func TestAuthService_RegisterFailedValidationCreatesNoRecord(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, err := fx.auth.Register(ctx, service.RegisterInput{
		Username:   "ghost",
		Email:      "",
		FullName:   "Ghost",
		Password:   "pw123",
		AvatarPath: stagedFile(t),
	})
	require.ErrorIs(t, err, service.ErrFieldsRequired)

	repos := postgres.NewRepositories(fx.db.DB)
	_, err = repos.User.GetByUsernameOrEmail(ctx, "ghost", "ghost@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAuthService_RegisterCoverImageIsOptional(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	user, err := fx.auth.Register(ctx, service.RegisterInput{
		Username:       "withcover",
		Email:          "withcover@example.com",
		FullName:       "With Cover",
		Password:       "pw123",
		AvatarPath:     stagedFile(t),
		CoverImagePath: stagedFile(t),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.CoverImage)

	// Absent cover image is not an error.
	user, err = fx.auth.Register(ctx, service.RegisterInput{
		Username:   "nocover",
		Email:      "nocover@example.com",
		FullName:   "No Cover",
		Password:   "pw123",
		AvatarPath: stagedFile(t),
	})
	require.NoError(t, err)
	assert.Empty(t, user.CoverImage)
}

func TestAuthService_RegisterCoverUploadFailureTolerated(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	coverPath := stagedFile(t)
	fx.uploader.FailPath(coverPath)

	user, err := fx.auth.Register(ctx, service.RegisterInput{
		Username:       "covertolerant",
		Email:          "covertolerant@example.com",
		FullName:       "Cover Tolerant",
		Password:       "pw123",
		AvatarPath:     stagedFile(t),
		CoverImagePath: coverPath,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.Avatar)
	assert.Empty(t, user.CoverImage)
}

func TestAuthService_Login(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().
		WithUsername("loginuser").
		WithEmail("loginuser@example.com").
		WithPassword("correctpassword").
		Build(t, fx.db.DB)

	tests := []struct {
		name    string
		input   service.LoginInput
		wantErr error
	}{
		{
			name:  "login by username",
			input: service.LoginInput{Username: user.Username, Password: rawPassword},
		},
		{
			name:  "login by email",
			input: service.LoginInput{Email: user.Email, Password: rawPassword},
		},
		{
			name:    "neither identifier given",
			input:   service.LoginInput{Password: rawPassword},
			wantErr: service.ErrFieldsRequired,
		},
		{
			name:    "wrong password",
			input:   service.LoginInput{Username: user.Username, Password: "wrongpassword"},
			wantErr: service.ErrInvalidCredentials,
		},
		{
			name:    "non-existent user",
			input:   service.LoginInput{Username: "nonexistent", Password: "anypassword"},
			wantErr: service.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := fx.auth.Login(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, result.AccessToken)
			assert.NotEmpty(t, result.RefreshToken)

			// The returned refresh token equals the value stored on the record.
			repos := postgres.NewRepositories(fx.db.DB)
			stored, err := repos.User.GetByID(ctx, user.ID)
			require.NoError(t, err)
			require.NotNil(t, stored.RefreshToken)
			assert.Equal(t, result.RefreshToken, *stored.RefreshToken)
		})
	}
}

func TestAuthService_RefreshRotation(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().
		WithUsername("refresher").
		WithPassword("pw123").
		Build(t, fx.db.DB)

	first, err := fx.auth.Login(ctx, service.LoginInput{Username: user.Username, Password: "pw123"})
	require.NoError(t, err)

	// Valid refresh rotates the pair and persists the new token.
	second, err := fx.auth.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	repos := postgres.NewRepositories(fx.db.DB)
	stored, err := repos.User.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, second.RefreshToken, *stored.RefreshToken)

	// The superseded token still has a valid signature and expiry but is
	// rejected because it no longer matches the stored value.
	_, err = fx.auth.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidRefreshToken)
}

func TestAuthService_RefreshRejectsGarbageToken(t *testing.T) {
	fx := newAuthFixture(t)

	_, err := fx.auth.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, service.ErrInvalidRefreshToken)
}

func TestAuthService_LogoutInvalidatesRefreshToken(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().
		WithUsername("logoutuser").
		WithPassword("pw123").
		Build(t, fx.db.DB)

	result, err := fx.auth.Login(ctx, service.LoginInput{Username: user.Username, Password: "pw123"})
	require.NoError(t, err)

	require.NoError(t, fx.auth.Logout(ctx, user.ID))

	repos := postgres.NewRepositories(fx.db.DB)
	stored, err := repos.User.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.RefreshToken)

	// The pre-logout token is rejected even though it hasn't expired.
	_, err = fx.auth.Refresh(ctx, result.RefreshToken)
	assert.ErrorIs(t, err, service.ErrInvalidRefreshToken)
}

func TestAuthService_ChangePassword(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().
		WithUsername("pwchanger").
		WithPassword("oldpassword").
		Build(t, fx.db.DB)

	repos := postgres.NewRepositories(fx.db.DB)

	// Wrong old password leaves the stored hash unchanged.
	before, err := repos.User.GetByID(ctx, user.ID)
	require.NoError(t, err)
	err = fx.auth.ChangePassword(ctx, user.ID, "wrongold", "newpassword")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	after, err := repos.User.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)

	// Correct old password: only the new plaintext verifies afterwards.
	require.NoError(t, fx.auth.ChangePassword(ctx, user.ID, "oldpassword", "newpassword"))
	after, err = repos.User.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, after.CheckPassword("oldpassword"))
	assert.True(t, after.CheckPassword("newpassword"))
}

func TestAuthService_ChangePasswordRejectsBlankNewPassword(t *testing.T) {
	fx := newAuthFixture(t)

	user, _ := testutil.NewUserBuilder().
		WithUsername("blankpw").
		WithPassword("oldpassword").
		Build(t, fx.db.DB)

	err := fx.auth.ChangePassword(context.Background(), user.ID, "oldpassword", "   ")
	assert.ErrorIs(t, err, service.ErrFieldsRequired)
}
