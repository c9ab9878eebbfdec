package token_test

import (
	"testing"
	"time"

	"github.com/arjunm/vidstream-backend/internal/config"
	"github.com/arjunm/vidstream-backend/internal/domain"
	"github.com/arjunm/vidstream-backend/internal/token"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AccessTokenSecret:  "access-secret-for-tests",
		RefreshTokenSecret: "refresh-secret-for-tests",
		AccessTokenTTL:     time.Minute,
		RefreshTokenTTL:    time.Hour,
	}
}

func testUser() *domain.User {
	return &domain.User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "alice@x.com",
		FullName: "Alice A",
	}
}

func TestManager_AccessTokenRoundTrip(t *testing.T) {
	m := token.NewManager(testConfig())
	user := testUser()

	signed, err := m.IssueAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := m.VerifyAccessToken(signed)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@x.com", claims.Email)
	assert.Equal(t, "Alice A", claims.FullName)
}

func TestManager_RefreshTokenRoundTrip(t *testing.T) {
	m := token.NewManager(testConfig())
	userID := uuid.New()

	signed, err := m.IssueRefreshToken(userID)
	require.NoError(t, err)

	got, err := m.VerifyRefreshToken(signed)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestManager_SecretsAreIndependent(t *testing.T) {
	m := token.NewManager(testConfig())
	user := testUser()

	access, err := m.IssueAccessToken(user)
	require.NoError(t, err)
	refresh, err := m.IssueRefreshToken(user.ID)
	require.NoError(t, err)

	// A token of one class never verifies against the other class's secret.
	_, err = m.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
	_, err = m.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestManager_ExpiredTokenRejected(t *testing.T) {
	cfg := testConfig()
	cfg.AccessTokenTTL = -time.Minute
	cfg.RefreshTokenTTL = -time.Minute
	m := token.NewManager(cfg)

	access, err := m.IssueAccessToken(testUser())
	require.NoError(t, err)
	_, err = m.VerifyAccessToken(access)
	assert.ErrorIs(t, err, token.ErrInvalidToken)

	refresh, err := m.IssueRefreshToken(uuid.New())
	require.NoError(t, err)
	_, err = m.VerifyRefreshToken(refresh)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestManager_TamperedTokenRejected(t *testing.T) {
	m := token.NewManager(testConfig())

	other := token.NewManager(&config.Config{
		AccessTokenSecret:  "some-other-access-secret",
		RefreshTokenSecret: "some-other-refresh-secret",
		AccessTokenTTL:     time.Minute,
		RefreshTokenTTL:    time.Hour,
	})

	forged, err := other.IssueAccessToken(testUser())
	require.NoError(t, err)

	_, err = m.VerifyAccessToken(forged)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}
