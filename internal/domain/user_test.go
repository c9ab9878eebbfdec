package domain_test

import (
	"testing"

	"github.com/arjunm/vidstream-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_SetPassword(t *testing.T) {
	u := &domain.User{}
	require.NoError(t, u.SetPassword("pw123"))

	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "pw123", u.PasswordHash)
	assert.True(t, u.CheckPassword("pw123"))
	assert.False(t, u.CheckPassword("wrong"))
}

func TestUser_SetPasswordReplacesOldHash(t *testing.T) {
	u := &domain.User{}
	require.NoError(t, u.SetPassword("oldpassword"))
	require.NoError(t, u.SetPassword("newpassword"))

	assert.False(t, u.CheckPassword("oldpassword"))
	assert.True(t, u.CheckPassword("newpassword"))
}

func TestNormalizeIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alice", "alice"},
		{"  Alice@X.com  ", "alice@x.com"},
		{"bob", "bob"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.NormalizeIdentifier(tt.in))
	}
}
