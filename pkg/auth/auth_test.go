package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_AccessToken(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, 24*time.Hour)

	token, err := m.GenerateToken("op-1", 42, "caja@lafonda.co")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "op-1", claims.OperatorID)
	assert.Equal(t, int64(42), claims.RestaurantID)
	assert.Equal(t, "caja@lafonda.co", claims.Email)

	_, err = m.ValidateToken(token, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RejectsForeignAndExpiredTokens(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, 24*time.Hour)
	other := NewJWTManager("other-secret", time.Hour, 24*time.Hour)

	token, err := other.GenerateToken("op-1", 1, "")
	require.NoError(t, err)
	_, err = m.ValidateToken(token, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	token, err = m.GenerateToken("op-1", 1, "")
	require.NoError(t, err)
	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.ValidateToken(token, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("arepa123")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("arepa123", hash))
	assert.False(t, CheckPasswordHash("arepa124", hash))
}
