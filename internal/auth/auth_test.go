package auth

import (
	"testing"
	"time"

	"github.com/alimgiray/gcrm/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	ok, err := ComparePassword(hash, "secret123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ComparePassword(hash, "wrong-password")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = ComparePassword("not-a-bcrypt-hash", "secret123")
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)
	user := &models.User{ID: uuid.New(), Email: "u@example.com"}

	token, err := manager.Issue(user)
	require.NoError(t, err)

	userID, err := manager.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestTokenRejections(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)
	user := &models.User{ID: uuid.New(), Email: "u@example.com"}

	t.Run("Expired", func(t *testing.T) {
		expired := NewTokenManager("test-secret", time.Hour)
		expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := expired.Issue(user)
		require.NoError(t, err)

		_, err = manager.Parse(token)
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		other := NewTokenManager("other-secret", time.Hour)
		token, err := other.Issue(user)
		require.NoError(t, err)

		_, err = manager.Parse(token)
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := manager.Parse("not.a.token")
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
	})

	t.Run("Non-UUID subject", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = manager.Parse(token)
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
	})
}
