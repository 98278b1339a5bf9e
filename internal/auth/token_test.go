package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/unimarket/internal/auth"
)

func TestTokenManager(t *testing.T) {
	tm := auth.NewTokenManager("s3cret", "unimarket", time.Hour)
	user := auth.User{ID: uuid.New(), Email: "buyer@uni.edu"}

	t.Run("RoundTrip", func(t *testing.T) {
		token, err := tm.Issue(user)
		require.NoError(t, err)

		got, err := tm.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, user, *got)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := auth.NewTokenManager("other", "unimarket", time.Hour).Issue(user)
		require.NoError(t, err)

		_, err = tm.Parse(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		token, err := auth.NewTokenManager("s3cret", "unimarket", -time.Minute).Issue(user)
		require.NoError(t, err)

		_, err = tm.Parse(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("WrongIssuer", func(t *testing.T) {
		token, err := auth.NewTokenManager("s3cret", "elsewhere", time.Hour).Issue(user)
		require.NoError(t, err)

		_, err = tm.Parse(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("NonUUIDSubject", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   "not-a-uuid",
			Issuer:    "unimarket",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
		require.NoError(t, err)

		_, err = tm.Parse(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
