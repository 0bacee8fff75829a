package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret1")

	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, VerifyPassword(hash, "secret1"))
	assert.False(t, VerifyPassword(hash, "secret2"))
}

func TestHashPassword_LongPasswords(t *testing.T) {
	tests := map[string]string{
		"ascii":    strings.Repeat("p", 100),
		"cyrillic": strings.Repeat("п", 100),
	}

	for name, password := range tests {
		t.Run(name, func(t *testing.T) {
			hash, err := HashPassword(password)

			require.NoError(t, err)
			assert.True(t, VerifyPassword(hash, password))
			assert.False(t, VerifyPassword(hash, password[:len(password)-1]))
		})
	}
}

func TestHashPassword_DistinguishesPastSeventyTwoBytes(t *testing.T) {
	prefix := strings.Repeat("a", 72)

	hash, err := HashPassword(prefix + "one")
	require.NoError(t, err)

	assert.False(t, VerifyPassword(hash, prefix+"two"))
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "secret1"))
	assert.False(t, VerifyPassword("", ""))
}

func TestIssuer(t *testing.T) {
	issuer := NewIssuer("test-secret-key", time.Hour)

	t.Run("round trip", func(t *testing.T) {
		token, exp, err := issuer.Issue(42, "Admin")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

		claims, err := issuer.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, "42", claims.Subject)
		assert.Equal(t, "Admin", claims.Role)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewIssuer("another-secret", time.Hour)
		token, _, err := other.Issue(1, "User")
		require.NoError(t, err)

		claims, err := issuer.Parse(token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewIssuer("test-secret-key", time.Hour)
		expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := expired.Issue(1, "User")
		require.NoError(t, err)

		_, err = issuer.Parse(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("missing secret", func(t *testing.T) {
		_, _, err := NewIssuer("", time.Hour).Issue(1, "User")
		assert.Error(t, err)
	})
}
