package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_ServiceToken_Roundtrip(t *testing.T) {
	j := NewJWT("secret", time.Hour)

	tok, err := j.GenerateServiceToken("companion")
	require.NoError(t, err)

	got, err := j.ParseServiceToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "companion", got)
}

func TestJWT_EmptySubject(t *testing.T) {
	j := NewJWT("secret", time.Hour)

	_, err := j.GenerateServiceToken("")
	require.Error(t, err)
}

func TestJWT_WrongSecret(t *testing.T) {
	tok, err := NewJWT("secret", time.Hour).GenerateServiceToken("companion")
	require.NoError(t, err)

	_, err = NewJWT("other", time.Hour).ParseServiceToken(tok)
	require.Error(t, err)
}

func TestJWT_Expired(t *testing.T) {
	j := NewJWT("secret", time.Minute)
	issued := time.Now().Add(-time.Hour)
	j.now = func() time.Time { return issued }

	tok, err := j.GenerateServiceToken("companion")
	require.NoError(t, err)

	j.now = time.Now
	_, err = j.ParseServiceToken(tok)
	require.Error(t, err)
}

func TestJWT_TokenType_Mismatch(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   "companion",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		TokenType: "access",
	})
	signed, err := tok.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWT("secret", time.Hour).ParseServiceToken(signed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token type mismatch")
}

func TestNewJWT_DefaultTTL(t *testing.T) {
	j := NewJWT("secret", 0)
	assert.Equal(t, defaultServiceTTL, j.ttl)
}
