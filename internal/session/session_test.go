package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) AccessToken() string { return string(s) }

func TestIsAuthenticated(t *testing.T) {
	assert.False(t, IsAuthenticated(staticToken("")))
	assert.True(t, IsAuthenticated(staticToken("A1")))
}

func TestDescribe_ReadsClaimsWithoutVerifying(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("server-secret-we-do-not-know"))
	require.NoError(t, err)

	info := Describe(staticToken(signed))
	assert.True(t, info.Authenticated)
	assert.Equal(t, "42", info.Subject)
	assert.True(t, exp.Equal(info.ExpiresAt))
	assert.False(t, info.Expired(exp.Add(-time.Minute)))
	assert.True(t, info.Expired(exp.Add(time.Minute)))
}

func TestDescribe_UserIDClaimFallback(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "u-7"})
	signed, err := tok.SignedString([]byte("k"))
	require.NoError(t, err)

	assert.Equal(t, "u-7", Describe(staticToken(signed)).Subject)
}

func TestDescribe_OpaqueAndMissingTokens(t *testing.T) {
	assert.Equal(t, Info{}, Describe(staticToken("")))

	info := Describe(staticToken("opaque-token"))
	assert.True(t, info.Authenticated)
	assert.Empty(t, info.Subject)
	assert.True(t, info.ExpiresAt.IsZero())
	assert.False(t, info.Expired(time.Now()))
}
