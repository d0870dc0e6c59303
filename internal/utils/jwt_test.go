package utils_test

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sezalkc/tablease/internal/utils"
)

func TestNewAccessTokenClaims(t *testing.T) {
	at, err := utils.NewAccessToken("test-secret", 9, "Sita", "waiter", 15)
	require.NoError(t, err)
	require.NotEmpty(t, at.Token)

	tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)

	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(9), claims["sub"])
	assert.Equal(t, "Sita", claims["name"])
	assert.Equal(t, "waiter", claims["role"])
}

func TestNewAccessTokenWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("test-secret", 9, "Sita", "waiter", 15)
	require.NoError(t, err)

	_, err = jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	assert.Error(t, err)
}

func TestRefreshTokenHashing(t *testing.T) {
	rt, err := utils.NewRefreshToken(7)
	require.NoError(t, err)
	assert.Len(t, rt.Raw, 96)

	h1 := utils.HashRefreshRaw(rt.Raw)
	h2 := utils.HashRefreshRaw(rt.Raw)
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, rt.Raw, h1)
	assert.NotEqual(t, h1, utils.HashRefreshRaw(rt.Raw+"x"))
}

func TestRandomHexUnique(t *testing.T) {
	a, err := utils.RandomHex(32)
	require.NoError(t, err)
	b, err := utils.RandomHex(32)
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := utils.HashPassword("kathmandu123", 4)
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(hash, "kathmandu123"))
	assert.False(t, utils.VerifyPassword(hash, "kathmandu124"))
}
