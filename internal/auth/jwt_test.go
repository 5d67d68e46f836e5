package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateAccessToken("user-123", "member")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "member", claims.Role)
	assert.Equal(t, "swiftprep", claims.Issuer)
}

func TestVerifyTokenEmpty(t *testing.T) {
	_, err := VerifyToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenGarbage(t *testing.T) {
	SetSecret("test-secret")

	_, err := VerifyToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	SetSecret("test-secret")
	token, err := GenerateAccessToken("user-123", "member")
	require.NoError(t, err)

	SetSecret("different-secret")
	_, err = VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokensAreUnique(t *testing.T) {
	assert.NotEqual(t, GenerateRefreshToken(), GenerateRefreshToken())
}
