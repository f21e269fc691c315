package auth

import (
	"context"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokens("secret")

	token, err := tokens.GenerateToken(42)
	require.NoError(t, err)

	userID, err := tokens.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestValidateTokenRejects(t *testing.T) {
	tokens := NewTokens("secret")
	ctx := context.Background()

	other, err := NewTokens("other").GenerateToken(42)
	require.NoError(t, err)
	_, err = tokens.ValidateToken(ctx, other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokens("secret")
	expired.now = func() time.Time { return time.Now().Add(-30 * 24 * time.Hour) }
	old, err := expired.GenerateToken(42)
	require.NoError(t, err)
	_, err = tokens.ValidateToken(ctx, old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noneAlg, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.MapClaims{"sub": 1, "exp": time.Now().Add(time.Hour).Unix()}).
		SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.ValidateToken(ctx, noneAlg)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.ValidateToken(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestEmptySecretRejectsEverything(t *testing.T) {
	_, err := NewTokens("").ValidateToken(context.Background(), "x.y.z")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
