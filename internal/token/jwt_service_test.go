package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rdq-api/internal/models"
	"rdq-api/internal/token"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := &token.JWTService{Secret: []byte("test-secret")}

	raw, err := svc.GenerateAccessToken(42, models.RoleManager, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ParseAccessToken(raw)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, string(models.RoleManager), claims.Role)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	signer := &token.JWTService{Secret: []byte("test-secret")}
	verifier := &token.JWTService{Secret: []byte("other-secret")}

	raw, err := signer.GenerateAccessToken(1, models.RoleUser, time.Hour)
	require.NoError(t, err)

	_, err = verifier.ParseAccessToken(raw)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	svc := &token.JWTService{Secret: []byte("test-secret")}

	raw, err := svc.GenerateAccessToken(1, models.RoleUser, -time.Minute)
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(raw)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	svc := &token.JWTService{Secret: []byte("test-secret")}
	_, err := svc.ParseAccessToken("not-a-jwt")
	assert.Error(t, err)
}

func TestRefreshTokenHashing(t *testing.T) {
	svc := &token.JWTService{Secret: []byte("test-secret")}

	raw, hash, err := svc.GenerateRandomRefreshToken(32)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	assert.Len(t, hash, 32) // sha256

	// Hashing the raw value again must reproduce the stored hash.
	assert.Equal(t, hash, svc.HashRefreshToken(raw))

	other, _, err := svc.GenerateRandomRefreshToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, raw, other)
}
