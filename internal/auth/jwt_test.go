// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/recipebox/internal/config"
	"github.com/angelamos/recipebox/internal/core"
)

func newTestTokenManager(t *testing.T) *TokenManager {
	t.Helper()

	dir := t.TempDir()
	privatePath := filepath.Join(dir, "private.pem")
	publicPath := filepath.Join(dir, "public.pem")
	require.NoError(t, GenerateKeyPair(privatePath, publicPath))

	manager, err := NewTokenManager(config.JWTConfig{
		PrivateKeyPath:     privatePath,
		PublicKeyPath:      publicPath,
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 7 * 24 * time.Hour,
		Issuer:             "recipebox",
		Audience:           "recipebox-api",
	})
	require.NoError(t, err)

	return manager
}

func TestTokenManager_AccessTokenRoundTrip(t *testing.T) {
	manager := newTestTokenManager(t)

	signed, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID:       "user-123",
		IsStaff:      true,
		TokenVersion: 3,
	})
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := manager.VerifyAccessToken(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.True(t, claims.IsStaff)
	assert.Equal(t, 3, claims.TokenVersion)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	manager := newTestTokenManager(t)

	_, err := manager.VerifyAccessToken(
		context.Background(),
		"not.a.token",
	)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestTokenManager_RejectsForeignSignature(t *testing.T) {
	manager := newTestTokenManager(t)
	other := newTestTokenManager(t)

	signed, err := other.CreateAccessToken(AccessTokenClaims{
		UserID: "user-123",
	})
	require.NoError(t, err)

	_, err = manager.VerifyAccessToken(context.Background(), signed)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestTokenManager_JTI(t *testing.T) {
	manager := newTestTokenManager(t)

	signed, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID: "user-123",
	})
	require.NoError(t, err)

	jti, expiresAt, err := manager.JTI(signed)
	require.NoError(t, err)
	assert.NotEmpty(t, jti)
	assert.True(t, expiresAt.After(time.Now()))
}

func TestTokenManager_CreateRefreshToken(t *testing.T) {
	manager := newTestTokenManager(t)

	data, err := manager.CreateRefreshToken("user-123", "")
	require.NoError(t, err)

	assert.NotEmpty(t, data.Token)
	assert.NotEmpty(t, data.FamilyID)
	assert.True(t, core.CompareTokenHash(data.Token, data.Hash))
	assert.True(t, data.ExpiresAt.After(time.Now().Add(6*24*time.Hour)))

	// A supplied family id is preserved for rotation chains.
	chained, err := manager.CreateRefreshToken("user-123", data.FamilyID)
	require.NoError(t, err)
	assert.Equal(t, data.FamilyID, chained.FamilyID)
}
