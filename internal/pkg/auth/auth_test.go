package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-api/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "storefront-test"},
		JWT: config.JWTConfig{
			Secret:             "test-secret-key-for-signing-tokens-only",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager(testConfig())

	token, err := m.GenerateAccessToken(42, "user@example.com", true)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.True(t, claims.IsStaff)
	assert.Equal(t, "access", claims.TokenType)
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	m := NewJWTManager(testConfig())

	token, err := m.GenerateRefreshToken(42, "user@example.com")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)

	claims, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	// Staff status never rides on refresh tokens.
	assert.False(t, claims.IsStaff)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	m := NewJWTManager(testConfig())

	token, err := m.GenerateAccessToken(42, "user@example.com", false)
	require.NoError(t, err)

	other := testConfig()
	other.JWT.Secret = "a-completely-different-signing-secret"
	_, err = NewJWTManager(other).ValidateToken(token)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc123", ExtractTokenFromHeader("Bearer abc123"))
	assert.Equal(t, "", ExtractTokenFromHeader("abc123"))
	assert.Equal(t, "", ExtractTokenFromHeader(""))
	assert.Equal(t, "", ExtractTokenFromHeader("Bearer "))
}

func TestPasswordHashAndVerify(t *testing.T) {
	p := NewPasswordManager(testConfig())

	hash, err := p.HashPassword("correcthorse1")
	require.NoError(t, err)
	assert.NotEqual(t, "correcthorse1", hash)

	assert.NoError(t, p.VerifyPassword("correcthorse1", hash))
	assert.Error(t, p.VerifyPassword("wrongpassword1", hash))
}

func TestValidatePassword(t *testing.T) {
	p := NewPasswordManager(testConfig())

	assert.Error(t, p.ValidatePassword("short1"))
	assert.Error(t, p.ValidatePassword("lettersonly"))
	assert.Error(t, p.ValidatePassword("12345678901"))
	assert.NoError(t, p.ValidatePassword("letters4ndnumbers"))
}
