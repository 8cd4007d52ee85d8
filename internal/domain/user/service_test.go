package user

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-api/internal/config"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))

	cfg := &config.Config{
		App: config.AppConfig{Name: "storefront-test"},
		JWT: config.JWTConfig{
			Secret:             "test-secret-key-for-signing-tokens-only",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
	}

	return NewService(db, cfg), db
}

func registerRequest() *RegisterRequest {
	return &RegisterRequest{
		Email:           "Jamie@Example.com",
		Password:        "sturdypass1",
		ConfirmPassword: "sturdypass1",
		FirstName:       "Jamie",
		LastName:        "Doe",
	}
}

func TestRegister(t *testing.T) {
	svc, db := newTestService(t)

	resp, err := svc.Register(registerRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Empty(t, resp.User.Password)
	assert.False(t, resp.User.IsStaff)

	// Email is normalized to lowercase on create.
	var stored User
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, "jamie@example.com", stored.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(registerRequest())
	require.NoError(t, err)

	req := registerRequest()
	req.Email = "jamie@example.com"
	_, err = svc.Register(req)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	svc, _ := newTestService(t)

	req := registerRequest()
	req.ConfirmPassword = "different1"
	_, err := svc.Register(req)
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(registerRequest())
	require.NoError(t, err)

	resp, err := svc.Login(&LoginRequest{Email: "jamie@example.com", Password: "sturdypass1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(registerRequest())
	require.NoError(t, err)

	_, err = svc.Login(&LoginRequest{Email: "jamie@example.com", Password: "nope-wrong1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(&LoginRequest{Email: "ghost@example.com", Password: "whatever1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshToken(t *testing.T) {
	svc, _ := newTestService(t)

	registered, err := svc.Register(registerRequest())
	require.NoError(t, err)

	resp, err := svc.RefreshToken(registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.RefreshToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidRefresh)

	// An access token is not accepted as a refresh token.
	_, err = svc.RefreshToken(registered.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService(t)

	registered, err := svc.Register(registerRequest())
	require.NoError(t, err)
	userID := registered.User.ID

	require.NoError(t, svc.ChangePassword(userID, "sturdypass1", "evensturdier2"))

	_, err = svc.Login(&LoginRequest{Email: "jamie@example.com", Password: "sturdypass1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(&LoginRequest{Email: "jamie@example.com", Password: "evensturdier2"})
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(userID, "wrongcurrent1", "whatever3"), ErrInvalidCredentials)
}

func TestGetProfile(t *testing.T) {
	svc, _ := newTestService(t)

	registered, err := svc.Register(registerRequest())
	require.NoError(t, err)

	profile, err := svc.GetProfile(registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "jamie@example.com", profile.Email)
	assert.Empty(t, profile.Password)

	_, err = svc.GetProfile(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
