package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/symposium-hq/sympro/config"
	"github.com/symposium-hq/sympro/internal/apperr"
	"github.com/symposium-hq/sympro/internal/dto"
	"github.com/symposium-hq/sympro/internal/model"
)

func newAuth(env *testEnv) AuthService {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	return NewAuthService(cfg, env.users)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv()
	auth := newAuth(env)

	registered, err := auth.Register(dto.RegisterRequest{
		Username: "alice",
		Password: "secret1",
		Email:    "alice@example.com",
		FullName: "Alice",
		Role:     string(model.RoleParticipant),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "alice", registered.User.Username)
	assert.NotEmpty(t, registered.User.Role, "role is carried into the response")

	stored, err := env.users.FindByUsername("alice")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.Password, "password is stored hashed")

	t.Run("login with correct credentials", func(t *testing.T) {
		resp, err := auth.Login(dto.LoginRequest{Username: "alice", Password: "secret1"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("login with wrong password", func(t *testing.T) {
		_, err := auth.Login(dto.LoginRequest{Username: "alice", Password: "nope"})
		assert.True(t, apperr.IsUnauthorized(err))
	})

	t.Run("login with unknown username", func(t *testing.T) {
		_, err := auth.Login(dto.LoginRequest{Username: "ghost", Password: "x"})
		assert.True(t, apperr.IsUnauthorized(err))
	})
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv()
	auth := newAuth(env)

	base := dto.RegisterRequest{
		Username: "alice",
		Password: "secret1",
		Email:    "alice@example.com",
		FullName: "Alice",
		Role:     string(model.RoleParticipant),
	}
	_, err := auth.Register(base)
	require.NoError(t, err)

	t.Run("duplicate username", func(t *testing.T) {
		dup := base
		dup.Email = "other@example.com"
		_, err := auth.Register(dup)
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := base
		dup.Username = "alice2"
		_, err := auth.Register(dup)
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("unknown role", func(t *testing.T) {
		bad := base
		bad.Username = "bob"
		bad.Email = "bob@example.com"
		bad.Role = "overlord"
		_, err := auth.Register(bad)
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestParseToken(t *testing.T) {
	env := newTestEnv()
	auth := newAuth(env)

	registered, err := auth.Register(dto.RegisterRequest{
		Username: "alice",
		Password: "secret1",
		Email:    "alice@example.com",
		FullName: "Alice",
		Role:     string(model.RoleEventAdmin),
	})
	require.NoError(t, err)

	caller, err := auth.ParseToken(registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, caller.UserID)
	assert.Equal(t, model.RoleEventAdmin, caller.Role)

	t.Run("garbage token", func(t *testing.T) {
		_, err := auth.ParseToken("not-a-token")
		assert.True(t, apperr.IsUnauthorized(err))
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		otherCfg := &config.Config{}
		otherCfg.Auth.JWTSecret = "different"
		other := NewAuthService(otherCfg, env.users)
		resp, err := other.Login(dto.LoginRequest{Username: "alice", Password: "secret1"})
		require.NoError(t, err)
		_, err = auth.ParseToken(resp.Token)
		// Same user store, different signing key.
		assert.True(t, apperr.IsUnauthorized(err))
	})
}
