package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/jobassist/internal/common"
	"github.com/dmitrijs2005/jobassist/internal/server/auth"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.users.Register(ctx, " ada@example.com ", "password123", "Ada")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "ada@example.com", res.User.Email)
	assert.Equal(t, "Ada", res.User.Name)

	p, err := f.users.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, p.UserID)
	assert.Equal(t, "ada@example.com", p.Email)

	u, err := f.users.User(ctx, p)
	require.NoError(t, err)
	assert.NotEqual(t, []byte("password123"), u.PasswordHash)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name, email, password, user string
	}{
		{"bad email", "not-an-email", "password123", "Ada"},
		{"display name in email", "Ada <ada@example.com>", "password123", "Ada"},
		{"short password", "ada@example.com", "short", "Ada"},
		{"short name", "ada@example.com", "password123", " A "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.users.Register(context.Background(), tt.email, tt.password, tt.user)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Register(ctx, "ada@example.com", "password123", "Ada")
	require.NoError(t, err)
	_, err = f.users.Register(ctx, "ADA@example.com", "password456", "Ada Again")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reg, err := f.users.Register(ctx, "ada@example.com", "password123", "Ada")
	require.NoError(t, err)

	res, err := f.users.Login(ctx, "ada@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, reg.User, res.User)
	assert.NotEqual(t, reg.Token, res.Token, "each login opens its own session")

	_, err = f.users.Login(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, common.ErrorUnauthenticated)

	_, err = f.users.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, common.ErrorUnauthenticated)
}

func TestAuthenticate_RejectsBadTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	foreign, err := auth.GenerateToken("sid", "uid", []byte("other-secret"), time.Hour)
	require.NoError(t, err)
	unknownSession, err := auth.GenerateToken("no-such-session", "uid", []byte("test-secret"), time.Hour)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":           "",
		"garbage":         "not.a.jwt",
		"wrong secret":    foreign,
		"unknown session": unknownSession,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.users.Authenticate(ctx, token)
			assert.ErrorIs(t, err, common.ErrorUnauthenticated)
		})
	}
}

func TestAuthenticate_ExpiredSessionIsDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.users.Register(ctx, "ada@example.com", "password123", "Ada")
	require.NoError(t, err)
	claims, err := auth.ParseToken(res.Token, []byte("test-secret"))
	require.NoError(t, err)

	f.clock.Advance(25 * time.Hour)

	_, err = f.users.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, common.ErrorUnauthenticated)

	_, err = f.manager.Sessions().Get(ctx, claims.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.users.Register(ctx, "ada@example.com", "password123", "Ada")
	require.NoError(t, err)

	require.NoError(t, f.users.Logout(ctx, res.Token))
	_, err = f.users.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, common.ErrorUnauthenticated)

	assert.ErrorIs(t, f.users.Logout(ctx, "garbage"), common.ErrorUnauthenticated)
}
